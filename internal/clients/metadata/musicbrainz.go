package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MathieuSim0/EpiKodi/internal/models"
)

const (
	musicBrainzBaseURL = "https://musicbrainz.org/ws/2"
	coverArtBaseURL    = "https://coverartarchive.org"

	// MusicBrainz usage policy: at most one request per second.
	musicBrainzInterval = time.Second
)

// MusicBrainzClient talks to the music metadata service and its cover art
// archive. MusicBrainz requires an identifying User-Agent and enforces a hard
// floor of one request per second; every call from this client, async or
// synchronous, goes through a single-slot sequencer that preserves submission
// order and the minimum spacing.
type MusicBrainzClient struct {
	baseURL     string
	coverArtURL string
	userAgent   string
	httpClient  *http.Client
	cache       Cache
	sequencer   *requestSequencer

	artists  chan ArtistListResult
	albums   chan AlbumListResult
	coverArt chan CoverArtResult
	errs     chan ClientError
}

func NewMusicBrainzClient(userAgent string, cache Cache) *MusicBrainzClient {
	return newMusicBrainzClient(musicBrainzBaseURL, coverArtBaseURL, userAgent, cache, musicBrainzInterval)
}

func newMusicBrainzClient(baseURL, coverArtURL, userAgent string, cache Cache, interval time.Duration) *MusicBrainzClient {
	return &MusicBrainzClient{
		baseURL:     baseURL,
		coverArtURL: coverArtURL,
		userAgent:   userAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:     cache,
		sequencer: newRequestSequencer(interval),
		artists:   make(chan ArtistListResult, resultBuffer),
		albums:    make(chan AlbumListResult, resultBuffer),
		coverArt:  make(chan CoverArtResult, resultBuffer),
		errs:      make(chan ClientError, resultBuffer),
	}
}

func (c *MusicBrainzClient) Artists() <-chan ArtistListResult { return c.artists }
func (c *MusicBrainzClient) Albums() <-chan AlbumListResult   { return c.albums }
func (c *MusicBrainzClient) CoverArt() <-chan CoverArtResult  { return c.coverArt }
func (c *MusicBrainzClient) Errors() <-chan ClientError       { return c.errs }

type mbArtist struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Type    string `json:"type"`
}

type mbRelease struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Date         string `json:"date"`
	TrackCount   int    `json:"track-count"`
	ArtistCredit []struct {
		Artist struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"artist"`
	} `json:"artist-credit"`
}

// get runs one request through the sequencer and blocks until it completes.
func (c *MusicBrainzClient) get(ctx context.Context, rawURL, cacheKey string) ([]byte, error) {
	if cacheKey != "" && c.cache != nil {
		if body, ok := c.cache.Get("musicbrainz", cacheKey); ok {
			return body, nil
		}
	}

	type outcome struct {
		body []byte
		err  error
	}
	done := make(chan outcome, 1)
	c.sequencer.enqueue(func() {
		body, err := c.fetch(ctx, rawURL)
		done <- outcome{body: body, err: err}
	})
	out := <-done

	if out.err == nil && cacheKey != "" && c.cache != nil {
		c.cache.Put("musicbrainz", cacheKey, out.body)
	}
	return out.body, out.err
}

func (c *MusicBrainzClient) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// SearchArtists queries /artist. An empty result list is normal.
func (c *MusicBrainzClient) SearchArtists(ctx context.Context, query string) ([]models.Artist, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", "20")

	body, err := c.get(ctx, c.baseURL+"/artist?"+params.Encode(), "artist?q="+query)
	if err != nil {
		return nil, fmt.Errorf("failed to search artists on MusicBrainz: %w", err)
	}

	var raw struct {
		Artists []mbArtist `json:"artists"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode MusicBrainz response: %w", err)
	}

	artists := make([]models.Artist, 0, len(raw.Artists))
	for _, a := range raw.Artists {
		artists = append(artists, models.Artist{
			ID:      models.ArtistID(a.ID),
			Name:    a.Name,
			Country: a.Country,
			Type:    a.Type,
		})
	}
	return artists, nil
}

// SearchAlbums queries /release by free text.
func (c *MusicBrainzClient) SearchAlbums(ctx context.Context, query string) ([]models.Album, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", "20")

	body, err := c.get(ctx, c.baseURL+"/release?"+params.Encode(), "release?q="+query)
	if err != nil {
		return nil, fmt.Errorf("failed to search albums on MusicBrainz: %w", err)
	}
	return parseMBReleases(body)
}

// GetArtistAlbums lists an artist's album releases.
func (c *MusicBrainzClient) GetArtistAlbums(ctx context.Context, artistID models.ArtistID) ([]models.Album, error) {
	params := url.Values{}
	params.Set("artist", string(artistID))
	params.Set("fmt", "json")
	params.Set("limit", "50")
	params.Set("type", "album")

	body, err := c.get(ctx, c.baseURL+"/release?"+params.Encode(), "release?artist="+string(artistID))
	if err != nil {
		return nil, fmt.Errorf("failed to get artist albums on MusicBrainz: %w", err)
	}
	return parseMBReleases(body)
}

// GetCoverArt returns the first image URL for a release, or "" when the
// release has no cover art. Absence of art is not an error: a missing entry
// (404 included) simply yields the empty string.
func (c *MusicBrainzClient) GetCoverArt(ctx context.Context, albumID models.AlbumID) (string, error) {
	body, err := c.get(ctx, c.coverArtURL+"/release/"+string(albumID), "")
	if err != nil {
		return "", nil
	}

	var raw struct {
		Images []struct {
			Image string `json:"image"`
		} `json:"images"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", nil
	}
	if len(raw.Images) == 0 {
		return "", nil
	}
	return raw.Images[0].Image, nil
}

// Async surface.

func (c *MusicBrainzClient) SearchArtistsAsync(query string) RequestToken {
	token := NewRequestToken()
	go func() {
		artists, err := c.SearchArtists(context.Background(), query)
		if err != nil {
			c.errs <- ClientError{Token: token, Message: err.Error()}
			return
		}
		c.artists <- ArtistListResult{Token: token, Artists: artists}
	}()
	return token
}

func (c *MusicBrainzClient) SearchAlbumsAsync(query string) RequestToken {
	token := NewRequestToken()
	go func() {
		albums, err := c.SearchAlbums(context.Background(), query)
		if err != nil {
			c.errs <- ClientError{Token: token, Message: err.Error()}
			return
		}
		c.albums <- AlbumListResult{Token: token, Albums: albums}
	}()
	return token
}

func (c *MusicBrainzClient) GetArtistAlbumsAsync(artistID models.ArtistID) RequestToken {
	token := NewRequestToken()
	go func() {
		albums, err := c.GetArtistAlbums(context.Background(), artistID)
		if err != nil {
			c.errs <- ClientError{Token: token, Message: err.Error()}
			return
		}
		c.albums <- AlbumListResult{Token: token, Albums: albums}
	}()
	return token
}

// GetCoverArtAsync tags the in-flight request with the album id so the
// completion can be matched to its album; the archive's response does not
// echo the id back. Never reports on the error channel.
func (c *MusicBrainzClient) GetCoverArtAsync(albumID models.AlbumID) RequestToken {
	token := NewRequestToken()
	go func() {
		coverURL, _ := c.GetCoverArt(context.Background(), albumID)
		c.coverArt <- CoverArtResult{Token: token, AlbumID: albumID, URL: coverURL}
	}()
	return token
}

func parseMBReleases(body []byte) ([]models.Album, error) {
	var raw struct {
		Releases []mbRelease `json:"releases"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode MusicBrainz response: %w", err)
	}

	albums := make([]models.Album, 0, len(raw.Releases))
	for _, r := range raw.Releases {
		album := models.Album{
			ID:          models.AlbumID(r.ID),
			Title:       r.Title,
			ReleaseDate: models.ParseISODate(r.Date),
			TrackCount:  r.TrackCount,
		}
		if len(r.ArtistCredit) > 0 {
			album.ArtistName = r.ArtistCredit[0].Artist.Name
			album.ArtistID = models.ArtistID(r.ArtistCredit[0].Artist.ID)
		}
		albums = append(albums, album)
	}
	return albums, nil
}
