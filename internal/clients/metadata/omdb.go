package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MathieuSim0/EpiKodi/internal/models"
)

const omdbBaseURL = "http://www.omdbapi.com/"

// ErrNoResults is reported when a mixed search yields neither movies nor
// series. A single empty bucket next to a populated one is normal.
var ErrNoResults = fmt.Errorf("no results")

// OMDbClient talks to the aggregator service. Its single search endpoint
// returns movies and series mixed in one array; the client splits them into
// typed buckets in one pass. Numeric ids are derived from the external string
// id and are only meaningful for in-process favorite matching.
type OMDbClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      Cache

	movies        chan MovieListResult
	series        chan SeriesListResult
	movieDetails  chan MovieDetailResult
	seriesDetails chan SeriesDetailResult
	errs          chan ClientError
}

func NewOMDbClient(apiKey string, cache Cache) *OMDbClient {
	return newOMDbClient(omdbBaseURL, apiKey, cache)
}

func newOMDbClient(baseURL, apiKey string, cache Cache) *OMDbClient {
	return &OMDbClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:         cache,
		movies:        make(chan MovieListResult, resultBuffer),
		series:        make(chan SeriesListResult, resultBuffer),
		movieDetails:  make(chan MovieDetailResult, resultBuffer),
		seriesDetails: make(chan SeriesDetailResult, resultBuffer),
		errs:          make(chan ClientError, resultBuffer),
	}
}

func (c *OMDbClient) Movies() <-chan MovieListResult           { return c.movies }
func (c *OMDbClient) Series() <-chan SeriesListResult          { return c.series }
func (c *OMDbClient) MovieDetails() <-chan MovieDetailResult   { return c.movieDetails }
func (c *OMDbClient) SeriesDetails() <-chan SeriesDetailResult { return c.seriesDetails }
func (c *OMDbClient) Errors() <-chan ClientError               { return c.errs }

type omdbSearchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type omdbDetail struct {
	Title        string `json:"Title"`
	Year         string `json:"Year"`
	Released     string `json:"Released"`
	Runtime      string `json:"Runtime"`
	Genre        string `json:"Genre"`
	Plot         string `json:"Plot"`
	Poster       string `json:"Poster"`
	ImdbRating   string `json:"imdbRating"`
	ImdbID       string `json:"imdbID"`
	Type         string `json:"Type"`
	TotalSeasons string `json:"totalSeasons"`
	Response     string `json:"Response"`
	Error        string `json:"Error"`
}

func (c *OMDbClient) get(ctx context.Context, params url.Values, cacheKey string) ([]byte, error) {
	if cacheKey != "" && c.cache != nil {
		if body, ok := c.cache.Get("omdb", cacheKey); ok {
			return body, nil
		}
	}

	params.Set("apikey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if cacheKey != "" && c.cache != nil {
		c.cache.Put("omdb", cacheKey, body)
	}
	return body, nil
}

// Search issues one mixed query and returns the two typed buckets. Both
// buckets empty is reported as ErrNoResults; upstream "Response: False" is
// reported with the upstream message appended.
func (c *OMDbClient) Search(ctx context.Context, query string) ([]models.Movie, []models.Series, error) {
	params := url.Values{}
	params.Set("s", query)

	body, err := c.get(ctx, params, "search?q="+query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search on OMDb: %w", err)
	}

	var raw struct {
		Search   []omdbSearchItem `json:"Search"`
		Response string           `json:"Response"`
		Error    string           `json:"Error"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to decode OMDb response: %w", err)
	}
	if raw.Response != "True" {
		return nil, nil, fmt.Errorf("no results: %s", raw.Error)
	}

	movies, series := splitSearchResults(raw.Search)
	if len(movies) == 0 && len(series) == 0 {
		return nil, nil, ErrNoResults
	}
	return movies, series, nil
}

// GetDetails looks up one title by external id. The endpoint serves both
// movies and series; the response's Type field decides which of the two
// return values is set.
func (c *OMDbClient) GetDetails(ctx context.Context, id models.IMDbID) (*models.Movie, *models.Series, error) {
	params := url.Values{}
	params.Set("i", string(id))
	params.Set("plot", "full")

	body, err := c.get(ctx, params, "")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get details on OMDb: %w", err)
	}

	var raw omdbDetail
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to decode OMDb response: %w", err)
	}
	if raw.Response != "True" {
		return nil, nil, fmt.Errorf("no results: %s", raw.Error)
	}

	switch raw.Type {
	case "movie":
		movie := parseOMDbMovie(raw)
		return &movie, nil, nil
	case "series":
		series := parseOMDbSeries(raw)
		return nil, &series, nil
	default:
		return nil, nil, fmt.Errorf("unknown result type %q", raw.Type)
	}
}

// Async surface.

// SearchAsync delivers the movie and series buckets independently on their
// channels, both tagged with the returned token. Presence of one bucket next
// to an empty other is normal; both empty surfaces as a "no results" error.
func (c *OMDbClient) SearchAsync(query string) RequestToken {
	token := NewRequestToken()
	go func() {
		movies, series, err := c.Search(context.Background(), query)
		if err != nil {
			c.errs <- ClientError{Token: token, Message: err.Error()}
			return
		}
		if len(movies) > 0 {
			c.movies <- MovieListResult{Token: token, Movies: movies}
		}
		if len(series) > 0 {
			c.series <- SeriesListResult{Token: token, Series: series}
		}
	}()
	return token
}

func (c *OMDbClient) GetDetailsAsync(id models.IMDbID) RequestToken {
	token := NewRequestToken()
	go func() {
		movie, series, err := c.GetDetails(context.Background(), id)
		if err != nil {
			c.errs <- ClientError{Token: token, Message: err.Error()}
			return
		}
		if movie != nil {
			c.movieDetails <- MovieDetailResult{Token: token, Movie: *movie}
		} else {
			c.seriesDetails <- SeriesDetailResult{Token: token, Series: *series}
		}
	}()
	return token
}

// splitSearchResults classifies a mixed result array into typed buckets by
// its Type discriminator. Records with an unrecognized type are dropped
// silently. Search results carry no synopsis; it is filled by GetDetails.
func splitSearchResults(items []omdbSearchItem) ([]models.Movie, []models.Series) {
	var movies []models.Movie
	var series []models.Series

	for _, item := range items {
		switch item.Type {
		case "movie":
			imdbID := models.IMDbID(item.ImdbID)
			movies = append(movies, models.Movie{
				ID:          models.MovieID(imdbID.Derived()),
				IMDbID:      imdbID,
				Title:       item.Title,
				PosterPath:  item.Poster,
				ReleaseDate: models.ParseReleasedDate("", item.Year),
			})
		case "series":
			imdbID := models.IMDbID(item.ImdbID)
			series = append(series, models.Series{
				ID:           models.SeriesID(imdbID.Derived()),
				Name:         item.Title,
				PosterPath:   item.Poster,
				FirstAirDate: models.ParseReleasedDate("", item.Year),
			})
		}
	}
	return movies, series
}

func parseOMDbMovie(raw omdbDetail) models.Movie {
	imdbID := models.IMDbID(raw.ImdbID)
	return models.Movie{
		ID:          models.MovieID(imdbID.Derived()),
		IMDbID:      imdbID,
		Title:       raw.Title,
		Overview:    raw.Plot,
		PosterPath:  raw.Poster,
		ReleaseDate: models.ParseReleasedDate(raw.Released, raw.Year),
		Rating:      lenientFloat(raw.ImdbRating),
		Runtime:     lenientInt(strings.TrimSuffix(raw.Runtime, " min")),
		Genres:      splitGenres(raw.Genre),
	}
}

func parseOMDbSeries(raw omdbDetail) models.Series {
	imdbID := models.IMDbID(raw.ImdbID)
	return models.Series{
		ID:              models.SeriesID(imdbID.Derived()),
		Name:            raw.Title,
		Overview:        raw.Plot,
		PosterPath:      raw.Poster,
		FirstAirDate:    models.ParseReleasedDate(raw.Released, raw.Year),
		Rating:          lenientFloat(raw.ImdbRating),
		NumberOfSeasons: lenientInt(raw.TotalSeasons),
		Genres:          splitGenres(raw.Genre),
	}
}

// OMDb serves ratings, runtimes and season counts as decimal-formatted text
// ("8.8", "139 min", "N/A"). Non-numeric text parses to zero, never an error.

func lenientFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func lenientInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func splitGenres(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ", ")
}
