package metadata

import (
	"github.com/google/uuid"

	"github.com/MathieuSim0/EpiKodi/internal/models"
)

// RequestToken correlates an async request with its completion. Completions
// arrive in transport-resolution order, which may differ from issue order;
// consumers must match on the token, never on arrival order.
type RequestToken string

func NewRequestToken() RequestToken {
	return RequestToken(uuid.NewString())
}

// ClientError is delivered on a client's error channel when a request fails.
// The provider's raw transport message is appended to Message.
type ClientError struct {
	Token   RequestToken
	Message string
}

func (e ClientError) Error() string {
	return e.Message
}

// Result envelopes carried on the clients' completion channels. One envelope
// type per payload shape; each carries the token returned at issue time.

type MovieListResult struct {
	Token  RequestToken
	Movies []models.Movie
}

type SeriesListResult struct {
	Token  RequestToken
	Series []models.Series
}

type MovieDetailResult struct {
	Token RequestToken
	Movie models.Movie
}

type SeriesDetailResult struct {
	Token  RequestToken
	Series models.Series
}

type CreditsResult struct {
	Token RequestToken
	Cast  []models.CastMember
}

type TrailerResult struct {
	Token RequestToken
	URL   string // empty when no trailer matched; not an error
}

type ArtistListResult struct {
	Token   RequestToken
	Artists []models.Artist
}

type AlbumListResult struct {
	Token  RequestToken
	Albums []models.Album
}

// CoverArtResult carries the originating album id because the cover art
// service does not echo it back.
type CoverArtResult struct {
	Token   RequestToken
	AlbumID models.AlbumID
	URL     string // empty when the release has no cover art; not an error
}

// Cache stores raw provider response bodies so repeated searches skip the
// network. Implementations decide freshness; a miss simply refetches.
type Cache interface {
	Get(provider, key string) ([]byte, bool)
	Put(provider, key string, body []byte)
}

const resultBuffer = 16
