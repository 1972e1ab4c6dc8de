package models

// Movie is the normalized movie record shared by every provider. The JSON
// tags define the favorites-file schema; Genres is in-memory only.
//
// ID is the identity key for favorites lookups. Poster and backdrop paths are
// stored as provider-relative fragments; combining them with an image base
// URL is a presentation concern.
type Movie struct {
	ID           MovieID  `json:"id"`
	Title        string   `json:"title"`
	Overview     string   `json:"overview"`
	PosterPath   string   `json:"poster_path"`
	BackdropPath string   `json:"backdrop_path"`
	ReleaseDate  Date     `json:"release_date"`
	Rating       float64  `json:"rating"`
	Runtime      int      `json:"runtime"`
	IMDbID       IMDbID   `json:"imdb_id"`
	TrailerURL   string   `json:"trailer_url"`
	Genres       []string `json:"-"`
}

// CastMember is one (actor, headshot fragment) pair from a credits lookup,
// in the provider's billing order.
type CastMember struct {
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
}
