package models

// Album is a music release. ArtistName is always set from the release's
// first artist credit; ArtistID is an optional cross-reference filled in when
// a separate artist lookup resolved it. CoverArtURL is resolved lazily and
// may stay empty.
type Album struct {
	ID          AlbumID  `json:"id"`
	Title       string   `json:"title"`
	ArtistName  string   `json:"artist_name"`
	ArtistID    ArtistID `json:"artist_id"`
	ReleaseDate Date     `json:"release_date"`
	CoverArtURL string   `json:"cover_art_url"`
	TrackCount  int      `json:"track_count"`
}
