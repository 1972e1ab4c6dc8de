package models

// Artist is a music artist as returned by the music provider. Type is the
// provider's free-text classification ("Person", "Group", ...).
type Artist struct {
	ID      ArtistID `json:"id"`
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Type    string   `json:"type"`
	Genres  []string `json:"genres,omitempty"`
}
