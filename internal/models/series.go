package models

// Series is the normalized TV series record. Same schema conventions as
// Movie: JSON tags are the favorites-file schema, Genres stays in memory.
type Series struct {
	ID               SeriesID `json:"id"`
	Name             string   `json:"name"`
	Overview         string   `json:"overview"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	FirstAirDate     Date     `json:"first_air_date"`
	Rating           float64  `json:"rating"`
	NumberOfSeasons  int      `json:"number_of_seasons"`
	NumberOfEpisodes int      `json:"number_of_episodes"`
	Genres           []string `json:"-"`
}
