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
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p/w500"

	trailerSite = "YouTube"
	trailerType = "Trailer"
)

// ImageURL combines a TMDb poster/backdrop path fragment with the image base
// URL. Fragments are stored relative; this is the presentation-side join.
func ImageURL(path string) string {
	if path == "" {
		return ""
	}
	return tmdbImageBaseURL + path
}

// TMDbClient talks to the movie/TV catalog service. Every operation exists in
// a synchronous form and an Async form; the Async form returns a token
// immediately and delivers the outcome on the matching result channel, or on
// Errors(). Async calls never fail synchronously and cannot be cancelled.
type TMDbClient struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	cache      Cache

	movies        chan MovieListResult
	popularMovies chan MovieListResult
	series        chan SeriesListResult
	movieDetails  chan MovieDetailResult
	seriesDetails chan SeriesDetailResult
	credits       chan CreditsResult
	trailers      chan TrailerResult
	errs          chan ClientError
}

func NewTMDbClient(apiKey, language string, cache Cache) *TMDbClient {
	return newTMDbClient(tmdbBaseURL, apiKey, language, cache)
}

func newTMDbClient(baseURL, apiKey, language string, cache Cache) *TMDbClient {
	return &TMDbClient{
		baseURL:  baseURL,
		apiKey:   apiKey,
		language: language,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:         cache,
		movies:        make(chan MovieListResult, resultBuffer),
		popularMovies: make(chan MovieListResult, resultBuffer),
		series:        make(chan SeriesListResult, resultBuffer),
		movieDetails:  make(chan MovieDetailResult, resultBuffer),
		seriesDetails: make(chan SeriesDetailResult, resultBuffer),
		credits:       make(chan CreditsResult, resultBuffer),
		trailers:      make(chan TrailerResult, resultBuffer),
		errs:          make(chan ClientError, resultBuffer),
	}
}

func (c *TMDbClient) Movies() <-chan MovieListResult           { return c.movies }
func (c *TMDbClient) PopularMovies() <-chan MovieListResult    { return c.popularMovies }
func (c *TMDbClient) Series() <-chan SeriesListResult          { return c.series }
func (c *TMDbClient) MovieDetails() <-chan MovieDetailResult   { return c.movieDetails }
func (c *TMDbClient) SeriesDetails() <-chan SeriesDetailResult { return c.seriesDetails }
func (c *TMDbClient) Credits() <-chan CreditsResult            { return c.credits }
func (c *TMDbClient) Trailers() <-chan TrailerResult           { return c.trailers }
func (c *TMDbClient) Errors() <-chan ClientError               { return c.errs }

// TMDb API response fragments. Only documented fields are consumed; absent
// fields default to empty/zero.

type tmdbMovie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	Genres       []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

type tmdbSeries struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	FirstAirDate     string  `json:"first_air_date"`
	VoteAverage      float64 `json:"vote_average"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
	Genres           []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

func (c *TMDbClient) get(ctx context.Context, path string, params url.Values, cacheKey string) ([]byte, error) {
	if cacheKey != "" && c.cache != nil {
		if body, ok := c.cache.Get("tmdb", cacheKey); ok {
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
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
		c.cache.Put("tmdb", cacheKey, body)
	}
	return body, nil
}

func (c *TMDbClient) params() url.Values {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	return params
}

// SearchMovies queries /search/movie. An empty result list is normal, not an
// error.
func (c *TMDbClient) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	params := c.params()
	params.Set("query", query)

	body, err := c.get(ctx, "/search/movie", params, "search/movie?q="+query)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies on TMDb: %w", err)
	}
	return parseTMDbMovieList(body)
}

// GetPopularMovies queries /movie/popular. It shares the list parser with
// SearchMovies.
func (c *TMDbClient) GetPopularMovies(ctx context.Context) ([]models.Movie, error) {
	body, err := c.get(ctx, "/movie/popular", c.params(), "movie/popular")
	if err != nil {
		return nil, fmt.Errorf("failed to get popular movies on TMDb: %w", err)
	}
	return parseTMDbMovieList(body)
}

func (c *TMDbClient) SearchSeries(ctx context.Context, query string) ([]models.Series, error) {
	params := c.params()
	params.Set("query", query)

	body, err := c.get(ctx, "/search/tv", params, "search/tv?q="+query)
	if err != nil {
		return nil, fmt.Errorf("failed to search series on TMDb: %w", err)
	}
	return parseTMDbSeriesList(body)
}

func (c *TMDbClient) GetMovieDetails(ctx context.Context, id models.MovieID) (models.Movie, error) {
	body, err := c.get(ctx, fmt.Sprintf("/movie/%d", id), c.params(), "")
	if err != nil {
		return models.Movie{}, fmt.Errorf("failed to get movie details on TMDb: %w", err)
	}

	var raw tmdbMovie
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.Movie{}, fmt.Errorf("failed to decode TMDb response: %w", err)
	}

	movie := tmdbMovieToModel(raw)
	for _, g := range raw.Genres {
		movie.Genres = append(movie.Genres, g.Name)
	}
	return movie, nil
}

func (c *TMDbClient) GetSeriesDetails(ctx context.Context, id models.SeriesID) (models.Series, error) {
	body, err := c.get(ctx, fmt.Sprintf("/tv/%d", id), c.params(), "")
	if err != nil {
		return models.Series{}, fmt.Errorf("failed to get series details on TMDb: %w", err)
	}

	var raw tmdbSeries
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.Series{}, fmt.Errorf("failed to decode TMDb response: %w", err)
	}

	series := tmdbSeriesToModel(raw)
	series.NumberOfSeasons = raw.NumberOfSeasons
	series.NumberOfEpisodes = raw.NumberOfEpisodes
	for _, g := range raw.Genres {
		series.Genres = append(series.Genres, g.Name)
	}
	return series, nil
}

// GetMovieCredits returns the top billed cast, capped at 10 entries in the
// provider's ranking order.
func (c *TMDbClient) GetMovieCredits(ctx context.Context, id models.MovieID) ([]models.CastMember, error) {
	return c.getCredits(ctx, fmt.Sprintf("/movie/%d/credits", id))
}

func (c *TMDbClient) GetSeriesCredits(ctx context.Context, id models.SeriesID) ([]models.CastMember, error) {
	return c.getCredits(ctx, fmt.Sprintf("/tv/%d/credits", id))
}

func (c *TMDbClient) getCredits(ctx context.Context, path string) ([]models.CastMember, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)

	body, err := c.get(ctx, path, params, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get credits on TMDb: %w", err)
	}

	var raw struct {
		Cast []struct {
			Name        string `json:"name"`
			ProfilePath string `json:"profile_path"`
		} `json:"cast"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode TMDb response: %w", err)
	}

	cast := make([]models.CastMember, 0, 10)
	for i := 0; i < len(raw.Cast) && i < 10; i++ {
		cast = append(cast, models.CastMember{
			Name:        raw.Cast[i].Name,
			ProfilePath: raw.Cast[i].ProfilePath,
		})
	}
	return cast, nil
}

// GetMovieTrailer picks the first video whose site and type match the fixed
// trailer platform and builds the watch URL from its key. No match yields an
// empty string, not an error.
func (c *TMDbClient) GetMovieTrailer(ctx context.Context, id models.MovieID) (string, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)

	body, err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", id), params, "")
	if err != nil {
		return "", fmt.Errorf("failed to get trailers on TMDb: %w", err)
	}

	var raw struct {
		Results []struct {
			Key  string `json:"key"`
			Site string `json:"site"`
			Type string `json:"type"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("failed to decode TMDb response: %w", err)
	}

	for _, video := range raw.Results {
		if video.Site == trailerSite && video.Type == trailerType {
			return "https://www.youtube.com/watch?v=" + video.Key, nil
		}
	}
	return "", nil
}

// Async surface.

func (c *TMDbClient) SearchMoviesAsync(query string) RequestToken {
	token := NewRequestToken()
	go func() {
		movies, err := c.SearchMovies(context.Background(), query)
		if err != nil {
			c.errs <- ClientError{Token: token, Message: err.Error()}
			return
		}
		c.movies <- MovieListResult{Token: token, Movies: movies}
	}()
	return token
}

func (c *TMDbClient) GetPopularMoviesAsync() RequestToken {
	token := NewRequestToken()
	go func() {
		movies, err := c.GetPopularMovies(context.Background())
		if err != nil {
			c.errs <- ClientError{Token: token, Message: err.Error()}
			return
		}
		c.popularMovies <- MovieListResult{Token: token, Movies: movies}
	}()
	return token
}

func (c *TMDbClient) SearchSeriesAsync(query string) RequestToken {
	token := NewRequestToken()
	go func() {
		series, err := c.SearchSeries(context.Background(), query)
		if err != nil {
			c.errs <- ClientError{Token: token, Message: err.Error()}
			return
		}
		c.series <- SeriesListResult{Token: token, Series: series}
	}()
	return token
}

func (c *TMDbClient) GetMovieDetailsAsync(id models.MovieID) RequestToken {
	token := NewRequestToken()
	go func() {
		movie, err := c.GetMovieDetails(context.Background(), id)
		if err != nil {
			c.errs <- ClientError{Token: token, Message: err.Error()}
			return
		}
		c.movieDetails <- MovieDetailResult{Token: token, Movie: movie}
	}()
	return token
}

func (c *TMDbClient) GetSeriesDetailsAsync(id models.SeriesID) RequestToken {
	token := NewRequestToken()
	go func() {
		series, err := c.GetSeriesDetails(context.Background(), id)
		if err != nil {
			c.errs <- ClientError{Token: token, Message: err.Error()}
			return
		}
		c.seriesDetails <- SeriesDetailResult{Token: token, Series: series}
	}()
	return token
}

func (c *TMDbClient) GetMovieCreditsAsync(id models.MovieID) RequestToken {
	token := NewRequestToken()
	go func() {
		cast, err := c.GetMovieCredits(context.Background(), id)
		if err != nil {
			c.errs <- ClientError{Token: token, Message: err.Error()}
			return
		}
		c.credits <- CreditsResult{Token: token, Cast: cast}
	}()
	return token
}

func (c *TMDbClient) GetSeriesCreditsAsync(id models.SeriesID) RequestToken {
	token := NewRequestToken()
	go func() {
		cast, err := c.GetSeriesCredits(context.Background(), id)
		if err != nil {
			c.errs <- ClientError{Token: token, Message: err.Error()}
			return
		}
		c.credits <- CreditsResult{Token: token, Cast: cast}
	}()
	return token
}

func (c *TMDbClient) GetMovieTrailerAsync(id models.MovieID) RequestToken {
	token := NewRequestToken()
	go func() {
		trailerURL, err := c.GetMovieTrailer(context.Background(), id)
		if err != nil {
			c.errs <- ClientError{Token: token, Message: err.Error()}
			return
		}
		c.trailers <- TrailerResult{Token: token, URL: trailerURL}
	}()
	return token
}

// Parsers.

func parseTMDbMovieList(body []byte) ([]models.Movie, error) {
	var raw struct {
		Results []tmdbMovie `json:"results"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode TMDb response: %w", err)
	}

	movies := make([]models.Movie, 0, len(raw.Results))
	for _, m := range raw.Results {
		movies = append(movies, tmdbMovieToModel(m))
	}
	return movies, nil
}

func parseTMDbSeriesList(body []byte) ([]models.Series, error) {
	var raw struct {
		Results []tmdbSeries `json:"results"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode TMDb response: %w", err)
	}

	series := make([]models.Series, 0, len(raw.Results))
	for _, s := range raw.Results {
		series = append(series, tmdbSeriesToModel(s))
	}
	return series, nil
}

func tmdbMovieToModel(m tmdbMovie) models.Movie {
	return models.Movie{
		ID:           models.MovieID(m.ID),
		Title:        m.Title,
		Overview:     m.Overview,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		ReleaseDate:  models.ParseISODate(m.ReleaseDate),
		Rating:       m.VoteAverage,
	}
}

func tmdbSeriesToModel(s tmdbSeries) models.Series {
	return models.Series{
		ID:           models.SeriesID(s.ID),
		Name:         s.Name,
		Overview:     s.Overview,
		PosterPath:   s.PosterPath,
		BackdropPath: s.BackdropPath,
		FirstAirDate: models.ParseISODate(s.FirstAirDate),
		Rating:       s.VoteAverage,
	}
}
