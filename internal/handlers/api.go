package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/MathieuSim0/EpiKodi/internal/clients/metadata"
	"github.com/MathieuSim0/EpiKodi/internal/core"
	"github.com/MathieuSim0/EpiKodi/internal/models"
	"github.com/MathieuSim0/EpiKodi/internal/utils"
)

// Each endpoint group depends on the capability slice it actually calls, not
// on the whole manager. The manager satisfies all five.

type catalogService interface {
	SearchMovies(ctx context.Context, query string) ([]models.Movie, error)
	SearchSeries(ctx context.Context, query string) ([]models.Series, error)
	PopularMovies(ctx context.Context) ([]models.Movie, error)
	MovieDetails(ctx context.Context, id models.MovieID) (models.Movie, error)
	SeriesDetails(ctx context.Context, id models.SeriesID) (models.Series, error)
	MovieCredits(ctx context.Context, id models.MovieID) ([]models.CastMember, error)
	SeriesCredits(ctx context.Context, id models.SeriesID) ([]models.CastMember, error)
	MovieTrailer(ctx context.Context, id models.MovieID) (string, error)
}

type aggregatorService interface {
	SearchAll(ctx context.Context, query string) ([]models.Movie, []models.Series, error)
	DetailsByIMDbID(ctx context.Context, id models.IMDbID) (*models.Movie, *models.Series, error)
}

type musicService interface {
	SearchArtists(ctx context.Context, query string) ([]models.Artist, error)
	SearchAlbums(ctx context.Context, query string) ([]models.Album, error)
	ArtistAlbums(ctx context.Context, id models.ArtistID) ([]models.Album, error)
	CoverArt(ctx context.Context, id models.AlbumID) (string, error)
}

type favoritesService interface {
	FavoriteMovies() []models.Movie
	FavoriteSeries() []models.Series
	FavoriteAlbums() []models.Album
	AddFavoriteMovie(movie models.Movie) bool
	RemoveFavoriteMovie(id models.MovieID) bool
	AddFavoriteSeries(series models.Series) bool
	RemoveFavoriteSeries(id models.SeriesID) bool
	AddFavoriteAlbum(album models.Album) bool
	RemoveFavoriteAlbum(id models.AlbumID) bool
}

type systemService interface {
	SystemStatus() map[string]interface{}
	SubscribeChanges() (<-chan struct{}, func())
}

type APIHandler struct {
	catalog    catalogService
	aggregator aggregatorService
	music      musicService
	favorites  favoritesService
	system     systemService
	logger     *utils.Logger
}

func NewAPIHandler(manager *core.Manager, logger *utils.Logger) *APIHandler {
	return &APIHandler{
		catalog:    manager,
		aggregator: manager,
		music:      manager,
		favorites:  manager,
		system:     manager,
		logger:     logger,
	}
}

// A helper function to respond with JSON
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper function to respond with a JSON error
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}

func queryParam(r *http.Request, name string) string {
	return r.URL.Query().Get(name)
}

func pathInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}

// Search endpoints

func (h *APIHandler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	query := queryParam(r, "q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter 'q'")
		return
	}

	movies, err := h.catalog.SearchMovies(r.Context(), query)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, movies)
}

func (h *APIHandler) SearchSeries(w http.ResponseWriter, r *http.Request) {
	query := queryParam(r, "q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter 'q'")
		return
	}

	series, err := h.catalog.SearchSeries(r.Context(), query)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, series)
}

func (h *APIHandler) SearchAll(w http.ResponseWriter, r *http.Request) {
	query := queryParam(r, "q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter 'q'")
		return
	}

	movies, series, err := h.aggregator.SearchAll(r.Context(), query)
	if err != nil {
		if errors.Is(err, metadata.ErrNoResults) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"movies": movies,
		"series": series,
	})
}

func (h *APIHandler) SearchArtists(w http.ResponseWriter, r *http.Request) {
	query := queryParam(r, "q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter 'q'")
		return
	}

	artists, err := h.music.SearchArtists(r.Context(), query)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, artists)
}

func (h *APIHandler) SearchAlbums(w http.ResponseWriter, r *http.Request) {
	query := queryParam(r, "q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter 'q'")
		return
	}

	albums, err := h.music.SearchAlbums(r.Context(), query)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, albums)
}

// Catalog endpoints

func (h *APIHandler) PopularMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.PopularMovies(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, movies)
}

func (h *APIHandler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid movie id")
		return
	}

	movie, err := h.catalog.MovieDetails(r.Context(), models.MovieID(id))
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, movie)
}

func (h *APIHandler) MovieCredits(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid movie id")
		return
	}

	cast, err := h.catalog.MovieCredits(r.Context(), models.MovieID(id))
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, cast)
}

func (h *APIHandler) MovieTrailer(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid movie id")
		return
	}

	url, err := h.catalog.MovieTrailer(r.Context(), models.MovieID(id))
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"trailer_url": url})
}

func (h *APIHandler) SeriesDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid series id")
		return
	}

	series, err := h.catalog.SeriesDetails(r.Context(), models.SeriesID(id))
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, series)
}

func (h *APIHandler) SeriesCredits(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid series id")
		return
	}

	cast, err := h.catalog.SeriesCredits(r.Context(), models.SeriesID(id))
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, cast)
}

func (h *APIHandler) DetailsByIMDbID(w http.ResponseWriter, r *http.Request) {
	id := models.IMDbID(mux.Vars(r)["id"])

	movie, series, err := h.aggregator.DetailsByIMDbID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	if movie != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"type": "movie", "movie": movie})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"type": "series", "series": series})
}

// Music endpoints

func (h *APIHandler) ArtistAlbums(w http.ResponseWriter, r *http.Request) {
	id := models.ArtistID(mux.Vars(r)["id"])

	albums, err := h.music.ArtistAlbums(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, albums)
}

func (h *APIHandler) AlbumCover(w http.ResponseWriter, r *http.Request) {
	id := models.AlbumID(mux.Vars(r)["id"])

	url, err := h.music.CoverArt(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"cover_art_url": url})
}

// Favorites endpoints

func (h *APIHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"movies": h.favorites.FavoriteMovies(),
		"series": h.favorites.FavoriteSeries(),
		"albums": h.favorites.FavoriteAlbums(),
	})
}

func (h *APIHandler) AddFavoriteMovie(w http.ResponseWriter, r *http.Request) {
	var movie models.Movie
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if h.favorites.AddFavoriteMovie(movie) {
		respondJSON(w, http.StatusCreated, movie)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "already present"})
}

func (h *APIHandler) RemoveFavoriteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid movie id")
		return
	}

	if !h.favorites.RemoveFavoriteMovie(models.MovieID(id)) {
		respondError(w, http.StatusNotFound, "Movie not in favorites")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *APIHandler) AddFavoriteSeries(w http.ResponseWriter, r *http.Request) {
	var series models.Series
	if err := json.NewDecoder(r.Body).Decode(&series); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if h.favorites.AddFavoriteSeries(series) {
		respondJSON(w, http.StatusCreated, series)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "already present"})
}

func (h *APIHandler) RemoveFavoriteSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid series id")
		return
	}

	if !h.favorites.RemoveFavoriteSeries(models.SeriesID(id)) {
		respondError(w, http.StatusNotFound, "Series not in favorites")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *APIHandler) AddFavoriteAlbum(w http.ResponseWriter, r *http.Request) {
	var album models.Album
	if err := json.NewDecoder(r.Body).Decode(&album); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if h.favorites.AddFavoriteAlbum(album) {
		respondJSON(w, http.StatusCreated, album)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "already present"})
}

func (h *APIHandler) RemoveFavoriteAlbum(w http.ResponseWriter, r *http.Request) {
	id := models.AlbumID(mux.Vars(r)["id"])

	if !h.favorites.RemoveFavoriteAlbum(id) {
		respondError(w, http.StatusNotFound, "Album not in favorites")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// System endpoints

func (h *APIHandler) GetSystemStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.system.SystemStatus())
}
