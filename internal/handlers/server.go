package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/MathieuSim0/EpiKodi/internal/config"
	"github.com/MathieuSim0/EpiKodi/internal/core"
	"github.com/MathieuSim0/EpiKodi/internal/utils"
)

type Server struct {
	config     *config.Config
	manager    *core.Manager
	logger     *utils.Logger
	httpServer *http.Server
	apiHandler *APIHandler
}

func NewServer(cfg *config.Config, manager *core.Manager, logger *utils.Logger) *Server {
	return &Server{
		config:     cfg,
		manager:    manager,
		logger:     logger,
		apiHandler: NewAPIHandler(manager, logger),
	}
}

func (s *Server) Start() error {
	router := mux.NewRouter()

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Search
	api.HandleFunc("/search/movies", s.apiHandler.SearchMovies).Methods("GET")
	api.HandleFunc("/search/series", s.apiHandler.SearchSeries).Methods("GET")
	api.HandleFunc("/search/all", s.apiHandler.SearchAll).Methods("GET")
	api.HandleFunc("/search/artists", s.apiHandler.SearchArtists).Methods("GET")
	api.HandleFunc("/search/albums", s.apiHandler.SearchAlbums).Methods("GET")

	// Catalog details
	api.HandleFunc("/movies/popular", s.apiHandler.PopularMovies).Methods("GET")
	api.HandleFunc("/movies/{id}", s.apiHandler.MovieDetails).Methods("GET")
	api.HandleFunc("/movies/{id}/credits", s.apiHandler.MovieCredits).Methods("GET")
	api.HandleFunc("/movies/{id}/trailer", s.apiHandler.MovieTrailer).Methods("GET")
	api.HandleFunc("/series/{id}", s.apiHandler.SeriesDetails).Methods("GET")
	api.HandleFunc("/series/{id}/credits", s.apiHandler.SeriesCredits).Methods("GET")
	api.HandleFunc("/imdb/{id}", s.apiHandler.DetailsByIMDbID).Methods("GET")

	// Music
	api.HandleFunc("/artists/{id}/albums", s.apiHandler.ArtistAlbums).Methods("GET")
	api.HandleFunc("/albums/{id}/cover", s.apiHandler.AlbumCover).Methods("GET")

	// Favorites
	api.HandleFunc("/favorites", s.apiHandler.GetFavorites).Methods("GET")
	api.HandleFunc("/favorites/movies", s.apiHandler.AddFavoriteMovie).Methods("POST")
	api.HandleFunc("/favorites/movies/{id}", s.apiHandler.RemoveFavoriteMovie).Methods("DELETE")
	api.HandleFunc("/favorites/series", s.apiHandler.AddFavoriteSeries).Methods("POST")
	api.HandleFunc("/favorites/series/{id}", s.apiHandler.RemoveFavoriteSeries).Methods("DELETE")
	api.HandleFunc("/favorites/albums", s.apiHandler.AddFavoriteAlbum).Methods("POST")
	api.HandleFunc("/favorites/albums/{id}", s.apiHandler.RemoveFavoriteAlbum).Methods("DELETE")

	// System
	api.HandleFunc("/status", s.apiHandler.GetSystemStatus).Methods("GET")
	api.HandleFunc("/events", s.apiHandler.Events).Methods("GET")

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info("Starting server on port", s.config.Server.Port)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
