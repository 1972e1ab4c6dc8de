package core

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/disk"
	"github.com/shirou/gopsutil/mem"

	"github.com/MathieuSim0/EpiKodi/internal/clients/metadata"
	"github.com/MathieuSim0/EpiKodi/internal/clients/notifications"
	"github.com/MathieuSim0/EpiKodi/internal/config"
	"github.com/MathieuSim0/EpiKodi/internal/database"
	"github.com/MathieuSim0/EpiKodi/internal/favorites"
	"github.com/MathieuSim0/EpiKodi/internal/models"
	"github.com/MathieuSim0/EpiKodi/internal/player"
	"github.com/MathieuSim0/EpiKodi/internal/utils"
)

// Manager owns the three provider clients, the favorites store, the response
// cache and the background jobs, and exposes the facade the HTTP layer calls.
type Manager struct {
	config *config.Config
	logger *utils.Logger

	tmdb  *metadata.TMDbClient
	omdb  *metadata.OMDbClient
	music *metadata.MusicBrainzClient

	store    *favorites.Store
	cache    *database.SearchCache
	notifier notifications.Notifier
	player   player.Player

	scheduler *cron.Cron
	done      chan struct{}
	stopOnce  sync.Once

	mu          sync.Mutex
	subscribers []chan struct{}
}

func NewManager(cfg *config.Config, db *sql.DB, store *favorites.Store, logger *utils.Logger) *Manager {
	m := &Manager{
		config:    cfg,
		logger:    logger,
		store:     store,
		player:    player.NewNoop(),
		scheduler: cron.New(),
		done:      make(chan struct{}),
	}

	var cache metadata.Cache
	if db != nil {
		m.cache = database.NewSearchCache(db, cfg.CacheTTL())
		cache = m.cache
	}

	m.tmdb = metadata.NewTMDbClient(cfg.TMDb.APIKey, cfg.App.Language, cache)
	m.omdb = metadata.NewOMDbClient(cfg.OMDb.APIKey, cache)
	m.music = metadata.NewMusicBrainzClient(cfg.MusicBrainz.UserAgent, cache)

	switch cfg.Notifications.Type {
	case "pushbullet":
		m.notifier = notifications.NewPushbulletClient(cfg.Notifications.APIKey, logger)
	}

	store.OnChange(m.broadcastChange)

	go m.drainClientChannels()

	return m
}

// SetPlayer swaps in a real playback engine. The default is a no-op stub.
func (m *Manager) SetPlayer(p player.Player) {
	m.player = p
}

func (m *Manager) Player() player.Player {
	return m.player
}

// drainClientChannels consumes the clients' background completions: errors go
// to the log, warm popular-movie refreshes are counted. Search results
// requested through the synchronous facade never pass through here. Runs
// until Stop.
func (m *Manager) drainClientChannels() {
	for {
		select {
		case <-m.done:
			return
		case e := <-m.tmdb.Errors():
			m.logger.Error("TMDb request failed:", e.Message)
		case e := <-m.omdb.Errors():
			m.logger.Error("OMDb request failed:", e.Message)
		case e := <-m.music.Errors():
			m.logger.Error("MusicBrainz request failed:", e.Message)
		case r := <-m.tmdb.PopularMovies():
			m.logger.Debug("Popular movies refreshed:", len(r.Movies), "entries")
		case e := <-m.store.Errors():
			m.logger.Error("Favorites store:", e)
		}
	}
}

// StartScheduler launches the recurring background jobs: pruning expired
// cache rows and keeping the popular-movies listing warm.
func (m *Manager) StartScheduler() {
	if m.cache != nil {
		m.scheduler.AddFunc("@every 24h", func() {
			if err := m.cache.Prune(); err != nil {
				m.logger.Error("Failed to prune search cache:", err)
			}
		})
	}
	m.scheduler.AddFunc("@every 6h", m.refreshPopularMovies)
	m.scheduler.Start()

	go m.refreshPopularMovies()
}

func (m *Manager) refreshPopularMovies() {
	token := m.tmdb.GetPopularMoviesAsync()
	m.logger.Debug("Refreshing popular movies, token", string(token))
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
}

// Catalog (TMDb) facade.

func (m *Manager) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	return m.tmdb.SearchMovies(ctx, query)
}

func (m *Manager) SearchSeries(ctx context.Context, query string) ([]models.Series, error) {
	return m.tmdb.SearchSeries(ctx, query)
}

func (m *Manager) PopularMovies(ctx context.Context) ([]models.Movie, error) {
	return m.tmdb.GetPopularMovies(ctx)
}

func (m *Manager) MovieDetails(ctx context.Context, id models.MovieID) (models.Movie, error) {
	return m.tmdb.GetMovieDetails(ctx, id)
}

func (m *Manager) SeriesDetails(ctx context.Context, id models.SeriesID) (models.Series, error) {
	return m.tmdb.GetSeriesDetails(ctx, id)
}

func (m *Manager) MovieCredits(ctx context.Context, id models.MovieID) ([]models.CastMember, error) {
	return m.tmdb.GetMovieCredits(ctx, id)
}

func (m *Manager) SeriesCredits(ctx context.Context, id models.SeriesID) ([]models.CastMember, error) {
	return m.tmdb.GetSeriesCredits(ctx, id)
}

func (m *Manager) MovieTrailer(ctx context.Context, id models.MovieID) (string, error) {
	return m.tmdb.GetMovieTrailer(ctx, id)
}

// Aggregator (OMDb) facade.

func (m *Manager) SearchAll(ctx context.Context, query string) ([]models.Movie, []models.Series, error) {
	return m.omdb.Search(ctx, query)
}

func (m *Manager) DetailsByIMDbID(ctx context.Context, id models.IMDbID) (*models.Movie, *models.Series, error) {
	return m.omdb.GetDetails(ctx, id)
}

// Music (MusicBrainz) facade.

func (m *Manager) SearchArtists(ctx context.Context, query string) ([]models.Artist, error) {
	return m.music.SearchArtists(ctx, query)
}

func (m *Manager) SearchAlbums(ctx context.Context, query string) ([]models.Album, error) {
	return m.music.SearchAlbums(ctx, query)
}

func (m *Manager) ArtistAlbums(ctx context.Context, id models.ArtistID) ([]models.Album, error) {
	return m.music.GetArtistAlbums(ctx, id)
}

func (m *Manager) CoverArt(ctx context.Context, id models.AlbumID) (string, error) {
	return m.music.GetCoverArt(ctx, id)
}

// Favorites facade.

func (m *Manager) FavoriteMovies() []models.Movie  { return m.store.Movies() }
func (m *Manager) FavoriteSeries() []models.Series { return m.store.Series() }
func (m *Manager) FavoriteAlbums() []models.Album  { return m.store.Albums() }

func (m *Manager) AddFavoriteMovie(movie models.Movie) bool {
	added := m.store.AddMovie(movie)
	if added && m.notifier != nil {
		m.notifier.FavoriteAdded("movie", movie.Title)
	}
	return added
}

func (m *Manager) RemoveFavoriteMovie(id models.MovieID) bool {
	removed := m.store.RemoveMovie(id)
	if removed && m.notifier != nil {
		m.notifier.FavoriteRemoved("movie", fmt.Sprintf("movie %d", id))
	}
	return removed
}

func (m *Manager) AddFavoriteSeries(series models.Series) bool {
	added := m.store.AddSeries(series)
	if added && m.notifier != nil {
		m.notifier.FavoriteAdded("series", series.Name)
	}
	return added
}

func (m *Manager) RemoveFavoriteSeries(id models.SeriesID) bool {
	removed := m.store.RemoveSeries(id)
	if removed && m.notifier != nil {
		m.notifier.FavoriteRemoved("series", fmt.Sprintf("series %d", id))
	}
	return removed
}

func (m *Manager) AddFavoriteAlbum(album models.Album) bool {
	added := m.store.AddAlbum(album)
	if added && m.notifier != nil {
		m.notifier.FavoriteAdded("album", album.Title)
	}
	return added
}

func (m *Manager) RemoveFavoriteAlbum(id models.AlbumID) bool {
	removed := m.store.RemoveAlbum(id)
	if removed && m.notifier != nil {
		m.notifier.FavoriteRemoved("album", string(id))
	}
	return removed
}

// Change-notification fanout.

// SubscribeChanges registers an observer of favorites mutations. The returned
// cancel function must be called when the observer goes away.
func (m *Manager) SubscribeChanges() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.subscribers {
			if sub == ch {
				m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
				return
			}
		}
	}
	return ch, cancel
}

func (m *Manager) broadcastChange() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subscribers {
		select {
		case sub <- struct{}{}:
		default:
		}
	}
}

// SystemStatus reports resource usage of the host and which providers are
// configured, for the UI's status panel.
func (m *Manager) SystemStatus() map[string]interface{} {
	status := map[string]interface{}{
		"tmdb":        m.config.TMDb.APIKey != "",
		"omdb":        m.config.OMDb.APIKey != "",
		"musicbrainz": m.config.MusicBrainz.UserAgent != "",
		"cache":       m.cache != nil,
	}

	if usage, err := disk.Usage(m.config.App.DataPath); err == nil {
		status["disk_free_bytes"] = usage.Free
		status["disk_used_percent"] = usage.UsedPercent
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status["memory_used_percent"] = vm.UsedPercent
	}
	return status
}

// TestNotifier sends a test push through the configured notifier.
func (m *Manager) TestNotifier() error {
	if m.notifier == nil {
		return fmt.Errorf("no notifier configured")
	}
	return m.notifier.Test()
}
