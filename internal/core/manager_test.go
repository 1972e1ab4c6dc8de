package core

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/MathieuSim0/EpiKodi/internal/config"
	"github.com/MathieuSim0/EpiKodi/internal/favorites"
	"github.com/MathieuSim0/EpiKodi/internal/models"
	"github.com/MathieuSim0/EpiKodi/internal/utils"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	cfg, err := config.Load("does-not-exist.yml")
	if err != nil {
		t.Fatal(err)
	}
	cfg.App.DataPath = t.TempDir()

	store := favorites.NewStore(filepath.Join(t.TempDir(), "favorites.json"))
	return NewManager(cfg, nil, store, utils.NewLogger(false, io.Discard))
}

func TestSubscribeChanges(t *testing.T) {
	m := newTestManager(t)

	changes, cancel := m.SubscribeChanges()
	defer cancel()

	if !m.AddFavoriteMovie(models.Movie{ID: 603, Title: "The Matrix"}) {
		t.Fatal("expected add to succeed")
	}

	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification after adding a favorite")
	}

	// Duplicate adds do not mutate and must not notify.
	if m.AddFavoriteMovie(models.Movie{ID: 603}) {
		t.Fatal("duplicate add should report false")
	}
	select {
	case <-changes:
		t.Fatal("unexpected notification for a no-op add")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeChangesCancel(t *testing.T) {
	m := newTestManager(t)

	_, cancel := m.SubscribeChanges()
	cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.subscribers) != 0 {
		t.Errorf("expected no subscribers after cancel, got %d", len(m.subscribers))
	}
}

func TestFavoritesFacade(t *testing.T) {
	m := newTestManager(t)

	m.AddFavoriteMovie(models.Movie{ID: 1, Title: "m"})
	m.AddFavoriteSeries(models.Series{ID: 2, Name: "s"})
	m.AddFavoriteAlbum(models.Album{ID: "r1", Title: "a"})

	if len(m.FavoriteMovies()) != 1 || len(m.FavoriteSeries()) != 1 || len(m.FavoriteAlbums()) != 1 {
		t.Fatal("expected one favorite of each kind")
	}

	if !m.RemoveFavoriteSeries(2) {
		t.Fatal("expected series removal to succeed")
	}
	if len(m.FavoriteSeries()) != 0 {
		t.Error("series still present after removal")
	}
}

func TestStopReleasesBackgroundDrain(t *testing.T) {
	m := newTestManager(t)

	m.Stop()
	select {
	case <-m.done:
	case <-time.After(time.Second):
		t.Fatal("expected Stop to signal the drain goroutine")
	}

	// Stop is idempotent.
	m.Stop()
}

func TestSystemStatus(t *testing.T) {
	m := newTestManager(t)

	status := m.SystemStatus()
	if status["tmdb"] != false {
		t.Errorf("expected tmdb unconfigured, got %v", status["tmdb"])
	}
	if status["cache"] != false {
		t.Errorf("expected cache disabled without a database, got %v", status["cache"])
	}
}
