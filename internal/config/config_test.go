package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg, err := Load("does-not-exist.yml")
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if cfg.Server.Port != 8082 {
			t.Errorf("expected default port 8082, got %d", cfg.Server.Port)
		}
		if cfg.App.Language != "fr-FR" {
			t.Errorf("expected default language fr-FR, got %s", cfg.App.Language)
		}
		if cfg.Favorites.Path != "./data/favorites.json" {
			t.Errorf("unexpected favorites path %s", cfg.Favorites.Path)
		}
		if !cfg.Cache.Enabled {
			t.Error("expected cache enabled by default")
		}
		if cfg.MusicBrainz.UserAgent == "" {
			t.Error("expected a default user agent")
		}
	})

	t.Run("loads from file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yml")
		content := []byte(`
app:
  language: en-US
  debug: true
server:
  port: 9090
tmdb:
  api_key: file-tmdb-key
favorites:
  path: /tmp/favs.json
  watch: true
cache:
  ttl: 1h
`)
		if err := os.WriteFile(configPath, content, 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if cfg.Server.Port != 9090 {
			t.Errorf("expected port 9090, got %d", cfg.Server.Port)
		}
		if cfg.App.Language != "en-US" {
			t.Errorf("expected language en-US, got %s", cfg.App.Language)
		}
		if !cfg.App.Debug {
			t.Error("expected debug enabled")
		}
		if cfg.TMDb.APIKey != "file-tmdb-key" {
			t.Errorf("unexpected tmdb key %s", cfg.TMDb.APIKey)
		}
		if !cfg.Favorites.Watch {
			t.Error("expected favorites watch enabled")
		}
		if cfg.CacheTTL() != time.Hour {
			t.Errorf("expected 1h cache ttl, got %s", cfg.CacheTTL())
		}
		// Unset keys keep their defaults.
		if cfg.App.DataPath != "./data" {
			t.Errorf("expected default data path, got %s", cfg.App.DataPath)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TMDB_API_KEY", "env-tmdb-key")
		t.Setenv("OMDB_API_KEY", "env-omdb-key")
		t.Setenv("PUSHBULLET_API_KEY", "env-pb-key")

		cfg, err := Load("does-not-exist.yml")
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if cfg.TMDb.APIKey != "env-tmdb-key" {
			t.Errorf("expected env tmdb key, got %s", cfg.TMDb.APIKey)
		}
		if cfg.OMDb.APIKey != "env-omdb-key" {
			t.Errorf("expected env omdb key, got %s", cfg.OMDb.APIKey)
		}
		if cfg.Notifications.Type != "pushbullet" || cfg.Notifications.APIKey != "env-pb-key" {
			t.Errorf("expected pushbullet notifier from env, got %+v", cfg.Notifications)
		}
	})
}

func TestCacheTTLFallback(t *testing.T) {
	cfg := &Config{}
	cfg.Cache.TTL = "not a duration"
	if got := cfg.CacheTTL(); got != 24*time.Hour {
		t.Errorf("expected 24h fallback, got %s", got)
	}

	cfg.Cache.TTL = "-5m"
	if got := cfg.CacheTTL(); got != 24*time.Hour {
		t.Errorf("expected 24h fallback for negative ttl, got %s", got)
	}
}
