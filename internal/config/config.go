package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		DataPath string `yaml:"data_path"`
		Language string `yaml:"language"`
		Debug    bool   `yaml:"debug"`
	} `yaml:"app"`

	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	TMDb struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"tmdb"`

	OMDb struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"omdb"`

	MusicBrainz struct {
		// MusicBrainz rejects requests without an identifying user agent.
		UserAgent string `yaml:"user_agent"`
	} `yaml:"musicbrainz"`

	Favorites struct {
		Path string `yaml:"path"`
		// Watch reloads the favorites file when it changes on disk.
		Watch bool `yaml:"watch"`
	} `yaml:"favorites"`

	Cache struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
		TTL     string `yaml:"ttl"`
	} `yaml:"cache"`

	Notifications struct {
		Type   string `yaml:"type"` // '' (disabled) or 'pushbullet'
		APIKey string `yaml:"api_key"`
	} `yaml:"notifications"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	loadFromEnv(cfg)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.App.DataPath = "./data"
	cfg.App.Language = "fr-FR"
	cfg.App.Debug = false

	cfg.Server.Port = 8082

	cfg.MusicBrainz.UserAgent = "EpiKodi/1.0 ( https://github.com/MathieuSim0/EpiKodi )"

	cfg.Favorites.Path = "./data/favorites.json"

	cfg.Cache.Enabled = true
	cfg.Cache.Path = "./data/epikodi.db"
	cfg.Cache.TTL = "24h"
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		cfg.TMDb.APIKey = v
	}
	if v := os.Getenv("OMDB_API_KEY"); v != "" {
		cfg.OMDb.APIKey = v
	}
	if v := os.Getenv("MUSICBRAINZ_USER_AGENT"); v != "" {
		cfg.MusicBrainz.UserAgent = v
	}
	if v := os.Getenv("PUSHBULLET_API_KEY"); v != "" {
		cfg.Notifications.Type = "pushbullet"
		cfg.Notifications.APIKey = v
	}
}

// CacheTTL parses the configured cache TTL, defaulting to 24h on bad input.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}
