package config

import (
	"os"
	"time"

	"github.com/moviemates/moviemates/internal/util"
)

type Config struct {
	Addr        string
	DatabaseDSN string
	CacheURL    string
	TMDbAPIKey  string
	TMDbBaseURL string
	SessionTTL  time.Duration
}

func LoadConfig() (*Config, error) {
	if err := util.LoadEnv(); err != nil {
		return nil, err
	}
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	databaseDSN := os.Getenv("DATABASE_DSN")
	cacheURL := os.Getenv("CACHE_URL")
	tmdbAPIKey := os.Getenv("TMDB_API_KEY")
	tmdbBaseURL := os.Getenv("TMDB_BASE_URL")

	sessionTTL := 24 * time.Hour
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, err
		}
		sessionTTL = d
	}

	return &Config{
		Addr:        addr,
		DatabaseDSN: databaseDSN,
		CacheURL:    cacheURL,
		TMDbAPIKey:  tmdbAPIKey,
		TMDbBaseURL: tmdbBaseURL,
		SessionTTL:  sessionTTL,
	}, nil
}
