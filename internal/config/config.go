// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

type Config struct {
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	JWTSecret string `env:"JWT_SECRET"`

	Postgres Postgres

	FirstPlacePoints    int  `env:"SCORING_FIRST_PLACE_POINTS" envDefault:"100"`
	DecrementPerPlace   int  `env:"SCORING_DECREMENT" envDefault:"1"`
	MinimumPoints       int  `env:"SCORING_MIN_POINTS" envDefault:"50"`
	ParticipationPoints int  `env:"SCORING_PARTICIPATION_POINTS" envDefault:"0"`
	BigBassBonus        int  `env:"SCORING_BIG_BASS_BONUS" envDefault:"0"`
	RankDisqualified    bool `env:"SCORING_RANK_DISQUALIFIED" envDefault:"false"`

	MinEventsToQualify   int `env:"SEASON_MIN_EVENTS" envDefault:"0"`
	DropLowest           int `env:"SEASON_DROP_LOWEST" envDefault:"0"`
	MissedEventDeduction int `env:"SEASON_MISSED_EVENT_DEDUCTION" envDefault:"0"`

	RecomputeMaxRetries int `env:"RECOMPUTE_MAX_RETRIES" envDefault:"5"`
}

type Postgres struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	DB       string `env:"POSTGRES_DB"`
}

func (p Postgres) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

// Load reads .env when present and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Scoring().Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Season().Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Scoring() domain.ScoringConfig {
	return domain.ScoringConfig{
		FirstPlacePoints:    c.FirstPlacePoints,
		DecrementPerPlace:   c.DecrementPerPlace,
		MinimumPoints:       c.MinimumPoints,
		ParticipationPoints: c.ParticipationPoints,
		BigBassBonus:        c.BigBassBonus,
		RankDisqualified:    c.RankDisqualified,
	}
}

func (c *Config) Season() domain.SeasonConfig {
	return domain.SeasonConfig{
		MinEventsToQualify:   c.MinEventsToQualify,
		DropLowest:           c.DropLowest,
		MissedEventDeduction: c.MissedEventDeduction,
	}
}
