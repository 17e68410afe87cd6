package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/bassclub/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/bassclub/internal/config"
	"github.com/vncsmyrnk/bassclub/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.Postgres.Host, "db-host", cfg.Postgres.Host, "Database host")
	flag.StringVar(&cfg.Postgres.Port, "db-port", cfg.Postgres.Port, "Database port")
	flag.StringVar(&cfg.Postgres.User, "db-user", cfg.Postgres.User, "Database user")
	flag.StringVar(&cfg.Postgres.Password, "db-pass", cfg.Postgres.Password, "Database password")
	flag.StringVar(&cfg.Postgres.DB, "db-name", cfg.Postgres.DB, "Database name")
	flag.IntVar(&cfg.DropLowest, "drop-lowest", cfg.DropLowest, "Lowest events dropped per angler")
	flag.IntVar(&cfg.MinEventsToQualify, "min-events", cfg.MinEventsToQualify, "Events required to qualify for AoY")
	timeout := flag.Duration("timeout", 5*time.Minute, "Job timeout")
	flag.Parse()

	if err := cfg.Season().Validate(); err != nil {
		slog.Error("invalid season config", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Postgres.ConnString())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		slog.Error("failed to reach database", "error", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	seasonRepo := postgres.NewSeasonRepository(db)
	resultRepo := postgres.NewEventResultRepository(db)

	resultService := services.NewResultService(eventRepo, postgres.NewCatchRepository(db), resultRepo, cfg.Scoring(), cfg.RecomputeMaxRetries)
	standingsService := services.NewStandingsService(seasonRepo, resultRepo, postgres.NewStandingsRepository(db), cfg.Season(), cfg.RecomputeMaxRetries)
	rebuildService := services.NewRebuildService(eventRepo, seasonRepo, resultService, standingsService)

	// Bound the job so a stuck database does not hang the scheduler.
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	slog.Info("starting standings rebuild")
	start := time.Now()

	if err := rebuildService.RebuildAll(ctx); err != nil {
		slog.Error("standings rebuild failed", "error", err)
		os.Exit(1)
	}

	slog.Info("standings rebuild completed", "elapsed", time.Since(start))
}
