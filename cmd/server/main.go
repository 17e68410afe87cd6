package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/bassclub/internal/adapters/handler/http"
	"github.com/vncsmyrnk/bassclub/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/bassclub/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/bassclub/internal/config"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
	"github.com/vncsmyrnk/bassclub/internal/core/services"
)

type repositories struct {
	anglers   ports.AnglerRepository
	directory ports.MembershipDirectory
	seasons   ports.SeasonRepository
	events    ports.EventRepository
	catches   ports.CatchRepository
	results   ports.EventResultRepository
	standings ports.StandingsRepository
	polls     ports.PollRepository
	votes     ports.VoteRepository
}

func main() {
	inMemory := flag.Bool("memory", false, "keep everything in memory instead of Postgres")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	var repos repositories
	if *inMemory {
		repos = memoryRepositories()
		slog.Info("using in-memory storage")
	} else {
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
		repos = postgresRepositories(db)
	}

	clock := ports.RealClock{}
	resultService := services.NewResultService(repos.events, repos.catches, repos.results, cfg.Scoring(), cfg.RecomputeMaxRetries)
	standingsService := services.NewStandingsService(repos.seasons, repos.results, repos.standings, cfg.Season(), cfg.RecomputeMaxRetries)

	handler := http.NewHandler(http.Handlers{
		Anglers: http.NewAnglerHandler(services.NewAnglerService(repos.anglers, clock)),
		Events:  http.NewEventHandler(services.NewEventService(repos.seasons, repos.events, resultService, standingsService, clock), resultService, standingsService),
		Catches: http.NewCatchHandler(services.NewCatchService(repos.events, repos.anglers, repos.catches, resultService, standingsService, clock)),
		Polls:   http.NewPollHandler(services.NewPollService(repos.polls, repos.directory, clock)),
		Votes:   http.NewVoteHandler(services.NewVoteService(repos.polls, repos.votes, clock)),
	}, []byte(cfg.JWTSecret))

	server := &stdhttp.Server{Addr: cfg.HTTPAddr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}

func memoryRepositories() repositories {
	db := memory.NewDB()
	anglers := memory.NewAnglerRepository(db)
	return repositories{
		anglers:   anglers,
		directory: anglers,
		seasons:   memory.NewSeasonRepository(db),
		events:    memory.NewEventRepository(db),
		catches:   memory.NewCatchRepository(db),
		results:   memory.NewEventResultRepository(db),
		standings: memory.NewStandingsRepository(db),
		polls:     memory.NewPollRepository(db),
		votes:     memory.NewVoteRepository(db),
	}
}

func postgresRepositories(db *sql.DB) repositories {
	anglers := postgres.NewAnglerRepository(db)
	return repositories{
		anglers:   anglers,
		directory: anglers,
		seasons:   postgres.NewSeasonRepository(db),
		events:    postgres.NewEventRepository(db),
		catches:   postgres.NewCatchRepository(db),
		results:   postgres.NewEventResultRepository(db),
		standings: postgres.NewStandingsRepository(db),
		polls:     postgres.NewPollRepository(db),
		votes:     postgres.NewVoteRepository(db),
	}
}
