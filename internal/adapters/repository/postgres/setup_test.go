package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// newTestDB starts a throwaway Postgres, applies the migrations and tears
// everything down when the test ends.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	container, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, applyMigrations(db))
	return db
}

func seedAngler(t *testing.T, db *sql.DB, name string, active bool, joinedAt time.Time) *domain.Angler {
	t.Helper()
	angler := &domain.Angler{
		ID:       uuid.New(),
		Name:     name,
		Email:    strings.ToLower(name) + "@club.test",
		Active:   active,
		JoinedAt: joinedAt,
	}
	require.NoError(t, NewAnglerRepository(db).Create(context.Background(), angler))
	return angler
}

func seedEvent(t *testing.T, db *sql.DB, status domain.EventStatus) (*domain.Season, *domain.Event) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	season := &domain.Season{ID: uuid.New(), Name: "2026", StartsOn: now.AddDate(0, -1, 0), EndsOn: now.AddDate(0, 6, 0)}
	require.NoError(t, NewSeasonRepository(db).Create(ctx, season))

	event := &domain.Event{ID: uuid.New(), SeasonID: season.ID, Lake: "Lake Fork", Date: now, Status: status, CreatedAt: now}
	require.NoError(t, NewEventRepository(db).Create(ctx, event))
	return season, event
}
