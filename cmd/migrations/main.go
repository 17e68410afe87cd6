package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/bassclub/internal/config"
)

// Usage: migrations <name>, e.g. "migrations 0001_init.up".
func main() {
	if len(os.Args) < 2 {
		log.Fatal("a migration name is required.")
	}
	migrationName := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.Postgres.ConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	basePath := filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")
	fileContent, err := migrationFileContent(basePath, migrationName)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := db.Exec(string(fileContent)); err != nil {
		log.Fatalf("Failed to execute SQL file: %v", err)
	}

	log.Printf("Migration %s executed successfully.", migrationName)
}

func migrationFileContent(basePath string, migrationName string) ([]byte, error) {
	fileName, err := migrationFileName(basePath, migrationName)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(basePath, fileName))
}

func migrationFileName(basePath string, migrationName string) (string, error) {
	regex, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return "", fmt.Errorf("invalid migration name: %w", err)
	}

	files, err := os.ReadDir(basePath)
	if err != nil {
		return "", fmt.Errorf("failed to read migrations directory: %w", err)
	}
	for _, f := range files {
		if !f.IsDir() && regex.MatchString(f.Name()) {
			return f.Name(), nil
		}
	}

	return "", fmt.Errorf("migration file %q not found", migrationName)
}
