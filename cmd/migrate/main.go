// Command migrate applies the schema migrations under migrations/ to the
// database named by DATABASE_URL.
package main

import (
	"errors"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"muniadmin/internal/platform/logger"
)

func main() {
	log := logger.New()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	source := os.Getenv("MIGRATIONS_PATH")
	if source == "" {
		source = "file://migrations"
	}

	m, err := migrate.New(source, dbURL)
	if err != nil {
		log.Error("migration setup failed", "error", err)
		os.Exit(1)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	version, dirty, err := m.Version()
	if err != nil {
		log.Error("could not read schema version", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied", "version", version, "dirty", dirty)
}
