package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed user/*.sql project/*.sql task/*.sql
var files embed.FS

// Apply brings one store's schema up to date. store is the embedded
// directory name: "user", "project" or "task". Each store migrates
// independently; they share no schema.
func Apply(db *sql.DB, store string) error {
	source, err := iofs.New(files, store)
	if err != nil {
		return fmt.Errorf("load %s migrations: %w", store, err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver for %s store: %w", store, err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate %s store: %w", store, err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply %s migrations: %w", store, err)
	}
	return nil
}
