package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// RunMigrations applies all embedded up migrations for driver on db.
func RunMigrations(db *sql.DB, driver string) error {
	m, release, err := newMigrator(db, driver)
	if err != nil {
		return err
	}
	defer release()
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// SchemaVersion reports the applied migration version.
func SchemaVersion(db *sql.DB, driver string) (uint, bool, error) {
	m, release, err := newMigrator(db, driver)
	if err != nil {
		return 0, false, err
	}
	defer release()
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// newMigrator builds a migrator over db without taking ownership of it.
// release gives back the postgres connection the migrator holds and leaves db open.
func newMigrator(db *sql.DB, driver string) (*migrate.Migrate, func(), error) {
	var (
		instance database.Driver
		dir      string
		release  = func() {}
		err      error
	)
	switch driver {
	case DriverSQLite:
		// closing the sqlite3 driver would close db, so it is never closed here
		dir = "migrations/sqlite"
		instance, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	case DriverPostgres:
		dir = "migrations/postgres"
		ctx := context.Background()
		conn, cerr := db.Conn(ctx)
		if cerr != nil {
			return nil, nil, fmt.Errorf("migration conn: %w", cerr)
		}
		instance, err = postgres.WithConnection(ctx, conn, &postgres.Config{})
		if err != nil {
			_ = conn.Close()
		} else {
			// WithConnection leaves db unset, so Close only returns conn to the pool.
			release = func() { _ = instance.Close() }
		}
	default:
		return nil, nil, fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, driver, instance)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return m, release, nil
}
