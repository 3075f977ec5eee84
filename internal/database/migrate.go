package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies every pending migration for driver. It opens its own
// connection since the migrate driver closes the handle it is given.
func Migrate(driver, dsn string) error {
	db, err := Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}

	var (
		instance migratedb.Driver
		name     string
	)

	switch driver {
	case DriverPostgres:
		instance, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
		name = "pgx5"
	case DriverSQLite:
		instance, err = sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
		name = "sqlite"
	}

	if err != nil {
		db.Close()
		return fmt.Errorf("create %s driver: %w", driver, err)
	}

	return run(instance, name, "migrations/"+driver)
}

func run(instance migratedb.Driver, name, dir string) error {
	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, name, instance)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
