package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/ieti-edutrack/apiserver/config"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies all pending up migrations for the configured driver.
// It uses a dedicated connection so the shared pool is never closed by the
// migrator.
func Migrate(ctx context.Context, cfg config.DatabaseConfig) error {
	dsn, err := migrationDSN(cfg)
	if err != nil {
		return err
	}

	conn, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return fmt.Errorf("ping migration connection: %w", err)
	}

	driver, err := migrationDriver(cfg.Driver, conn)
	if err != nil {
		_ = conn.Close()
		return err
	}

	source, err := iofs.New(migrationsFS, "migrations/"+cfg.Driver)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("load migrations: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, cfg.Driver, driver)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("init migrator failed: %w", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migrate up failed: %w", err)
	}
	return nil
}

// migrationDSN is DSN plus multi-statement support for MySQL, which
// migration files rely on.
func migrationDSN(cfg config.DatabaseConfig) (string, error) {
	if cfg.Driver != config.DriverMySQL {
		return DSN(cfg)
	}
	mc := mysqlConfig(cfg)
	mc.MultiStatements = true
	return mc.FormatDSN(), nil
}

func migrationDriver(driverName string, conn *sql.DB) (database.Driver, error) {
	var (
		driver database.Driver
		err    error
	)
	switch driverName {
	case config.DriverMySQL:
		driver, err = migratemysql.WithInstance(conn, &migratemysql.Config{})
	case config.DriverPostgres:
		driver, err = migratepostgres.WithInstance(conn, &migratepostgres.Config{})
	case config.DriverSQLite:
		driver, err = migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driverName)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s migration driver: %w", driverName, err)
	}
	return driver, nil
}
