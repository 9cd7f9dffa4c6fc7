package db

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ieti-edutrack/apiserver/config"
	"github.com/stretchr/testify/require"
)

var mysqlTestConfig = config.DatabaseConfig{
	Driver:   config.DriverMySQL,
	Host:     "db.internal",
	Port:     3306,
	User:     "edutrack",
	Password: "s3cret",
	DBName:   "ieti_edutrack_db",
}

func TestDSNMySQL(t *testing.T) {
	dsn, err := DSN(mysqlTestConfig)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dsn, "edutrack:s3cret@tcp(db.internal:3306)/ieti_edutrack_db?"), dsn)
	require.Contains(t, dsn, "parseTime=true")
	require.Contains(t, dsn, "clientFoundRows=true")
	require.NotContains(t, dsn, "multiStatements")
}

func TestMigrationDSNMySQLAllowsMultiStatements(t *testing.T) {
	dsn, err := migrationDSN(mysqlTestConfig)
	require.NoError(t, err)
	require.Contains(t, dsn, "multiStatements=true")
	require.Contains(t, dsn, "clientFoundRows=true")

	sqliteCfg := config.DatabaseConfig{Driver: config.DriverSQLite, Path: "/tmp/x.db"}
	want, err := DSN(sqliteCfg)
	require.NoError(t, err)
	got, err := migrationDSN(sqliteCfg)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestDSNPostgres(t *testing.T) {
	dsn, err := DSN(config.DatabaseConfig{
		Driver:   config.DriverPostgres,
		Host:     "localhost",
		Port:     5432,
		User:     "edutrack",
		Password: "pw",
		DBName:   "edutrack",
		UseSSL:   true,
	})
	require.NoError(t, err)
	require.Equal(t, "postgres://edutrack:pw@localhost:5432/edutrack?sslmode=require", dsn)
}

func TestDSNRejectsUnknownDriver(t *testing.T) {
	_, err := DSN(config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)

	_, err = DSN(config.DatabaseConfig{Driver: config.DriverSQLite})
	require.Error(t, err)
}

func TestMigrateSQLiteIsIdempotent(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "migrate.db"),
	}
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, cfg))
	require.NoError(t, Migrate(ctx, cfg))

	conn, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer conn.Close()

	var tables []string
	require.NoError(t, conn.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('teachers', 'students') ORDER BY name`))
	require.Equal(t, []string{"students", "teachers"}, tables)
}
