package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"ENV", "PORT", "DB_DRIVER", "DB_HOST", "MYSQLHOST", "DB_PORT", "MYSQLPORT",
		"DB_MAX_OPEN_CONNS", "ADMIN_EMAIL", "MQ_BACKEND", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	require.Equal(t, 3000, cfg.ServerPort)
	require.Equal(t, DriverMySQL, cfg.Database.Driver)
	require.Equal(t, "localhost", cfg.Database.Host)
	require.Equal(t, 3306, cfg.Database.Port)
	require.Equal(t, 10, cfg.Database.MaxOpenConns)
	require.Equal(t, "admin@ieti.edu.ph", cfg.Accounts.AdminEmail)
	require.Equal(t, "/static/admin-dashboard.html", cfg.Accounts.AdminRedirect)
	require.Equal(t, MQBackendNone, cfg.MQ.Backend)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigRailwayFallback(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("MYSQLHOST", "mysql.railway.internal")
	t.Setenv("MYSQLPORT", "33060")

	cfg := LoadConfig()

	require.Equal(t, "mysql.railway.internal", cfg.Database.Host)
	require.Equal(t, 33060, cfg.Database.Port)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("MYSQLHOST", "ignored")
	t.Setenv("DB_USE_SSL", "true")
	t.Setenv("ADMIN_EMAIL", "Root@School.edu")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("MQ_BACKEND", "RabbitMQ")

	cfg := LoadConfig()

	require.Equal(t, 8081, cfg.ServerPort)
	require.Equal(t, DriverPostgres, cfg.Database.Driver)
	require.Equal(t, "db", cfg.Database.Host)
	require.True(t, cfg.Database.UseSSL)
	require.Equal(t, "root@school.edu", cfg.Accounts.AdminEmail)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, MQBackendRabbitMQ, cfg.MQ.Backend)
}

func TestGetEnvIntInvalid(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")
	require.Equal(t, 10, getEnvInt("DB_MAX_OPEN_CONNS", 10))
}
