package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func clearDatabaseEnv(t *testing.T) {
	unsetEnv(t,
		"DATABASE_URL", "DATABASE_PUBLIC_URL", "POSTGRES_URL", "PGURL",
		"DATABASE_URL_FILE", "PGURL_FILE",
		"PGHOST", "POSTGRES_HOST", "DATABASE_HOST",
		"PGUSER", "POSTGRES_USER", "DATABASE_USER",
		"PGPASSWORD", "POSTGRES_PASSWORD", "DATABASE_PASSWORD",
		"PGDATABASE", "POSTGRES_DB", "DATABASE_NAME",
		"PGPORT", "POSTGRES_PORT", "DATABASE_PORT",
		"PGSSLMODE", "POSTGRES_SSL_MODE",
	)
}

func TestLoad_Defaults(t *testing.T) {
	clearDatabaseEnv(t)
	unsetEnv(t, "HTTP_PORT", "PORT", "BCRYPT_COST", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "HTTP_READ_TIMEOUT")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.HTTPPort)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_RequiresSecret(t *testing.T) {
	unsetEnv(t, "JWT_SECRET")
	t.Setenv("STORAGE_DRIVER", "memory")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", "cassandra")

	_, err := Load()
	assert.ErrorContains(t, err, "unsupported STORAGE_DRIVER")
}

func TestLoad_PostgresRequiresDatabase(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := Load()
	assert.ErrorContains(t, err, "database configuration missing")
}

func TestLoad_Overrides(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", " Postgres ")
	t.Setenv("DATABASE_URL", "postgresql://u:p@db:5432/auth")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("HTTP_WRITE_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "postgres://u:p@db:5432/auth", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.WriteTimeout)
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("BCRYPT_COST", "ten")

	_, err := Load()
	assert.Error(t, err)
}

func TestResolveDatabaseURL_FromParts(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGUSER", "auth")
	t.Setenv("PGPASSWORD", "pw")
	t.Setenv("PGSSLMODE", "disable")

	assert.Equal(t, "postgres://auth:pw@db.internal:5432/auth?sslmode=disable", resolveDatabaseURL())
}

func TestResolveDatabaseURL_FromFile(t *testing.T) {
	clearDatabaseEnv(t)
	path := filepath.Join(t.TempDir(), "dsn")
	require.NoError(t, os.WriteFile(path, []byte("postgres://x@y/z\n"), 0o600))
	t.Setenv("DATABASE_URL_FILE", path)

	assert.Equal(t, "postgres://x@y/z", resolveDatabaseURL())
}

func TestResolveDatabaseURL_MissingHost(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("PGUSER", "auth")

	assert.Empty(t, resolveDatabaseURL())
}

func TestLoadDotEnv(t *testing.T) {
	unsetEnv(t, "DOTENV_PLAIN", "DOTENV_QUOTED", "DOTENV_EXPORTED")
	t.Setenv("DOTENV_PRESET", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n\nDOTENV_PLAIN=plain\nDOTENV_QUOTED=\"quoted value\"\nexport DOTENV_EXPORTED='single'\nDOTENV_PRESET=from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, loadDotEnv(path))
	t.Cleanup(func() {
		os.Unsetenv("DOTENV_PLAIN")
		os.Unsetenv("DOTENV_QUOTED")
		os.Unsetenv("DOTENV_EXPORTED")
	})

	assert.Equal(t, "plain", os.Getenv("DOTENV_PLAIN"))
	assert.Equal(t, "quoted value", os.Getenv("DOTENV_QUOTED"))
	assert.Equal(t, "single", os.Getenv("DOTENV_EXPORTED"))
	assert.Equal(t, "from-env", os.Getenv("DOTENV_PRESET"))
}

func TestLoadDotEnv_Errors(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NO_EQUALS_SIGN\n"), 0o600))
	assert.ErrorContains(t, loadDotEnv(path), "missing '='")

	require.NoError(t, os.WriteFile(path, []byte("=value\n"), 0o600))
	assert.ErrorContains(t, loadDotEnv(path), "empty key")
}
