package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contratos-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "contracts-documents", cfg.Storage.Bucket)
	assert.Equal(t, int64(50*1024*1024), cfg.Storage.MaxUploadBytes())
	assert.Equal(t, 60*time.Second, cfg.Storage.SignedURLTTL)
	assert.Equal(t, 500, cfg.Audit.MaxEntries)
	assert.Equal(t, 30*time.Second, cfg.Access.RoleCacheTTL)
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ROLE_CACHE_TTL", "5")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "2m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, 5*time.Second, cfg.Access.RoleCacheTTL)
	assert.Equal(t, 2*time.Minute, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "s3cret", cfg.Storage.SigningSecret, "sin secreto propio se reutiliza JWT_SECRET")
}

func TestLoad_ProduccionSinSecreto_Falla(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "contratos", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/contratos?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestLoad_DriverMemoriaNoPermitidoEnProduccion(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "memory")

	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("APP_ENV", "development")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DB.Driver)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := config.Load()
	assert.Error(t, err)
}
