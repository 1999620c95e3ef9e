package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "devcamper_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("MAX_FILE_UPLOAD", "2048")
	t.Setenv("FILE_UPLOAD_PATH", "/tmp/uploads")
	t.Setenv("ALLOW_INSECURE_TOKEN", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "mongodb://localhost:27017/testdb", cfg.MongoDB.URI)
	require.Equal(t, "devcamper_test", cfg.MongoDB.Database)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.Equal(t, int64(2048), cfg.Upload.MaxFileUpload)
	require.Equal(t, "/tmp/uploads", cfg.Upload.Path)
	require.Equal(t, "filesystem", cfg.Upload.Backend)
	require.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	require.True(t, cfg.Keycloak.AllowInsecureToken)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "5000", cfg.Server.Port)
	require.Equal(t, int64(1000000), cfg.Upload.MaxFileUpload)
	require.Equal(t, "mapquest", cfg.Geocoder.Provider)
	require.Empty(t, cfg.Redis.Addr())
}

func TestLoadConfig_RejectsMinIOWithoutEndpoint(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("UPLOAD_BACKEND", "minio")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_RequiresSomeTokenVerifier(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("KEYCLOAK_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
}
