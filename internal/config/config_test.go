package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("UPLOAD_MAX_SIZE_MB", "")
	t.Setenv("UPLOAD_DIR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 32, cfg.Upload.MaxSizeMB)
	assert.NotEmpty(t, cfg.Upload.Dir)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("UPLOAD_MAX_SIZE_MB", "64")
	t.Setenv("UPLOAD_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, 64, cfg.Upload.MaxSizeMB)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("APP_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := Config{
		App:    AppConfig{Port: 8080},
		Upload: UploadConfig{Dir: "/tmp", MaxSizeMB: 32},
	}
	assert.NoError(t, valid.Validate())

	badPort := valid
	badPort.App.Port = 0
	assert.Error(t, badPort.Validate())

	badSize := valid
	badSize.Upload.MaxSizeMB = 0
	assert.Error(t, badSize.Validate())

	badDir := valid
	badDir.Upload.Dir = ""
	assert.Error(t, badDir.Validate())
}
