package config_test

import (
	"testing"

	"controller-migrate/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "migration-receipts", cfg.Storage.Bucket)
	assert.Equal(t, "receipts", cfg.Receipt.Dir)
	assert.False(t, cfg.Receipt.Upload)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, 30, cfg.Target.TimeoutSeconds)

	// No hosts configured out of the box.
	assert.False(t, cfg.Source.Configured())
	assert.False(t, cfg.Reference.Configured())
	assert.False(t, cfg.Target.Configured())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SOURCE_HOST", "https://awx.example.com")
	t.Setenv("SOURCE_TOKEN", "src-token")
	t.Setenv("TARGET_HOST", "https://aap.example.com")
	t.Setenv("TARGET_ORGANIZATION", "7")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECEIPT_UPLOAD", "true")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.Source.Configured())
	assert.Equal(t, "src-token", cfg.Source.Token)
	assert.True(t, cfg.Target.Configured())
	assert.Equal(t, 7, cfg.Target.Organization)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Receipt.Upload)
}
