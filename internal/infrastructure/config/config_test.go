package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TICKETSYNC_TRACKER_ORGANIZATION_URL", "https://dev.example.com/acme")
	t.Setenv("TICKETSYNC_TRACKER_PROJECT", "Support")
	t.Setenv("TICKETSYNC_SANITIZER_TIMEOUT_MS", "250")

	cfg, err := Load("release")
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "7.1", cfg.Tracker.APIVersion)
	assert.Equal(t, "data/attachments", cfg.Tracker.AttachmentsDir)
	assert.True(t, cfg.Tracker.Enabled())
	assert.Equal(t, "Support", cfg.Tracker.Project)
	assert.Equal(t, 250, cfg.Sanitizer.TimeoutMS)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Same(t, cfg, Get())
}
