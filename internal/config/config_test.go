package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ramanasai/quotes/internal/collection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, collection.Additive, cfg.Policy())
	assert.False(t, cfg.RemoteEnabled())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
store:
  backend: DiskV
remote:
  url: https://example.com/quotes
  text_field: title
  default_category: Server
sync:
  interval: 45s
  policy: authoritative
notify:
  desktop: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, BackendDiskv, cfg.Store.Backend)
	assert.Equal(t, "title", cfg.Remote.TextField)
	assert.Equal(t, "category", cfg.Remote.CategoryField)
	assert.Equal(t, "Server", cfg.Remote.DefaultCategory)
	assert.Equal(t, 45*time.Second, cfg.Sync.Interval)
	assert.Equal(t, collection.Authoritative, cfg.Policy())
	assert.True(t, cfg.Sync.OnStart)
	assert.True(t, cfg.Notify.Desktop)
	assert.Equal(t, 3*time.Second, cfg.Notify.Duration)
	assert.True(t, cfg.RemoteEnabled())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("QUOTES_SYNC_POLICY", "authoritative")
	cfg, err := Load(writeConfig(t, "sync:\n  policy: additive\n"))
	require.NoError(t, err)
	assert.Equal(t, collection.Authoritative, cfg.Policy())
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"policy", "sync:\n  policy: server-wins\n", "sync.policy"},
		{"backend", "store:\n  backend: postgres\n", "store.backend"},
		{"interval", "sync:\n  interval: 0s\n", "sync.interval"},
		{"attempts", "selection:\n  max_attempts: 0\n", "selection.max_attempts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "sync: [unterminated\n"))
	assert.Error(t, err)
}
