package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "rfv.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 4, cfg.Cluster.K)
	assert.Equal(t, 300, cfg.Cluster.MaxIterations)
	assert.Equal(t, int64(42), cfg.Cluster.Seed)
	assert.Equal(t, "RFV_Segmentado", cfg.Export.SheetName)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	data := `
store:
  driver: postgres
  database_url: postgres://localhost/rfv
cluster:
  k: 6
  seed: 7
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(data), 0o644))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/rfv", cfg.Store.DatabaseURL)
	assert.Equal(t, 6, cfg.Cluster.K)
	assert.Equal(t, int64(7), cfg.Cluster.Seed)
	// untouched keys keep their defaults
	assert.Equal(t, 300, cfg.Cluster.MaxIterations)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RFV_STORE_DRIVER", "postgres")
	t.Setenv("RFV_CLUSTER_K", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 8, cfg.Cluster.K)
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{"json info", LogConfig{Level: "info", Format: "json"}, false},
		{"console debug", LogConfig{Level: "debug", Format: "console"}, false},
		{"bad level", LogConfig{Level: "verbose", Format: "json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
