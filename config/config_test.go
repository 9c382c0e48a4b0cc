package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/typewire/cache"
	"github.com/cube2222/typewire/typecodec"
)

func writeConfig(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestRead(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		check    func(t *testing.T, config *Config)
		wantErr  bool
	}{
		{
			name:     "empty file keeps defaults",
			contents: "",
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, typecodec.DefaultMaxDepth, config.MaxDepth)
				assert.False(t, config.AllowTrailingData)
				assert.Equal(t, cache.DefaultConfig, config.Cache)
				assert.Equal(t, OutputName, config.Output)
			},
		},
		{
			name: "all keys",
			contents: `
maxDepth: 64
allowTrailingData: true
cache:
  numCounters: 1000
  maxCost: 4096
catalogPath: /tmp/catalog.yml
logDirectory: /tmp/logs
output: hex
`,
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, 64, config.MaxDepth)
				assert.True(t, config.AllowTrailingData)
				assert.Equal(t, cache.Config{NumCounters: 1000, MaxCost: 4096}, config.Cache)
				assert.Equal(t, "/tmp/catalog.yml", config.CatalogPath)
				assert.Equal(t, "/tmp/logs", config.LogDirectory)
				assert.Equal(t, OutputHex, config.Output)
				assert.Equal(t, typecodec.Decoder{MaxDepth: 64, AllowTrailingData: true}, config.Decoder())
			},
		},
		{
			name:     "partial cache section",
			contents: "cache:\n  maxCost: 100\n",
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, int64(100), config.Cache.MaxCost)
				assert.Equal(t, cache.DefaultConfig.NumCounters, config.Cache.NumCounters)
			},
		},
		{
			name:     "negative depth",
			contents: "maxDepth: -1\n",
			wantErr:  true,
		},
		{
			name:     "unknown output",
			contents: "output: xml\n",
			wantErr:  true,
		},
		{
			name:     "malformed yaml",
			contents: "maxDepth: [\n",
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := Read(writeConfig(t, tt.contents))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, config)
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	config, err := Read(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, typecodec.DefaultMaxDepth, config.MaxDepth)
	assert.Equal(t, "catalog.yml", filepath.Base(config.CatalogPath))
}
