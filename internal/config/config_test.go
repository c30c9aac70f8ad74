package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireline/internal/config"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "127.0.0.1:8484", cfg.Server.Addr)
	assert.Equal(t, "/api", cfg.Server.BasePath)
	assert.Equal(t, 50, cfg.Limits.EventsTail)
	assert.Contains(t, cfg.Pipeline.DefaultStepTypes, "Technical Interview")
}

func TestGenerateDefaultRoundTrips(t *testing.T) {
	cfg, err := config.FromYAML([]byte(config.GenerateDefault()))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestFromYAMLOverlaysDefaults(t *testing.T) {
	cfg, err := config.FromYAML([]byte("server:\n  addr: 0.0.0.0:9000\n"))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	// untouched sections keep their defaults
	assert.Equal(t, 50, cfg.Limits.EventsTail)
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := map[string]string{
		"empty addr":          "server:\n  addr: \"\"\n",
		"non-positive tail":   "limits:\n  events_tail: 0\n",
		"duplicate step type": "pipeline:\n  default_step_types: [Screening Call, Screening Call]\n",
		"empty step type":     "pipeline:\n  default_step_types: [\"\"]\n",
	}
	for name, yml := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.FromYAML([]byte(yml))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := config.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hl config init")
}

func TestLoadOptionalFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadOptional(dir)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadReadsWorkspaceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hireline.yml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: 127.0.0.1:1234\n"), 0o644))
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:1234", cfg.Server.Addr)
	assert.Equal(t, path, config.Path(dir))
}
