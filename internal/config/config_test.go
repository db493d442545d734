package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	chdir(t, t.TempDir())

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Verbose)
	assert.InDelta(t, 200, cfg.Fit.MinDisplayWidth, 1e-9)
	assert.InDelta(t, 16, cfg.Fit.TopMargin, 1e-9)
	assert.InDelta(t, 24, cfg.Editor.HandleRadius, 1e-9)
	assert.InDelta(t, 0.8, cfg.Editor.DefaultFraction, 1e-9)
	assert.Equal(t, 5000, cfg.Dispatch.TimeoutMs)
	assert.Equal(t, 500, cfg.Dispatch.GraceMs)
	assert.InDelta(t, 2.0, cfg.Dispatch.AxisAlignedTolerance, 1e-9)
	assert.Equal(t, 4096, cfg.Dispatch.MaxOutputDim)
	assert.Equal(t, "png", cfg.Output.Format)
	assert.Equal(t, 92, cfg.Output.JPEGQuality)
}

func TestLoad_FromFile(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()

	raw := map[string]any{
		"log_level": "debug",
		"editor": map[string]any{
			"handle_radius": 32.0,
		},
		"dispatch": map[string]any{
			"timeout_ms": 1200,
		},
		"output": map[string]any{
			"format": "webp",
		},
	}
	data, err := yaml.Marshal(raw)
	require.NoError(t, err)
	path := filepath.Join(dir, "quadcrop.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	l := NewLoader()
	l.SetConfigFile(path)
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.InDelta(t, 32, cfg.Editor.HandleRadius, 1e-9)
	assert.Equal(t, 1200, cfg.Dispatch.TimeoutMs)
	assert.Equal(t, "webp", cfg.Output.Format)
	// Untouched keys keep their defaults.
	assert.InDelta(t, 0.8, cfg.Editor.DefaultFraction, 1e-9)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	viper.Reset()
	chdir(t, t.TempDir())
	t.Setenv("QUADCROP_LOG_LEVEL", "warn")
	t.Setenv("QUADCROP_DISPATCH_TIMEOUT_MS", "250")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 250, cfg.Dispatch.TimeoutMs)
}

func TestLoad_InvalidFileRejected(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	path := filepath.Join(dir, "quadcrop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: shout\n"), 0o644))

	l := NewLoader()
	l.SetConfigFile(path)
	_, err := l.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty is valid", func(*Config) {}, ""},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"negative min display", func(c *Config) { c.Fit.MinDisplayWidth = -1 }, "fit"},
		{"aspect epsilon too large", func(c *Config) { c.Fit.AspectEpsilon = 2 }, "aspect_epsilon"},
		{"negative handle radius", func(c *Config) { c.Editor.HandleRadius = -5 }, "handle_radius"},
		{"fraction above one", func(c *Config) { c.Editor.DefaultFraction = 1.5 }, "default_fraction"},
		{"negative timeout", func(c *Config) { c.Dispatch.TimeoutMs = -1 }, "timeouts"},
		{"bad format", func(c *Config) { c.Output.Format = "bmp" }, "format"},
		{"jpeg quality range", func(c *Config) { c.Output.JPEGQuality = 150 }, "jpeg_quality"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDispatchConfigBridge(t *testing.T) {
	c := DispatchConfig{TimeoutMs: 1500, GraceMs: 100, AxisAlignedTolerance: 3, MinQuadArea: 50}
	cfg := c.DispatchConfig()
	assert.Equal(t, 1500*time.Millisecond, cfg.CorrectionTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.GracePeriod)
	assert.InDelta(t, 3, cfg.AxisAlignedTolerance, 1e-9)
	assert.InDelta(t, 50, cfg.MinQuadArea, 1e-9)

	// Zero values fall back to package defaults.
	def := DispatchConfig{}.DispatchConfig()
	assert.Equal(t, 5*time.Second, def.CorrectionTimeout)
}

func TestWarpConfigBridge(t *testing.T) {
	c := DispatchConfig{MaxOutputDim: 2048}
	assert.Equal(t, 2048, c.WarpConfig().MaxOutputDim)
	assert.Equal(t, 4096, DispatchConfig{}.WarpConfig().MaxOutputDim)
}

func TestFitOptionsBridge(t *testing.T) {
	c := FitConfig{MinDisplayWidth: 300, TopMargin: 8}
	opts := c.FitOptions()
	assert.InDelta(t, 300, opts.MinWidth, 1e-9)
	assert.InDelta(t, 8, opts.TopMargin, 1e-9)
	// Unset fields keep defaults.
	assert.InDelta(t, 200, opts.MinHeight, 1e-9)
	assert.InDelta(t, 0.01, opts.AspectEpsilon, 1e-9)
}

func TestEditorConfigBridge(t *testing.T) {
	c := EditorConfig{HandleRadius: 30}
	cfg := c.EditorConfig()
	assert.InDelta(t, 30, cfg.HandleRadius, 1e-9)
	assert.InDelta(t, 100, cfg.MinQuadArea, 1e-9)
	assert.InDelta(t, 0.8, cfg.DefaultFraction, 1e-9)
}
