package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "quadcrop"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "QUADCROP"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader. The global viper instance is
// used so cobra flag bindings are honored.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// Load loads configuration from files, environment variables, and defaults,
// then validates it.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")

	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// SetConfigFile points the loader at an explicit configuration file instead
// of the search paths.
func (l *Loader) SetConfigFile(path string) {
	l.v.SetConfigFile(path)
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
		l.v.AddConfigPath(filepath.Join(home, ".config", "quadcrop"))
	}
	l.v.AddConfigPath("/etc/quadcrop")
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}

func (l *Loader) setDefaults() {
	l.v.SetDefault("log_level", "info")
	l.v.SetDefault("verbose", false)

	l.v.SetDefault("fit.min_display_width", 200.0)
	l.v.SetDefault("fit.min_display_height", 200.0)
	l.v.SetDefault("fit.top_margin", 16.0)
	l.v.SetDefault("fit.aspect_epsilon", 0.01)

	l.v.SetDefault("editor.handle_radius", 24.0)
	l.v.SetDefault("editor.min_quad_area", 100.0)
	l.v.SetDefault("editor.default_fraction", 0.8)

	l.v.SetDefault("dispatch.timeout_ms", 5000)
	l.v.SetDefault("dispatch.grace_ms", 500)
	l.v.SetDefault("dispatch.axis_aligned_tolerance", 2.0)
	l.v.SetDefault("dispatch.min_quad_area", 100.0)
	l.v.SetDefault("dispatch.max_output_dim", 4096)

	l.v.SetDefault("output.format", "png")
	l.v.SetDefault("output.jpeg_quality", 92)
	l.v.SetDefault("output.webp_quality", 90.0)
}
