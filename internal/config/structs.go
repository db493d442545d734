package config

import (
	"time"

	"github.com/framelift/quadcrop/internal/dispatch"
	"github.com/framelift/quadcrop/internal/editor"
	"github.com/framelift/quadcrop/internal/geometry"
	"github.com/framelift/quadcrop/internal/warp"
)

// Config represents the complete configuration for the quadcrop tool. It
// supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Fit calculator settings
	Fit FitConfig `mapstructure:"fit" yaml:"fit" json:"fit"`

	// Editing session settings
	Editor EditorConfig `mapstructure:"editor" yaml:"editor" json:"editor"`

	// Crop dispatch settings
	Dispatch DispatchConfig `mapstructure:"dispatch" yaml:"dispatch" json:"dispatch"`

	// Output encoding settings
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// FitConfig contains scale/fit calculator settings.
type FitConfig struct {
	MinDisplayWidth  float64 `mapstructure:"min_display_width" yaml:"min_display_width" json:"min_display_width"`
	MinDisplayHeight float64 `mapstructure:"min_display_height" yaml:"min_display_height" json:"min_display_height"`
	TopMargin        float64 `mapstructure:"top_margin" yaml:"top_margin" json:"top_margin"`
	AspectEpsilon    float64 `mapstructure:"aspect_epsilon" yaml:"aspect_epsilon" json:"aspect_epsilon"`
}

// EditorConfig contains interactive editing settings.
type EditorConfig struct {
	HandleRadius    float64 `mapstructure:"handle_radius" yaml:"handle_radius" json:"handle_radius"`
	MinQuadArea     float64 `mapstructure:"min_quad_area" yaml:"min_quad_area" json:"min_quad_area"`
	DefaultFraction float64 `mapstructure:"default_fraction" yaml:"default_fraction" json:"default_fraction"`
}

// DispatchConfig contains crop/correction dispatch settings.
type DispatchConfig struct {
	TimeoutMs            int     `mapstructure:"timeout_ms" yaml:"timeout_ms" json:"timeout_ms"`
	GraceMs              int     `mapstructure:"grace_ms" yaml:"grace_ms" json:"grace_ms"`
	AxisAlignedTolerance float64 `mapstructure:"axis_aligned_tolerance" yaml:"axis_aligned_tolerance" json:"axis_aligned_tolerance"`
	MinQuadArea          float64 `mapstructure:"min_quad_area" yaml:"min_quad_area" json:"min_quad_area"`
	MaxOutputDim         int     `mapstructure:"max_output_dim" yaml:"max_output_dim" json:"max_output_dim"`
}

// OutputConfig contains output image encoding settings.
type OutputConfig struct {
	Format      string  `mapstructure:"format" yaml:"format" json:"format"`
	JPEGQuality int     `mapstructure:"jpeg_quality" yaml:"jpeg_quality" json:"jpeg_quality"`
	WebPQuality float32 `mapstructure:"webp_quality" yaml:"webp_quality" json:"webp_quality"`
}

// FitOptions converts the fit settings to geometry options.
func (c FitConfig) FitOptions() geometry.FitOptions {
	opts := geometry.DefaultFitOptions()
	if c.MinDisplayWidth > 0 {
		opts.MinWidth = c.MinDisplayWidth
	}
	if c.MinDisplayHeight > 0 {
		opts.MinHeight = c.MinDisplayHeight
	}
	if c.TopMargin > 0 {
		opts.TopMargin = c.TopMargin
	}
	if c.AspectEpsilon > 0 {
		opts.AspectEpsilon = c.AspectEpsilon
	}
	return opts
}

// EditorConfig converts the editor settings to their package form.
func (c EditorConfig) EditorConfig() editor.Config {
	cfg := editor.DefaultConfig()
	if c.HandleRadius > 0 {
		cfg.HandleRadius = c.HandleRadius
	}
	if c.MinQuadArea > 0 {
		cfg.MinQuadArea = c.MinQuadArea
	}
	if c.DefaultFraction > 0 {
		cfg.DefaultFraction = c.DefaultFraction
	}
	return cfg
}

// DispatchConfig converts the dispatch settings to their package form.
func (c DispatchConfig) DispatchConfig() dispatch.Config {
	cfg := dispatch.DefaultConfig()
	if c.TimeoutMs > 0 {
		cfg.CorrectionTimeout = time.Duration(c.TimeoutMs) * time.Millisecond
	}
	if c.GraceMs > 0 {
		cfg.GracePeriod = time.Duration(c.GraceMs) * time.Millisecond
	}
	if c.AxisAlignedTolerance > 0 {
		cfg.AxisAlignedTolerance = c.AxisAlignedTolerance
	}
	if c.MinQuadArea > 0 {
		cfg.MinQuadArea = c.MinQuadArea
	}
	return cfg
}

// WarpConfig converts the dispatch settings to corrector sizing limits.
func (c DispatchConfig) WarpConfig() warp.Config {
	cfg := warp.DefaultConfig()
	if c.MaxOutputDim > 0 {
		cfg.MaxOutputDim = c.MaxOutputDim
	}
	return cfg
}
