package config

import (
	"errors"
	"fmt"
	"slices"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

var validFormats = []string{"png", "jpeg", "webp"}

// Validate checks the configuration for inconsistent or out-of-range values.
func (c *Config) Validate() error {
	if c.LogLevel != "" && !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q (expected one of %v)", c.LogLevel, validLogLevels)
	}
	if err := c.Fit.validate(); err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	if err := c.Editor.validate(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if err := c.Dispatch.validate(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	if err := c.Output.validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

func (c FitConfig) validate() error {
	if c.MinDisplayWidth < 0 || c.MinDisplayHeight < 0 {
		return errors.New("minimum display size must not be negative")
	}
	if c.AspectEpsilon < 0 || c.AspectEpsilon > 1 {
		return fmt.Errorf("aspect_epsilon %g out of range [0, 1]", c.AspectEpsilon)
	}
	return nil
}

func (c EditorConfig) validate() error {
	if c.HandleRadius < 0 {
		return errors.New("handle_radius must not be negative")
	}
	if c.DefaultFraction < 0 || c.DefaultFraction > 1 {
		return fmt.Errorf("default_fraction %g out of range (0, 1]", c.DefaultFraction)
	}
	return nil
}

func (c DispatchConfig) validate() error {
	if c.TimeoutMs < 0 || c.GraceMs < 0 {
		return errors.New("timeouts must not be negative")
	}
	if c.AxisAlignedTolerance < 0 {
		return errors.New("axis_aligned_tolerance must not be negative")
	}
	if c.MaxOutputDim < 0 {
		return errors.New("max_output_dim must not be negative")
	}
	return nil
}

func (c OutputConfig) validate() error {
	if c.Format != "" && !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("invalid output format %q (expected one of %v)", c.Format, validFormats)
	}
	if c.JPEGQuality < 0 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality %d out of range [0, 100]", c.JPEGQuality)
	}
	if c.WebPQuality < 0 || c.WebPQuality > 100 {
		return fmt.Errorf("webp_quality %g out of range [0, 100]", c.WebPQuality)
	}
	return nil
}
