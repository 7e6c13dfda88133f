// Package config holds the generator settings read from oasgen.toml, the
// OASGEN_* environment and command line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/moamenhredeen/oasgen/internal/openapi"
	"github.com/moamenhredeen/oasgen/internal/output"
	"github.com/spf13/viper"
)

// Config is the resolved generator configuration.
type Config struct {
	OutputDir        string   `mapstructure:"output_dir"`
	FileName         string   `mapstructure:"file_name"`
	Formats          []string `mapstructure:"format"`
	Base             string   `mapstructure:"base"`
	Title            string   `mapstructure:"title"`
	Version          string   `mapstructure:"version"`
	Description      string   `mapstructure:"description"`
	DefaultMediaType string   `mapstructure:"default_media_type"`
	Infer            bool     `mapstructure:"infer"`
	LogLevel         string   `mapstructure:"log_level"`
	LogFormat        string   `mapstructure:"log_format"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output_dir", "build/openapi")
	v.SetDefault("file_name", "openapi")
	v.SetDefault("format", []string{string(output.FormatYAML)})
	v.SetDefault("title", "API")
	v.SetDefault("version", "1.0.0")
	v.SetDefault("default_media_type", openapi.DefaultMediaType)
	v.SetDefault("infer", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Formats = splitList(cfg.Formats)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if len(c.Formats) == 0 {
		return fmt.Errorf("at least one output format is required")
	}
	for _, f := range c.Formats {
		if _, err := output.ParseDocumentFormat(f); err != nil {
			return err
		}
	}
	if c.DefaultMediaType != "" && !strings.Contains(c.DefaultMediaType, "/") {
		return fmt.Errorf("invalid default_media_type '%s'", c.DefaultMediaType)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format '%s': must be 'text' or 'json'", c.LogFormat)
	}
	return nil
}

// DocumentFormats returns the parsed output formats, without duplicates.
func (c *Config) DocumentFormats() []output.Format {
	var out []output.Format
	seen := map[output.Format]bool{}
	for _, s := range c.Formats {
		f, err := output.ParseDocumentFormat(s)
		if err != nil || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// DocumentOptions returns the document construction options.
func (c *Config) DocumentOptions() openapi.Options {
	opts := openapi.DefaultOptions()
	if c.DefaultMediaType != "" {
		opts.DefaultMediaType = c.DefaultMediaType
	}
	opts.InferParameters = c.Infer
	if c.Title != "" {
		opts.Title = c.Title
	}
	if c.Version != "" {
		opts.Version = c.Version
	}
	opts.Description = c.Description
	return opts
}

// splitList accepts both repeated values and comma separated lists.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
