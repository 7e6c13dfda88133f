package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/moamenhredeen/oasgen/internal/output"
	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.OutputDir != "build/openapi" || cfg.FileName != "openapi" {
		t.Errorf("unexpected output settings %q %q", cfg.OutputDir, cfg.FileName)
	}
	if !cfg.Infer || cfg.DefaultMediaType != "application/json" {
		t.Errorf("unexpected document defaults %+v", cfg)
	}
	formats := cfg.DocumentFormats()
	if len(formats) != 1 || formats[0] != output.FormatYAML {
		t.Errorf("expected yaml only, got %v", formats)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oasgen.toml")
	content := `output_dir = "out"
format = ["json", "yaml", "json"]
title = "Pets"
infer = false
log_format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig failed: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.OutputDir != "out" || cfg.Title != "Pets" || cfg.Infer {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if formats := cfg.DocumentFormats(); len(formats) != 2 || formats[0] != output.FormatJSON {
		t.Errorf("expected deduplicated json, yaml; got %v", formats)
	}
	opts := cfg.DocumentOptions()
	if opts.Title != "Pets" || opts.Version != "1.0.0" || opts.InferParameters {
		t.Errorf("unexpected document options %+v", opts)
	}
}

func TestLoadCommaSeparatedFormats(t *testing.T) {
	v := viper.New()
	v.Set("format", []string{"yaml, json"})
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Formats) != 2 || cfg.Formats[1] != "json" {
		t.Errorf("unexpected formats %v", cfg.Formats)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"no formats", func(c *Config) { c.Formats = nil }},
		{"csv document", func(c *Config) { c.Formats = []string{"csv"} }},
		{"bad media type", func(c *Config) { c.DefaultMediaType = "json" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{OutputDir: "out", Formats: []string{"yaml"}, LogFormat: "text"}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("baseline config invalid: %v", err)
			}
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
