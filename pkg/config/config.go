// Package config loads runtime settings from an optional YAML file with
// environment overrides. godotenv is loaded by main before this runs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tamerhisham/autoboq/pkg/boq"
)

// Config holds the runtime settings.
type Config struct {
	// GeminiAPIKey is the API key for Google Gemini. Empty switches the
	// pipeline into simulation mode.
	GeminiAPIKey string `yaml:"gemini_api_key"`
	// Model is the default model name.
	Model string `yaml:"model"`
	// Addr is the REST listen address.
	Addr string `yaml:"addr"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Model: string(boq.DefaultModel),
		Addr:  ":8080",
	}
}

// Load reads path (optional, "" skips the file) and then applies env
// overrides: GEMINI_API_KEY, AUTOBOQ_MODEL, PORT.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("AUTOBOQ_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}

	if !boq.ModelName(cfg.Model).Valid() {
		return Config{}, fmt.Errorf("unsupported model %q", cfg.Model)
	}
	return cfg, nil
}

// Simulated reports whether the pipeline should run without the external
// model.
func (c Config) Simulated() bool {
	return c.GeminiAPIKey == ""
}
