// Package config loads service configuration from the environment
// and optional YAML weight-table overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/crednova/credit-engine/internal/scoring"
)

// Config holds service-level configuration
type Config struct {
	Port              string
	DataDir           string
	JWTSecret         string
	ModelArtifactPath string
	WeightsPath       string
	CacheTTL          time.Duration
	RequestTimeout    time.Duration
	GinMode           string
}

// Load reads configuration from the environment, loading a .env file
// first if one is present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	return Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		DataDir:           getEnvOrDefault("DATA_DIR", "./data"),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", "your-super-secret-jwt-key-change-in-production"),
		ModelArtifactPath: os.Getenv("MODEL_ARTIFACT_PATH"),
		WeightsPath:       os.Getenv("WEIGHTS_PATH"),
		CacheTTL:          getDurationOrDefault("CACHE_TTL", 15*time.Minute),
		RequestTimeout:    getDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		GinMode:           getEnvOrDefault("GIN_MODE", "release"),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationOrDefault(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Invalid duration in environment, using default",
			"key", key, "value", value, "default", fallback)
		return fallback
	}
	return d
}

// weightsFile is the on-disk weight-table override format
type weightsFile struct {
	DefaultAlpha *float64                      `yaml:"default_alpha"`
	Personas     map[string]personaWeightsYAML `yaml:"personas"`
}

type personaWeightsYAML struct {
	Weights map[string]float64 `yaml:"weights"`
}

// ApplyWeightOverrides layers a YAML weight table over a scoring
// config in place. Only personas named in the file change; each must
// already exist since the file carries no schema or category
// definitions. The result is validated when the config reaches the
// engine.
func ApplyWeightOverrides(cfg *scoring.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read weights file: %w", err)
	}

	var wf weightsFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return fmt.Errorf("failed to parse weights file: %w", err)
	}

	if wf.DefaultAlpha != nil {
		cfg.DefaultAlpha = *wf.DefaultAlpha
	}

	for id, override := range wf.Personas {
		persona, ok := cfg.Personas[id]
		if !ok {
			return fmt.Errorf("weights file names unknown persona %q", id)
		}

		weights := make(scoring.PersonaWeights, len(override.Weights))
		for category, w := range override.Weights {
			weights[scoring.Category(category)] = w
		}
		persona.Weights = weights
		cfg.Personas[id] = persona
	}

	return nil
}
