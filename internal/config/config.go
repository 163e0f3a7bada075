// Package config loads the project-level YAML configuration: storage DSN,
// the local correction model's endpoint, batching defaults, and the
// lexicon override path, grounded on the teacher's LoadProjectConfig
// load-then-validate pattern.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is the top-level configuration document.
type ProjectConfig struct {
	Project    string        `yaml:"project"`
	Version    int           `yaml:"version"`
	Store      StoreConfig   `yaml:"store"`
	Corrector  CorrectorConfig `yaml:"corrector"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Lexicon    string        `yaml:"lexicon"`
}

// StoreConfig configures the Knowledge Store backend.
type StoreConfig struct {
	DSN string `yaml:"dsn"`
}

// CorrectorConfig configures the local LLM correction stage.
type CorrectorConfig struct {
	OllamaURL    string `yaml:"ollama_url"`
	Model        string `yaml:"model"`
	BatchSize    int    `yaml:"batch_size"`
	BatchTimeout string `yaml:"batch_timeout"`
}

// ExtractionConfig configures the pattern-extraction stage.
type ExtractionConfig struct {
	MinConfidence float64 `yaml:"min_confidence"`
}

// BatchTimeoutDuration parses BatchTimeout, defaulting to 60s when unset.
func (c CorrectorConfig) BatchTimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(c.BatchTimeout) == "" {
		return 60 * time.Second, nil
	}
	return time.ParseDuration(c.BatchTimeout)
}

// LoadProjectConfig reads and validates a ProjectConfig from path.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg := ProjectConfig{
		Corrector:  CorrectorConfig{BatchSize: 5, BatchTimeout: "60s"},
		Extraction: ExtractionConfig{MinConfidence: 0.1},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides lets a deployment environment override individual YAML
// fields without editing the config file on disk. An unset or empty
// variable leaves the YAML value (or its default) untouched.
func applyEnvOverrides(cfg *ProjectConfig) error {
	if v := os.Getenv("ASTROLOGYAI_STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("ASTROLOGYAI_OLLAMA_URL"); v != "" {
		cfg.Corrector.OllamaURL = v
	}
	if v := os.Getenv("ASTROLOGYAI_OLLAMA_MODEL"); v != "" {
		cfg.Corrector.Model = v
	}
	if v := os.Getenv("ASTROLOGYAI_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ASTROLOGYAI_BATCH_SIZE: %w", err)
		}
		cfg.Corrector.BatchSize = n
	}
	if v := os.Getenv("ASTROLOGYAI_BATCH_TIMEOUT"); v != "" {
		cfg.Corrector.BatchTimeout = v
	}
	if v := os.Getenv("ASTROLOGYAI_MIN_CONFIDENCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ASTROLOGYAI_MIN_CONFIDENCE: %w", err)
		}
		cfg.Extraction.MinConfidence = f
	}
	if v := os.Getenv("ASTROLOGYAI_LEXICON"); v != "" {
		cfg.Lexicon = v
	}
	return nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Store.DSN) == "" {
		return fmt.Errorf("store dsn is required")
	}
	if strings.TrimSpace(cfg.Corrector.OllamaURL) == "" {
		return fmt.Errorf("corrector ollama_url is required")
	}
	if strings.TrimSpace(cfg.Corrector.Model) == "" {
		return fmt.Errorf("corrector model is required")
	}
	if cfg.Corrector.BatchSize <= 0 {
		return fmt.Errorf("corrector batch_size must be positive")
	}
	if _, err := cfg.Corrector.BatchTimeoutDuration(); err != nil {
		return fmt.Errorf("corrector batch_timeout: %w", err)
	}
	if cfg.Extraction.MinConfidence < 0 || cfg.Extraction.MinConfidence > 1 {
		return fmt.Errorf("extraction min_confidence must be in [0,1]")
	}
	return nil
}
