package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validConfig = "project: test\nversion: 1\n" +
	"store:\n  dsn: sqlite:///tmp/rules.db\n" +
	"corrector:\n  ollama_url: http://localhost:11434\n  model: llama3\n"

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads with defaults", func(t *testing.T) {
		path := writeTempConfig(t, validConfig)
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "test" {
			t.Fatalf("expected project name, got %q", cfg.Project)
		}
		if cfg.Corrector.BatchSize != 5 {
			t.Fatalf("expected default batch_size 5, got %d", cfg.Corrector.BatchSize)
		}
		d, err := cfg.Corrector.BatchTimeoutDuration()
		if err != nil || d.Seconds() != 60 {
			t.Fatalf("expected default batch_timeout 60s, got %v (err %v)", d, err)
		}
		if cfg.Extraction.MinConfidence != 0.1 {
			t.Fatalf("expected default min_confidence 0.1, got %v", cfg.Extraction.MinConfidence)
		}
	})

	t.Run("missing project name", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nstore:\n  dsn: sqlite:///tmp/rules.db\ncorrector:\n  ollama_url: http://localhost:11434\n  model: llama3\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing store dsn", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\ncorrector:\n  ollama_url: http://localhost:11434\n  model: llama3\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing ollama url", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nstore:\n  dsn: sqlite:///tmp/rules.db\ncorrector:\n  model: llama3\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing model", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\nstore:\n  dsn: sqlite:///tmp/rules.db\ncorrector:\n  ollama_url: http://localhost:11434\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid batch timeout", func(t *testing.T) {
		path := writeTempConfig(t, validConfig+"  batch_timeout: not-a-duration\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("min confidence out of range", func(t *testing.T) {
		path := writeTempConfig(t, validConfig+"extraction:\n  min_confidence: 1.5\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempConfig(t, "project: [\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("env vars override yaml values", func(t *testing.T) {
		path := writeTempConfig(t, validConfig)
		t.Setenv("ASTROLOGYAI_STORE_DSN", "sqlite:///tmp/override.db")
		t.Setenv("ASTROLOGYAI_OLLAMA_MODEL", "mixtral")
		t.Setenv("ASTROLOGYAI_BATCH_SIZE", "9")
		t.Setenv("ASTROLOGYAI_MIN_CONFIDENCE", "0.42")

		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Store.DSN != "sqlite:///tmp/override.db" {
			t.Fatalf("expected env-overridden dsn, got %q", cfg.Store.DSN)
		}
		if cfg.Corrector.Model != "mixtral" {
			t.Fatalf("expected env-overridden model, got %q", cfg.Corrector.Model)
		}
		if cfg.Corrector.BatchSize != 9 {
			t.Fatalf("expected env-overridden batch_size, got %d", cfg.Corrector.BatchSize)
		}
		if cfg.Extraction.MinConfidence != 0.42 {
			t.Fatalf("expected env-overridden min_confidence, got %v", cfg.Extraction.MinConfidence)
		}
	})

	t.Run("invalid env override value", func(t *testing.T) {
		path := writeTempConfig(t, validConfig)
		t.Setenv("ASTROLOGYAI_BATCH_SIZE", "not-a-number")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error from invalid env override")
		}
	})
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
