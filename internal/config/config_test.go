package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model.Name != "gemma3" {
		t.Errorf("Model.Name = %s, want gemma3", cfg.Model.Name)
	}
	if cfg.Model.URL != "http://localhost:11434" {
		t.Errorf("Model.URL = %s, want http://localhost:11434", cfg.Model.URL)
	}
	if cfg.Model.TimeoutSeconds != 600 {
		t.Errorf("Model.TimeoutSeconds = %d, want 600", cfg.Model.TimeoutSeconds)
	}
	if cfg.Model.KeepAliveSeconds != 0 {
		t.Errorf("Model.KeepAliveSeconds = %d, want 0", cfg.Model.KeepAliveSeconds)
	}
	if cfg.Extract.Passes != 2 {
		t.Errorf("Extract.Passes = %d, want 2", cfg.Extract.Passes)
	}
	if cfg.Extract.Workers != 8 {
		t.Errorf("Extract.Workers = %d, want 8", cfg.Extract.Workers)
	}
	if cfg.Extract.MaxCharBuffer != 1200 {
		t.Errorf("Extract.MaxCharBuffer = %d, want 1200", cfg.Extract.MaxCharBuffer)
	}
	if !cfg.Extract.SuppressParseErrors {
		t.Error("Extract.SuppressParseErrors = false, want true")
	}
}

func TestRequestTimeout(t *testing.T) {
	cfg := &Config{Model: ModelConfig{TimeoutSeconds: 600}}
	if got := cfg.RequestTimeout(); got != 600*time.Second {
		t.Errorf("RequestTimeout() = %v, want 10m", got)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_MODEL_KEY", "secret123")
		defer os.Unsetenv("TEST_MODEL_KEY")

		result := ResolveEnvVars("${TEST_MODEL_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestNewManager(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
model:
  name: "gemma3:1b"
  url: "http://models.local:11434"
extract:
  workers: 2
`
	if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	cfg := mgr.Get()
	if cfg.Model.Name != "gemma3:1b" {
		t.Errorf("Model.Name = %s, want gemma3:1b", cfg.Model.Name)
	}
	if cfg.Model.URL != "http://models.local:11434" {
		t.Errorf("Model.URL = %s, want http://models.local:11434", cfg.Model.URL)
	}
	if cfg.Extract.Workers != 2 {
		t.Errorf("Extract.Workers = %d, want 2", cfg.Extract.Workers)
	}
	// Unset keys fall back to defaults.
	if cfg.Model.TimeoutSeconds != 600 {
		t.Errorf("Model.TimeoutSeconds = %d, want default 600", cfg.Model.TimeoutSeconds)
	}
}

func TestWriteDefault(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "gemma3") {
		t.Error("expected default model name in written config")
	}
	if !strings.Contains(content, "max_char_buffer: 1200") {
		t.Error("expected chunk buffer default in written config")
	}
}
