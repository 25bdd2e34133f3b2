package main

import (
	"testing"

	"github.com/rvrstfn/extractor/internal/config"
	"github.com/rvrstfn/extractor/internal/providers"
)

func TestGetClient(t *testing.T) {
	cfg := &config.Config{
		Model: config.ModelConfig{
			Provider:       "ollama",
			Name:           "gemma3",
			URL:            "http://localhost:11434",
			TimeoutSeconds: 5,
			RateLimit:      60,
		},
	}

	first, err := getClient(cfg)
	if err != nil {
		t.Fatalf("getClient failed: %v", err)
	}
	if first.Name() != providers.OllamaName {
		t.Errorf("client name = %s, want %s", first.Name(), providers.OllamaName)
	}

	second, err := getClient(cfg)
	if err != nil {
		t.Fatalf("getClient failed: %v", err)
	}
	if first != second {
		t.Error("expected the registry to return the same client instance")
	}

	found := false
	for _, name := range clientRegistry.List() {
		if name == providers.OllamaName {
			found = true
		}
	}
	if !found {
		t.Errorf("registry does not list %s: %v", providers.OllamaName, clientRegistry.List())
	}
}
