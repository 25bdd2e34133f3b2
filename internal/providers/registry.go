package providers

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Registry holds references to LLM clients by name, providing thread-safe
// access for config-driven instantiation.
type Registry struct {
	mu         sync.RWMutex
	llmClients map[string]LLMClient
	logger     *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		llmClients: make(map[string]LLMClient),
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register registers an LLM client by name.
func (r *Registry) Register(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llmClients[name] = client
	if r.logger != nil {
		r.logger.Debug("registered LLM client", "name", name)
	}
}

// Get returns an LLM client by name.
func (r *Registry) Get(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.llmClients[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return client, nil
}

// List returns all registered LLM client names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.llmClients))
	for name := range r.llmClients {
		names = append(names, name)
	}
	return names
}

// ClientConfig describes a provider to instantiate from config.
type ClientConfig struct {
	Type       string // "ollama" or "openai"
	Model      string
	URL        string
	APIKey     string // Resolved API key (openai only)
	Timeout    int    // Seconds
	KeepAlive  int    // Seconds (ollama only)
	MaxRetries int
	RateLimit  int // Requests per minute (0 = unlimited)
}

// NewClientFromConfig creates an LLM client based on provider type.
func NewClientFromConfig(cfg ClientConfig) (LLMClient, error) {
	switch cfg.Type {
	case "ollama", "":
		return NewOllamaClient(OllamaConfig{
			BaseURL:      cfg.URL,
			DefaultModel: cfg.Model,
			Timeout:      time.Duration(cfg.Timeout) * time.Second,
			KeepAlive:    time.Duration(cfg.KeepAlive) * time.Second,
			MaxRetries:   cfg.MaxRetries,
			RateLimit:    cfg.RateLimit,
		}), nil
	case "openai":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.URL,
			DefaultModel: cfg.Model,
			Timeout:      time.Duration(cfg.Timeout) * time.Second,
			MaxRetries:   cfg.MaxRetries,
			RateLimit:    cfg.RateLimit,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}
