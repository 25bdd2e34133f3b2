package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// ModelConfig holds settings for the model server connection.
type ModelConfig struct {
	// Provider selects the client implementation: "ollama" or "openai".
	Provider string `mapstructure:"provider" yaml:"provider"`
	// Name is the model tag, e.g. "gemma3" or "gemma3:1b".
	Name string `mapstructure:"name" yaml:"name"`
	// URL is the model server base URL.
	URL string `mapstructure:"url" yaml:"url"`
	// APIKey is only used by OpenAI-compatible servers. Supports ${ENV_VAR}.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	// TimeoutSeconds is the per-request timeout. Local models can take
	// minutes on long chunks, so this defaults to 600.
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	// KeepAliveSeconds is Ollama's keep_alive. Zero unloads the model after
	// each request, trading latency for memory headroom.
	KeepAliveSeconds int `mapstructure:"keep_alive_seconds" yaml:"keep_alive_seconds"`
	// MaxRetries is the retry budget per request.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
	// RateLimit is requests per minute against the server.
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit"`
	// Temperature for generation. Extraction wants it low.
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
}

// ExtractConfig holds settings for the extraction run itself.
type ExtractConfig struct {
	// Passes is the number of extraction passes over the document.
	Passes int `mapstructure:"passes" yaml:"passes"`
	// Workers is the number of concurrent chunk workers.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// MaxCharBuffer caps the characters of document text per model call.
	MaxCharBuffer int `mapstructure:"max_char_buffer" yaml:"max_char_buffer"`
	// SuppressParseErrors drops unparseable model responses instead of
	// failing the run.
	SuppressParseErrors bool `mapstructure:"suppress_parse_errors" yaml:"suppress_parse_errors"`
}

// OllamaContainerConfig configures the docker-managed Ollama server.
type OllamaContainerConfig struct {
	Image         string `mapstructure:"image" yaml:"image"`
	ContainerName string `mapstructure:"container_name" yaml:"container_name"`
	HostPort      string `mapstructure:"host_port" yaml:"host_port"`
}

// Config is the top-level application configuration.
type Config struct {
	Model   ModelConfig           `mapstructure:"model" yaml:"model"`
	Extract ExtractConfig         `mapstructure:"extract" yaml:"extract"`
	Ollama  OllamaContainerConfig `mapstructure:"ollama" yaml:"ollama"`
}

// RequestTimeout returns the model request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Model.TimeoutSeconds) * time.Second
}

// ResolvedAPIKey returns the model API key with ${ENV_VAR} references expanded.
func (c *Config) ResolvedAPIKey() string {
	return ResolveEnvVars(c.Model.APIKey)
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("model", defaults.Model)
	viper.SetDefault("extract", defaults.Extract)
	viper.SetDefault("ollama", defaults.Ollama)

	// Environment variables with EXTRACTOR_ prefix
	viper.SetEnvPrefix("EXTRACTOR")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.extractor")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Extractor configuration
# model.api_key may use ${ENV_VAR} syntax to reference environment variables.
# All keys can be overridden with EXTRACTOR_* environment variables.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
