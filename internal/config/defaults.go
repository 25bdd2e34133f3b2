package config

// DefaultConfig returns the built-in configuration defaults.
//
// The model defaults target a local Ollama server running gemma3. The 600s
// timeout and keep_alive of zero exist because small local machines need the
// model unloaded between calls and can take minutes per chunk when swapping.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Provider:         "ollama",
			Name:             "gemma3",
			URL:              "http://localhost:11434",
			TimeoutSeconds:   600,
			KeepAliveSeconds: 0,
			MaxRetries:       3,
			RateLimit:        60,
			Temperature:      0.1,
		},
		Extract: ExtractConfig{
			Passes:              2,
			Workers:             8,
			MaxCharBuffer:       1200,
			SuppressParseErrors: true,
		},
		Ollama: OllamaContainerConfig{
			Image:         "ollama/ollama:latest",
			ContainerName: "extractor-ollama",
			HostPort:      "11434",
		},
	}
}
