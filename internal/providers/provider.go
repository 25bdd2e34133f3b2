// Package providers implements clients for model-serving APIs.
package providers

import (
	"context"
	"time"
)

// LLMClient is the interface for single-prompt generation requests.
type LLMClient interface {
	// Generate sends a prompt and returns the raw model output.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// Ping checks connectivity to the model server.
	Ping(ctx context.Context) error

	// Name returns the client identifier (e.g., "ollama").
	Name() string
}

// GenerateRequest is a request to a model server.
type GenerateRequest struct {
	// Prompt is the full user prompt, including any few-shot examples.
	Prompt string

	// System is an optional system prompt.
	System string

	// Model overrides the client default if non-empty.
	Model string

	// Temperature for generation.
	Temperature float64

	// Timeout overrides the client default request timeout if non-zero.
	Timeout time.Duration

	// RequestID tracks the request through logs and metrics.
	RequestID string
}

// GenerateResult is the complete response from a model call.
type GenerateResult struct {
	// Response content
	Content string `json:"content"`

	// Token counts (as reported by the server; zero when unavailable)
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`
	Attempts  int    `json:"attempts"`

	// Success/error
	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}
