package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
)

const (
	OllamaName    = "ollama"
	OllamaBaseURL = "http://localhost:11434"
)

// OllamaConfig holds configuration for the Ollama client.
type OllamaConfig struct {
	BaseURL      string
	DefaultModel string
	// Timeout is the per-request budget. Local models can take minutes on a
	// long chunk, so the default is 600s rather than a typical HTTP timeout.
	Timeout time.Duration
	// KeepAlive controls how long Ollama keeps the model loaded after a
	// request. Zero forces a reload each call, which avoids exhausting
	// memory on small machines at the cost of load latency.
	KeepAlive  time.Duration
	MaxRetries int           // Max retry attempts (default: 3)
	RetryDelay time.Duration // Base delay between retries (default: 1s)
	RateLimit  int           // Requests per minute (0 = unlimited)
}

// OllamaClient implements LLMClient against Ollama's native generate API.
type OllamaClient struct {
	baseURL      string
	defaultModel string
	keepAlive    time.Duration
	timeout      time.Duration
	client       *http.Client
	maxRetries   int
	retryDelay   time.Duration
	limiter      *RateLimiter
}

// NewOllamaClient creates a new Ollama client.
func NewOllamaClient(cfg OllamaConfig) *OllamaClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OllamaBaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = "gemma3"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 600 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}

	var limiter *RateLimiter
	if cfg.RateLimit > 0 {
		limiter = NewRateLimiter(cfg.RateLimit)
	}

	return &OllamaClient{
		baseURL:      cfg.BaseURL,
		defaultModel: cfg.DefaultModel,
		keepAlive:    cfg.KeepAlive,
		timeout:      cfg.Timeout,
		// Timeout comes from a per-request context so a retry after a slow
		// attempt gets a fresh budget.
		client:     &http.Client{},
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		limiter:    limiter,
	}
}

// Name returns the client identifier.
func (c *OllamaClient) Name() string {
	return OllamaName
}

// Generate sends a generation request to Ollama.
func (c *OllamaClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	oReq := ollamaGenerateRequest{
		Model:     model,
		Prompt:    req.Prompt,
		System:    req.System,
		Stream:    false,
		KeepAlive: int(c.keepAlive.Seconds()),
		Options: ollamaOptions{
			Temperature: req.Temperature,
		},
	}

	result := &GenerateResult{
		RequestID: requestID,
		Provider:  OllamaName,
	}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = c.timeout
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			result.ExecutionTime = time.Since(start)
			result.Success = false
			result.ErrorType = classifyError(err)
			result.ErrorMessage = err.Error()
			return result, err
		}
	}

	oResp, attempts, err := c.doRequest(ctx, "/api/generate", &oReq, timeout)
	result.Attempts = attempts
	result.ExecutionTime = time.Since(start)
	if err != nil {
		result.Success = false
		result.ErrorType = classifyError(err)
		result.ErrorMessage = err.Error()
		return result, err
	}

	result.Success = true
	result.Content = oResp.Response
	result.ModelUsed = oResp.Model
	result.PromptTokens = oResp.PromptEvalCount
	result.CompletionTokens = oResp.EvalCount
	result.TotalTokens = oResp.PromptEvalCount + oResp.EvalCount

	return result, nil
}

// Ping checks that the Ollama server is reachable.
func (c *OllamaClient) Ping(ctx context.Context) error {
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/tags", nil)
			if err != nil {
				return err
			}
			resp, err := c.client.Do(req)
			if err != nil {
				return err
			}
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unhealthy status: %d", resp.StatusCode)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
	)
}

// doRequest makes an HTTP request to Ollama with retry logic.
// Returns the response, the number of attempts made, and the final error.
func (c *OllamaClient) doRequest(ctx context.Context, path string, body *ollamaGenerateRequest, timeout time.Duration) (*ollamaGenerateResponse, int, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, attempt, err
		}

		oResp, err := c.doAttempt(ctx, path, bodyBytes, timeout)
		if err == nil {
			return oResp, attempt + 1, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return nil, attempt + 1, err
		}
		c.sleepWithJitter(ctx, attempt)
	}

	return nil, c.maxRetries, fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

func (c *OllamaClient) doAttempt(ctx context.Context, path string, body []byte, timeout time.Duration) (*ollamaGenerateResponse, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		sErr := &statusError{code: resp.StatusCode, body: string(respBody)}
		return nil, sErr
	}

	var oResp ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &oResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if oResp.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", oResp.Error)
	}

	return &oResp, nil
}

// sleepWithJitter sleeps with exponential backoff and jitter, respecting
// context cancellation.
func (c *OllamaClient) sleepWithJitter(ctx context.Context, attempt int) {
	baseDelay := c.retryDelay * time.Duration(1<<attempt)
	if baseDelay > 10*time.Second {
		baseDelay = 10 * time.Second
	}

	// Jitter: -20% to +30%
	jitter := time.Duration(float64(baseDelay) * (0.8 + 0.5*float64(time.Now().UnixNano()%1000)/1000))

	select {
	case <-ctx.Done():
	case <-time.After(jitter):
	}
}

// transportError wraps network-level failures (retryable).
type transportError struct {
	err error
}

func (e *transportError) Error() string { return fmt.Sprintf("request failed: %v", e.err) }
func (e *transportError) Unwrap() error { return e.err }

// statusError carries a non-200 HTTP response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ollama error (status %d): %s", e.code, e.body)
}

func isRetryable(err error) bool {
	if sErr, ok := err.(*statusError); ok {
		return sErr.code == http.StatusTooManyRequests || sErr.code >= 500
	}
	if _, ok := err.(*transportError); ok {
		return true
	}
	return false
}

func classifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		var sErr *statusError
		if errors.As(err, &sErr) {
			return "http_error"
		}
		return "request_error"
	}
}

// Ollama API types

type ollamaGenerateRequest struct {
	Model     string        `json:"model"`
	Prompt    string        `json:"prompt"`
	System    string        `json:"system,omitempty"`
	Stream    bool          `json:"stream"`
	KeepAlive int           `json:"keep_alive"`
	Options   ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
}

type ollamaGenerateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	Error           string `json:"error,omitempty"`
}

// Verify interface
var _ LLMClient = (*OllamaClient)(nil)
