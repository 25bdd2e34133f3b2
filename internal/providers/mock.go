package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// MockClient is a fake LLM client for testing. It returns canned responses
// with configurable latency and failure behavior.
type MockClient struct {
	// Latency simulates processing time per request.
	Latency time.Duration

	// ResponseText is returned for every request. If ResponseFunc is set it
	// takes precedence.
	ResponseText string

	// ResponseFunc computes the response from the prompt.
	ResponseFunc func(prompt string) string

	// ShouldFail makes every request fail.
	ShouldFail bool

	// FailAfter makes requests fail after N successful ones (0 = disabled).
	FailAfter int64

	requestCount atomic.Int64
}

// NewMockClient creates a mock client with sane defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: `{"extractions": []}`,
	}
}

// Name returns the client identifier.
func (m *MockClient) Name() string {
	return "mock"
}

// RequestCount returns the number of Generate calls made.
func (m *MockClient) RequestCount() int64 {
	return m.requestCount.Load()
}

// Generate returns the configured response.
func (m *MockClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	count := m.requestCount.Add(1)

	if m.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Latency):
		}
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	result := &GenerateResult{
		RequestID:     requestID,
		Provider:      "mock",
		ModelUsed:     req.Model,
		Attempts:      1,
		ExecutionTime: m.Latency,
	}

	if m.ShouldFail || (m.FailAfter > 0 && count > m.FailAfter) {
		result.Success = false
		result.ErrorType = "request_error"
		result.ErrorMessage = "mock failure"
		return result, fmt.Errorf("mock failure")
	}

	content := m.ResponseText
	if m.ResponseFunc != nil {
		content = m.ResponseFunc(req.Prompt)
	}

	result.Success = true
	result.Content = content
	result.PromptTokens = len(req.Prompt) / 4
	result.CompletionTokens = len(content) / 4
	result.TotalTokens = result.PromptTokens + result.CompletionTokens

	return result, nil
}

// Ping always succeeds unless ShouldFail is set.
func (m *MockClient) Ping(ctx context.Context) error {
	if m.ShouldFail {
		return fmt.Errorf("mock failure")
	}
	return nil
}

// Verify interface
var _ LLMClient = (*MockClient)(nil)
