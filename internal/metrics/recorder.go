// Package metrics records model call statistics for a single extraction run.
package metrics

import (
	"sync"
	"time"
)

// Call is one model invocation.
type Call struct {
	Provider      string        `json:"provider"`
	Model         string        `json:"model"`
	RequestID     string        `json:"request_id"`
	Pass          int           `json:"pass"`
	ChunkIndex    int           `json:"chunk_index"`
	PromptTokens  int           `json:"prompt_tokens"`
	TotalTokens   int           `json:"total_tokens"`
	ExecutionTime time.Duration `json:"execution_time"`
	Attempts      int           `json:"attempts"`
	Success       bool          `json:"success"`
	ErrorType     string        `json:"error_type,omitempty"`
}

// Summary aggregates a run's calls.
type Summary struct {
	Count          int            `json:"count"`
	SuccessCount   int            `json:"success_count"`
	ErrorCount     int            `json:"error_count"`
	TotalTokens    int            `json:"total_tokens"`
	TotalTime      time.Duration  `json:"total_time"`
	AvgTokens      float64        `json:"avg_tokens"`
	AvgTimeSeconds float64        `json:"avg_time_seconds"`
	ErrorsByType   map[string]int `json:"errors_by_type,omitempty"`
}

// Recorder collects call metrics in memory. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record stores one call.
func (r *Recorder) Record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

// Calls returns a copy of all recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Summary aggregates all recorded calls.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Summary{Count: len(r.calls)}
	for _, c := range r.calls {
		s.TotalTokens += c.TotalTokens
		s.TotalTime += c.ExecutionTime
		if c.Success {
			s.SuccessCount++
		} else {
			s.ErrorCount++
			if s.ErrorsByType == nil {
				s.ErrorsByType = make(map[string]int)
			}
			s.ErrorsByType[c.ErrorType]++
		}
	}

	if s.Count > 0 {
		s.AvgTokens = float64(s.TotalTokens) / float64(s.Count)
		s.AvgTimeSeconds = s.TotalTime.Seconds() / float64(s.Count)
	}

	return s
}
