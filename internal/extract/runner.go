// Package extract runs the chunked, multi-pass extraction pipeline over a
// document.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rvrstfn/extractor/internal/chunk"
	"github.com/rvrstfn/extractor/internal/metrics"
	"github.com/rvrstfn/extractor/internal/pdf"
	"github.com/rvrstfn/extractor/internal/prompts"
	"github.com/rvrstfn/extractor/internal/providers"
	"github.com/rvrstfn/extractor/internal/resolver"
	"github.com/rvrstfn/extractor/internal/results"
	"github.com/rvrstfn/extractor/internal/schema"
)

// Config controls a run.
type Config struct {
	Model               string
	Passes              int // Sequential extraction passes (default: 2)
	Workers             int // Concurrent chunk workers (default: 8)
	MaxCharBuffer       int // Max characters per chunk (default: 1200)
	Temperature         float64
	RequestTimeout      time.Duration // Per model call
	SuppressParseErrors bool
}

// Runner drives extraction for one schema against documents.
type Runner struct {
	client   providers.LLMClient
	schema   *schema.Schema
	builder  *prompts.Builder
	cfg      Config
	logger   *slog.Logger
	recorder *metrics.Recorder
}

// NewRunner creates a runner. A nil logger uses slog.Default; a nil recorder
// gets a fresh one.
func NewRunner(client providers.LLMClient, s *schema.Schema, cfg Config, logger *slog.Logger, recorder *metrics.Recorder) (*Runner, error) {
	if cfg.Passes <= 0 {
		cfg.Passes = 2
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.MaxCharBuffer <= 0 {
		cfg.MaxCharBuffer = chunk.DefaultMaxChars
	}
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}

	builder, err := prompts.NewBuilder(s)
	if err != nil {
		return nil, err
	}

	return &Runner{
		client:   client,
		schema:   s,
		builder:  builder,
		cfg:      cfg,
		logger:   logger.With("schema", s.Name),
		recorder: recorder,
	}, nil
}

// Recorder returns the runner's metrics recorder.
func (r *Runner) Recorder() *metrics.Recorder {
	return r.recorder
}

// Run extracts facts from the document and assembles the output.
func (r *Runner) Run(ctx context.Context, doc *pdf.Document) (*results.Document, error) {
	start := time.Now()

	chunks := chunk.Split(doc, r.cfg.MaxCharBuffer)
	r.logger.Info("starting extraction",
		"document", doc.ID,
		"pages", len(doc.Pages),
		"chunks", len(chunks),
		"passes", r.cfg.Passes,
		"workers", r.cfg.Workers,
		"prompt_fingerprint", r.builder.Fingerprint()[:12],
	)

	res := &resolver.Resolver{SuppressParseErrors: r.cfg.SuppressParseErrors}

	passes := make([][]resolver.Extraction, 0, r.cfg.Passes)
	for pass := 1; pass <= r.cfg.Passes; pass++ {
		exts, err := r.runPass(ctx, pass, doc, chunks, res)
		if err != nil {
			return nil, fmt.Errorf("pass %d failed: %w", pass, err)
		}
		r.logger.Info("pass complete", "pass", pass, "extractions", len(exts))
		passes = append(passes, exts)
	}

	merged := mergePasses(passes)

	out := &results.Document{
		SchemaInfo: &results.SchemaInfo{
			Name:           r.schema.Name,
			Description:    r.schema.Description,
			ExtractionTime: results.Now(),
		},
		Extractions: make([]results.Extraction, 0, len(merged)),
	}

	for _, ext := range merged {
		rec := results.Extraction{
			ExtractionClass: ext.ExtractionClass,
			ExtractionText:  ext.ExtractionText,
			Attributes:      ext.Attributes,
			DocumentID:      doc.ID,
			Page:            ext.Page,
		}
		if ext.CharStart >= 0 {
			rec.CharInterval = &results.CharInterval{StartPos: ext.CharStart, EndPos: ext.CharEnd}
		}
		out.Extractions = append(out.Extractions, rec)
	}

	sum := r.recorder.Summary()
	out.Summary = &results.Summary{
		TotalExtractions: len(out.Extractions),
		Chunks:           len(chunks),
		Passes:           r.cfg.Passes,
		ModelCalls:       sum.Count,
		FailedCalls:      sum.ErrorCount,
		TotalTokens:      sum.TotalTokens,
		DurationSeconds:  time.Since(start).Seconds(),
	}

	r.logger.Info("extraction complete",
		"document", doc.ID,
		"extractions", len(out.Extractions),
		"model_calls", sum.Count,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return out, nil
}

// runPass processes every chunk once through a shared-queue worker pool.
func (r *Runner) runPass(ctx context.Context, pass int, doc *pdf.Document, chunks []chunk.Chunk, res *resolver.Resolver) ([]resolver.Extraction, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	perChunk := make([][]resolver.Extraction, len(chunks))
	errs := make([]error, len(chunks))

	var wg sync.WaitGroup
	workers := r.cfg.Workers
	if workers > len(chunks) {
		workers = len(chunks)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				exts, err := r.processChunk(ctx, pass, doc, chunks[idx], res)
				if err != nil {
					errs[idx] = err
					cancel()
					continue
				}
				perChunk[idx] = exts
			}
		}()
	}

	for idx := range chunks {
		select {
		case jobs <- idx:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	if err := passError(errs); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []resolver.Extraction
	for _, exts := range perChunk {
		all = append(all, exts...)
	}
	return all, nil
}

// passError picks the error to report for a failed pass. The first failure
// cancels the pass, so sibling chunks may record the cancellation rather than
// the root cause; prefer a non-cancellation error when one exists.
func passError(errs []error) error {
	var cancelled error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, context.Canceled) {
			return err
		}
		if cancelled == nil {
			cancelled = err
		}
	}
	return cancelled
}

// processChunk makes one model call and aligns the parsed extractions.
func (r *Runner) processChunk(ctx context.Context, pass int, doc *pdf.Document, c chunk.Chunk, res *resolver.Resolver) ([]resolver.Extraction, error) {
	requestID := uuid.New().String()

	result, err := r.client.Generate(ctx, &providers.GenerateRequest{
		Prompt:      r.builder.ChunkPrompt(c.Text),
		System:      prompts.SystemPrompt(),
		Model:       r.cfg.Model,
		Temperature: r.cfg.Temperature,
		Timeout:     r.cfg.RequestTimeout,
		RequestID:   requestID,
	})

	call := metrics.Call{
		Provider:   r.client.Name(),
		Model:      r.cfg.Model,
		RequestID:  requestID,
		Pass:       pass,
		ChunkIndex: c.Index,
	}
	if result != nil {
		call.PromptTokens = result.PromptTokens
		call.TotalTokens = result.TotalTokens
		call.ExecutionTime = result.ExecutionTime
		call.Attempts = result.Attempts
		call.Success = result.Success
		call.ErrorType = result.ErrorType
	}
	r.recorder.Record(call)

	if err != nil {
		r.logger.Error("model call failed",
			"chunk", c.Index,
			"pass", pass,
			"request_id", requestID,
			"error", err,
		)
		return nil, fmt.Errorf("chunk %d: %w", c.Index, err)
	}

	exts, err := res.Resolve(result.Content)
	if err != nil {
		return nil, fmt.Errorf("chunk %d: %w", c.Index, err)
	}
	if len(exts) == 0 {
		return nil, nil
	}

	resolver.Align(exts, c.Text, c.Start, doc)

	aligned := 0
	for _, ext := range exts {
		if ext.CharStart >= 0 {
			aligned++
		}
	}
	r.logger.Debug("chunk processed",
		"chunk", c.Index,
		"pass", pass,
		"extractions", len(exts),
		"aligned", aligned,
	)

	return exts, nil
}
