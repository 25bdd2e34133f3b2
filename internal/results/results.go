// Package results defines the extraction output document and its persistence.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SchemaInfo echoes the schema a document was extracted with.
type SchemaInfo struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	ExtractionTime string `json:"extraction_time,omitempty"`
}

// CharInterval is a half-open [start, end) span in the assembled document
// text.
type CharInterval struct {
	StartPos int `json:"start_pos"`
	EndPos   int `json:"end_pos"`
}

// Extraction is one located fact in the output document.
type Extraction struct {
	ExtractionClass string         `json:"extraction_class"`
	ExtractionText  string         `json:"extraction_text"`
	Attributes      map[string]any `json:"attributes,omitempty"`
	DocumentID      string         `json:"document_id"`
	Page            int            `json:"page,omitempty"`
	CharInterval    *CharInterval  `json:"char_interval,omitempty"`
}

// Summary describes a completed run.
type Summary struct {
	TotalExtractions int     `json:"total_extractions"`
	Chunks           int     `json:"chunks,omitempty"`
	Passes           int     `json:"passes,omitempty"`
	ModelCalls       int     `json:"model_calls,omitempty"`
	FailedCalls      int     `json:"failed_calls,omitempty"`
	TotalTokens      int     `json:"total_tokens,omitempty"`
	DurationSeconds  float64 `json:"duration_seconds,omitempty"`
}

// Document is the full extraction result written to disk.
type Document struct {
	SchemaInfo  *SchemaInfo  `json:"schema_info,omitempty"`
	Extractions []Extraction `json:"extractions"`
	Summary     *Summary     `json:"summary,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// Now returns the current time formatted for SchemaInfo.ExtractionTime.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Save writes the document as indented JSON. The write is atomic: a temp
// file in the same directory is renamed over the target.
func Save(doc *Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".results-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move results into place: %w", err)
	}
	return nil
}

// Load reads a results document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	return &doc, nil
}
