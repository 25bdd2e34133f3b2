// Package resolver parses model output into extractions and aligns them to
// source text.
package resolver

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Extraction is a single fact located by the model. Character positions are
// filled in by alignment; CharStart is -1 when the extraction text could not
// be located in the source.
type Extraction struct {
	ExtractionClass string         `json:"extraction_class"`
	ExtractionText  string         `json:"extraction_text"`
	Attributes      map[string]any `json:"attributes,omitempty"`

	CharStart int `json:"-"`
	CharEnd   int `json:"-"`
	Page      int `json:"-"`
}

// Resolver parses raw model output into extractions.
type Resolver struct {
	// SuppressParseErrors makes Resolve return an empty slice instead of an
	// error when the output cannot be parsed. Local models produce garbage
	// often enough that one bad chunk should not fail a whole document.
	SuppressParseErrors bool
}

// envelope matches the instructed output shape.
type envelope struct {
	Extractions []Extraction `json:"extractions"`
}

// Resolve parses model output into extractions. It tolerates markdown code
// fences and prose surrounding the JSON, and accepts either the
// {"extractions": [...]} envelope or a bare array.
func (r *Resolver) Resolve(content string) ([]Extraction, error) {
	exts, err := parse(content)
	if err != nil {
		if r.SuppressParseErrors {
			return nil, nil
		}
		return nil, err
	}

	for i := range exts {
		exts[i].CharStart = -1
		exts[i].CharEnd = -1
	}
	return exts, nil
}

func parse(content string) ([]Extraction, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty model output")
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractJSONCandidate(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}

		if exts, ok := decode(candidate); ok {
			return exts, nil
		}
	}

	return nil, fmt.Errorf("failed to parse extractions from model output")
}

func decode(candidate string) ([]Extraction, bool) {
	switch candidate[0] {
	case '{':
		var env envelope
		if err := json.Unmarshal([]byte(candidate), &env); err != nil {
			return nil, false
		}
		return env.Extractions, true
	case '[':
		var exts []Extraction
		if err := json.Unmarshal([]byte(candidate), &exts); err != nil {
			return nil, false
		}
		return exts, true
	}
	return nil, false
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}

	// Drop first fence line.
	lines = lines[1:]
	// Drop trailing fence if present.
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func extractJSONCandidate(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}

	objectStart := strings.Index(trimmed, "{")
	arrayStart := strings.Index(trimmed, "[")

	start := -1
	closeChar := ""
	switch {
	case objectStart >= 0 && arrayStart >= 0:
		if objectStart < arrayStart {
			start = objectStart
			closeChar = "}"
		} else {
			start = arrayStart
			closeChar = "]"
		}
	case objectStart >= 0:
		start = objectStart
		closeChar = "}"
	case arrayStart >= 0:
		start = arrayStart
		closeChar = "]"
	default:
		return ""
	}

	end := strings.LastIndex(trimmed, closeChar)
	if end < start {
		return ""
	}
	return strings.TrimSpace(trimmed[start : end+1])
}
