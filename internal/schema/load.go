package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed meta.schema.json
var metaSchemaRaw []byte

// metaSchema validates the structure of extraction schema files.
var metaSchema = mustCompileMeta()

func mustCompileMeta() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("meta.schema.json", bytes.NewReader(metaSchemaRaw)); err != nil {
		panic(fmt.Sprintf("failed to load embedded meta schema: %v", err))
	}
	s, err := compiler.Compile("meta.schema.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile embedded meta schema: %v", err))
	}
	return s
}

// Load reads and validates an extraction schema from a JSON file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid schema file %s: %w", path, err)
	}
	return s, nil
}

// Parse validates raw JSON against the meta-schema and decodes it.
func Parse(data []byte) (*Schema, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if err := metaSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	return &s, nil
}

// ListEntry pairs a schema file with its summary, or the load error.
type ListEntry struct {
	Path  string `json:"path" yaml:"path"`
	Stem  string `json:"stem" yaml:"stem"`
	Info  *Info  `json:"info,omitempty" yaml:"info,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ListDir returns summaries for all *.json schema files in a directory,
// sorted by file name. Files that fail to load are reported, not skipped.
func ListDir(dir string) ([]ListEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schemas directory: %w", err)
	}

	var out []ListEntry
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		le := ListEntry{
			Path: path,
			Stem: strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
		}
		s, err := Load(path)
		if err != nil {
			le.Error = err.Error()
		} else {
			info := s.Info()
			le.Info = &info
		}
		out = append(out, le)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Stem < out[j].Stem })
	return out, nil
}
