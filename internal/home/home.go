package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the extractor home directory.
	DefaultDirName = ".extractor"

	// SchemasDirName is the subdirectory for extraction schema files.
	SchemasDirName = "schemas"

	// ResultsDirName is the subdirectory for extraction result files.
	ResultsDirName = "results"

	// OllamaDirName is the subdirectory mounted into the managed Ollama
	// container for model storage.
	OllamaDirName = "ollama"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the extractor home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.extractor).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// SchemasPath returns the path to the schemas directory.
func (d *Dir) SchemasPath() string {
	return filepath.Join(d.path, SchemasDirName)
}

// ResultsPath returns the path to the results directory.
func (d *Dir) ResultsPath() string {
	return filepath.Join(d.path, ResultsDirName)
}

// OllamaPath returns the host path mounted into the Ollama container.
func (d *Dir) OllamaPath() string {
	return filepath.Join(d.path, OllamaDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// ResultPath returns the default output path for a document's results.
// The document's base name is used with a .json extension.
func (d *Dir) ResultPath(docName string) string {
	base := filepath.Base(docName)
	ext := filepath.Ext(base)
	return filepath.Join(d.ResultsPath(), base[:len(base)-len(ext)]+".json")
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, p := range []string{d.SchemasPath(), d.ResultsPath(), d.OllamaPath()} {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", p, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
