package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		d, err := New("/tmp/extractor-test")
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if d.Path() != "/tmp/extractor-test" {
			t.Errorf("Path() = %s, want /tmp/extractor-test", d.Path())
		}
	})

	t.Run("default path uses home dir", func(t *testing.T) {
		d, err := New("")
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		home, _ := os.UserHomeDir()
		want := filepath.Join(home, DefaultDirName)
		if d.Path() != want {
			t.Errorf("Path() = %s, want %s", d.Path(), want)
		}
	})
}

func TestEnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	d, err := New(filepath.Join(tmpDir, ".extractor"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if d.Exists() {
		t.Error("Exists() = true before EnsureExists")
	}

	if err := d.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}

	for _, p := range []string{d.SchemasPath(), d.ResultsPath(), d.OllamaPath()} {
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("expected %s to be a directory", p)
		}
	}
}

func TestResultPath(t *testing.T) {
	d, _ := New("/home/user/.extractor")

	got := d.ResultPath("/data/dossiers/glycerin usp.pdf")
	want := filepath.Join("/home/user/.extractor", ResultsDirName, "glycerin usp.json")
	if got != want {
		t.Errorf("ResultPath() = %s, want %s", got, want)
	}
}
