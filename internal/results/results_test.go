package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleDoc() *Document {
	return &Document{
		SchemaInfo: &SchemaInfo{
			Name:           "Raw Materials",
			Description:    "Regulatory compliance extraction",
			ExtractionTime: Now(),
		},
		Extractions: []Extraction{
			{
				ExtractionClass: "requirement",
				ExtractionText:  "MSDS available upon request",
				Attributes:      map[string]any{"name": "msds", "status": "found"},
				DocumentID:      "glycerin_coa",
				Page:            1,
				CharInterval:    &CharInterval{StartPos: 42, EndPos: 69},
			},
		},
		Summary: &Summary{
			TotalExtractions: 1,
			Chunks:           3,
			Passes:           2,
			ModelCalls:       6,
		},
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glycerin_coa.json")

	if err := Save(sampleDoc(), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.SchemaInfo == nil || loaded.SchemaInfo.Name != "Raw Materials" {
		t.Errorf("schema info not preserved: %+v", loaded.SchemaInfo)
	}
	if len(loaded.Extractions) != 1 {
		t.Fatalf("expected 1 extraction, got %d", len(loaded.Extractions))
	}

	ext := loaded.Extractions[0]
	if ext.ExtractionText != "MSDS available upon request" {
		t.Errorf("unexpected extraction text: %q", ext.ExtractionText)
	}
	if ext.CharInterval == nil || ext.CharInterval.StartPos != 42 {
		t.Errorf("char interval not preserved: %+v", ext.CharInterval)
	}
	if ext.Page != 1 {
		t.Errorf("page not preserved: %d", ext.Page)
	}
	if loaded.Summary.ModelCalls != 6 {
		t.Errorf("summary not preserved: %+v", loaded.Summary)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")

	if err := Save(&Document{}, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("results file missing: %v", err)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := Save(sampleDoc(), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".results-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSaveErrorDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "failed.json")

	doc := &Document{
		SchemaInfo: &SchemaInfo{Name: "Raw Materials"},
		Error:      "PDF file not found",
	}
	if err := Save(doc, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Error != "PDF file not found" {
		t.Errorf("error not preserved: %q", loaded.Error)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("corrupt", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("expected error for corrupt file")
		}
	})
}
