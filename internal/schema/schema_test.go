package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validSchema = `{
  "name": "Raw Materials",
  "description": "Compliance checklist for raw material dossiers",
  "categories": {
    "safety": {
      "msds": {
        "description": "English and local language MSDS",
        "required": true,
        "keywords": ["MSDS", "safety data sheet"]
      },
      "cmr": {
        "description": "CMR-free statement"
      }
    },
    "regulatory": {
      "reach": {
        "description": "REACH declaration and registration number",
        "required": true,
        "keywords": ["REACH", "registration"]
      }
    }
  },
  "examples": [
    {
      "text": "REACH status: Registered. Registration No.: 01-2119471987-18-0000",
      "extractions": [
        {
          "extraction_class": "requirement",
          "extraction_text": "REACH status: Registered.",
          "attributes": {"name": "REACH declaration", "status": "present"}
        }
      ]
    }
  ],
  "output_format": {
    "extraction_class": "requirement",
    "attributes_schema": {"name": "string", "status": "string"}
  }
}`

func TestParse(t *testing.T) {
	t.Run("valid schema", func(t *testing.T) {
		s, err := Parse([]byte(validSchema))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if s.Name != "Raw Materials" {
			t.Errorf("Name = %s, want Raw Materials", s.Name)
		}
		if s.TotalRequirements() != 3 {
			t.Errorf("TotalRequirements() = %d, want 3", s.TotalRequirements())
		}
		if len(s.Examples) != 1 {
			t.Fatalf("len(Examples) = %d, want 1", len(s.Examples))
		}
		if s.Examples[0].Extractions[0].Attributes["status"] != "present" {
			t.Error("example extraction attributes not decoded")
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		_, err := Parse([]byte(`{"name": "x", "description": "y"}`))
		if err == nil {
			t.Fatal("expected error for schema without categories")
		}
		if !strings.Contains(err.Error(), "validation") {
			t.Errorf("error = %v, want validation failure", err)
		}
	})

	t.Run("requirement without description", func(t *testing.T) {
		_, err := Parse([]byte(`{
			"name": "x", "description": "y",
			"categories": {"cat": {"item": {"required": true}}}
		}`))
		if err == nil {
			t.Fatal("expected error for requirement without description")
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := Parse([]byte(`{not json`))
		if err == nil {
			t.Fatal("expected error for malformed JSON")
		}
	})
}

func TestExtractionClass(t *testing.T) {
	s, err := Parse([]byte(validSchema))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := s.ExtractionClass(); got != "requirement" {
		t.Errorf("ExtractionClass() = %s, want requirement", got)
	}

	s.OutputFormat = nil
	if got := s.ExtractionClass(); got != DefaultExtractionClass {
		t.Errorf("ExtractionClass() = %s, want default", got)
	}
}

func TestInfo(t *testing.T) {
	s, err := Parse([]byte(validSchema))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	info := s.Info()
	if info.TotalRequirements != 3 {
		t.Errorf("TotalRequirements = %d, want 3", info.TotalRequirements)
	}
	// Sorted order.
	if len(info.Categories) != 2 || info.Categories[0] != "regulatory" || info.Categories[1] != "safety" {
		t.Errorf("Categories = %v, want [regulatory safety]", info.Categories)
	}
}

func TestLoad(t *testing.T) {
	t.Run("file not found", func(t *testing.T) {
		_, err := Load("/nonexistent/schema.json")
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("round trip through file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "raw_materials.json")
		if err := os.WriteFile(path, []byte(validSchema), 0o644); err != nil {
			t.Fatal(err)
		}
		s, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if s.Categories["safety"]["msds"].Required != true {
			t.Error("expected msds requirement to be required")
		}
	})
}

func TestListDir(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "b_valid.json"), []byte(validSchema), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a_broken.json"), []byte(`{"name":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := ListDir(dir)
	if err != nil {
		t.Fatalf("ListDir() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Stem != "a_broken" || entries[0].Error == "" {
		t.Errorf("expected a_broken first with load error, got %+v", entries[0])
	}
	if entries[1].Stem != "b_valid" || entries[1].Info == nil {
		t.Errorf("expected b_valid with info, got %+v", entries[1])
	}
}
