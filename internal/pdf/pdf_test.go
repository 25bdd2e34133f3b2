package pdf

import (
	"strings"
	"testing"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("/tmp/dossier.pdf", []string{
		"Material Safety Data Sheet\nProduct: Glycerin USP",
		"REACH Registration: 01-2119471987-18-0000",
	})

	if doc.ID != "dossier" {
		t.Errorf("ID = %s, want dossier", doc.ID)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("len(Pages) = %d, want 2", len(doc.Pages))
	}
	if !strings.Contains(doc.Text, "===== PAGE 1 =====") {
		t.Error("expected page 1 marker in text")
	}
	if !strings.Contains(doc.Text, "===== PAGE 2 =====") {
		t.Error("expected page 2 marker in text")
	}
	if strings.Index(doc.Text, "Glycerin") > strings.Index(doc.Text, "PAGE 2") {
		t.Error("page 1 content should precede page 2 marker")
	}

	// Spans are contiguous and cover the whole text.
	if doc.Pages[0].Start != 0 {
		t.Errorf("page 1 Start = %d, want 0", doc.Pages[0].Start)
	}
	if doc.Pages[0].End != doc.Pages[1].Start {
		t.Errorf("page spans not contiguous: %d != %d", doc.Pages[0].End, doc.Pages[1].Start)
	}
	if doc.Pages[1].End != len(doc.Text) {
		t.Errorf("final page End = %d, want %d", doc.Pages[1].End, len(doc.Text))
	}
}

func TestPageForOffset(t *testing.T) {
	doc := NewDocument("x.pdf", []string{"first page text", "second page text"})

	tests := []struct {
		name string
		off  int
		want int
	}{
		{"start of document", 0, 1},
		{"inside page one text", strings.Index(doc.Text, "first"), 1},
		{"inside page two text", strings.Index(doc.Text, "second"), 2},
		{"negative offset", -1, 0},
		{"past end", len(doc.Text), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.PageForOffset(tt.off); got != tt.want {
				t.Errorf("PageForOffset(%d) = %d, want %d", tt.off, got, tt.want)
			}
		})
	}
}

func TestDocumentID(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/data/glycerin usp.pdf", "glycerin usp"},
		{"report.PDF", "report"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := DocumentID(tt.path); got != tt.want {
			t.Errorf("DocumentID(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/file.pdf"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
