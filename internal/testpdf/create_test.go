package testpdf

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/rvrstfn/extractor/internal/pdf"
)

func TestKinds(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 4 {
		t.Fatalf("expected 4 kinds, got %v", kinds)
	}
	for i := 1; i < len(kinds); i++ {
		if kinds[i-1] >= kinds[i] {
			t.Errorf("kinds not sorted: %v", kinds)
		}
	}
}

func TestCreateUnknownKind(t *testing.T) {
	if err := Create("nope", filepath.Join(t.TempDir(), "out.pdf")); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestCreateMaterial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_material.pdf")
	if err := Create(KindMaterial, path); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := api.PageCountFile(path)
	if err != nil {
		t.Fatalf("PageCountFile failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 page, got %d", n)
	}

	doc, err := pdf.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !strings.Contains(doc.Text, "Glycerin USP") {
		t.Error("document text missing expected content")
	}
}

func TestCreateComprehensiveTwoPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_comprehensive.pdf")
	if err := Create(KindComprehensive, path); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := api.PageCountFile(path)
	if err != nil {
		t.Fatalf("PageCountFile failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 pages, got %d", n)
	}

	doc, err := pdf.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !strings.Contains(doc.Text, pdf.PageMarker(2)) {
		t.Error("document text missing page 2 marker")
	}
	if !strings.Contains(doc.Text, "Country of Origin: Germany") {
		t.Error("document text missing page 2 content")
	}
}
