// Package pdf extracts page-wise plain text from PDF files.
//
// Extracted text carries explicit page markers so the model can ground its
// findings to a page, and the document tracks character offsets so aligned
// extractions can be attributed back to pages without trusting the model.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pageMarkerFormat is the marker injected before each page's text. Prompts
// tell the model it can read page numbers from these lines.
const pageMarkerFormat = "\n\n===== PAGE %d =====\n"

// PageMarker returns the marker line injected before a page's text.
func PageMarker(n int) string {
	return fmt.Sprintf(pageMarkerFormat, n)
}

// Page is one page of extracted text with its character span in the
// assembled document text.
type Page struct {
	Number int    // 1-indexed page number
	Text   string // page text without the marker
	Start  int    // offset of the marker in Document.Text
	End    int    // offset one past the last character of this page's text
}

// Document is the assembled, marker-annotated text of a PDF.
type Document struct {
	Path  string
	ID    string // base file name without extension
	Pages []Page
	Text  string
}

// Load reads a PDF and returns its page-annotated text.
func Load(path string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("PDF file not found: %w", err)
	}

	// Cheap structural check before handing the file to the text extractor.
	if _, err := api.PageCountFile(path); err != nil {
		return nil, fmt.Errorf("not a readable PDF %s: %w", path, err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	numPages := r.NumPage()
	pageTexts := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pageTexts = append(pageTexts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Keep the page so numbering stays aligned with the source.
			pageTexts = append(pageTexts, "")
			continue
		}
		pageTexts = append(pageTexts, text)
	}

	doc := NewDocument(path, pageTexts)
	if strings.TrimSpace(stripMarkers(doc)) == "" {
		return nil, fmt.Errorf("no text extracted from %s: document may be scanned or image-based", path)
	}
	return doc, nil
}

// NewDocument assembles a Document from per-page text, injecting page
// markers and recording character spans.
func NewDocument(path string, pageTexts []string) *Document {
	doc := &Document{
		Path:  path,
		ID:    DocumentID(path),
		Pages: make([]Page, 0, len(pageTexts)),
	}

	var sb strings.Builder
	for i, text := range pageTexts {
		start := sb.Len()
		sb.WriteString(PageMarker(i + 1))
		sb.WriteString(text)
		doc.Pages = append(doc.Pages, Page{
			Number: i + 1,
			Text:   text,
			Start:  start,
			End:    sb.Len(),
		})
	}

	doc.Text = sb.String()
	return doc
}

// PageForOffset returns the 1-indexed page containing the given character
// offset of Document.Text, or 0 if the offset is out of range.
func (d *Document) PageForOffset(off int) int {
	if off < 0 || off >= len(d.Text) {
		return 0
	}
	for _, p := range d.Pages {
		if off < p.End {
			return p.Number
		}
	}
	return 0
}

// DocumentID derives a stable document identifier from a file path.
func DocumentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func stripMarkers(d *Document) string {
	var sb strings.Builder
	for _, p := range d.Pages {
		sb.WriteString(p.Text)
	}
	return sb.String()
}
