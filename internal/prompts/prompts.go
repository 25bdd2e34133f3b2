// Package prompts renders extraction prompts from schema definitions.
package prompts

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/rvrstfn/extractor/internal/schema"
)

//go:embed assets/system.tmpl
var systemPrompt string

//go:embed assets/extraction.tmpl
var extractionTmpl string

var extractionTemplate = template.Must(template.New("extraction").Parse(extractionTmpl))

// SystemPrompt returns the system prompt for extraction requests.
func SystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}

// Builder renders prompts for a single schema. Instructions and examples are
// rendered once and reused across chunks.
type Builder struct {
	schema       *schema.Schema
	instructions string
	examples     string
	fingerprint  string
}

// NewBuilder creates a prompt builder for the given schema.
func NewBuilder(s *schema.Schema) (*Builder, error) {
	instructions, err := renderInstructions(s)
	if err != nil {
		return nil, fmt.Errorf("failed to render instructions: %w", err)
	}
	examples, err := renderExamples(s)
	if err != nil {
		return nil, fmt.Errorf("failed to render examples: %w", err)
	}
	return &Builder{
		schema:       s,
		instructions: instructions,
		examples:     examples,
		fingerprint:  HashText(instructions + "\n" + examples),
	}, nil
}

// Fingerprint identifies the rendered prompt content, so runs against the
// same document can be compared across schema edits.
func (b *Builder) Fingerprint() string {
	return b.fingerprint
}

// Instructions returns the schema-derived extraction instructions.
func (b *Builder) Instructions() string {
	return b.instructions
}

// ChunkPrompt builds the full prompt for one chunk of document text:
// instructions, few-shot examples from the schema, then the chunk as the
// final question.
func (b *Builder) ChunkPrompt(chunkText string) string {
	var sb strings.Builder
	sb.WriteString(b.instructions)
	sb.WriteString("\n\n")
	if b.examples != "" {
		sb.WriteString(b.examples)
	}
	sb.WriteString("Q: ")
	sb.WriteString(chunkText)
	sb.WriteString("\nA: ")
	return sb.String()
}

// view types for template execution

type requirementView struct {
	Description string
	Required    bool
	Keywords    string
}

type categoryView struct {
	Name         string
	Requirements []requirementView
}

type attributeView struct {
	Name string
	Type string
}

type promptView struct {
	Name            string
	Description     string
	Categories      []categoryView
	ExtractionClass string
	Attributes      []attributeView
}

func renderInstructions(s *schema.Schema) (string, error) {
	view := promptView{
		Name:            strings.ToLower(s.Name),
		Description:     s.Description,
		ExtractionClass: s.ExtractionClass(),
	}

	for _, catName := range s.CategoryNames() {
		cat := s.Categories[catName]
		cv := categoryView{Name: strings.ToUpper(catName)}

		reqNames := make([]string, 0, len(cat))
		for name := range cat {
			reqNames = append(reqNames, name)
		}
		sort.Strings(reqNames)

		for _, name := range reqNames {
			req := cat[name]
			cv.Requirements = append(cv.Requirements, requirementView{
				Description: req.Description,
				Required:    req.Required,
				Keywords:    strings.Join(req.Keywords, ", "),
			})
		}
		view.Categories = append(view.Categories, cv)
	}

	if s.OutputFormat != nil {
		attrNames := make([]string, 0, len(s.OutputFormat.AttributesSchema))
		for name := range s.OutputFormat.AttributesSchema {
			attrNames = append(attrNames, name)
		}
		sort.Strings(attrNames)
		for _, name := range attrNames {
			view.Attributes = append(view.Attributes, attributeView{
				Name: name,
				Type: s.OutputFormat.AttributesSchema[name],
			})
		}
	}

	var buf bytes.Buffer
	if err := extractionTemplate.Execute(&buf, view); err != nil {
		return "", err
	}

	out := strings.TrimSpace(buf.String())
	// Schema text is template data, so a variable reference surviving into
	// the output means the schema itself contains template syntax.
	if leftover := ExtractVariables(out); len(leftover) > 0 {
		return "", fmt.Errorf("schema text contains unexpanded template variables: %s", strings.Join(leftover, ", "))
	}
	return out, nil
}

// renderExamples formats the schema's few-shot examples as Q/A pairs with the
// expected extractions JSON as the answer.
func renderExamples(s *schema.Schema) (string, error) {
	if len(s.Examples) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("Examples\n\n")

	for _, ex := range s.Examples {
		answer := struct {
			Extractions []schema.ExampleExtraction `json:"extractions"`
		}{Extractions: ex.Extractions}

		data, err := json.Marshal(answer)
		if err != nil {
			return "", fmt.Errorf("failed to marshal example extractions: %w", err)
		}

		sb.WriteString("Q: ")
		sb.WriteString(ex.Text)
		sb.WriteString("\nA: ")
		sb.Write(data)
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}
