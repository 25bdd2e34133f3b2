package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rvrstfn/extractor/internal/extract"
	"github.com/rvrstfn/extractor/internal/pdf"
	"github.com/rvrstfn/extractor/internal/results"
	"github.com/rvrstfn/extractor/internal/schema"
)

var (
	extractModel   string
	extractURL     string
	extractPasses  int
	extractWorkers int
	extractBuffer  int
)

var extractCmd = &cobra.Command{
	Use:   "extract <schema.json> <document.pdf> [output.json]",
	Short: "Extract compliance facts from a PDF document",
	Long: `Extract compliance facts from a PDF document using a JSON schema.

The document text is read page by page, split into chunks, and each chunk
is sent to the model with schema-derived instructions and few-shot examples.
Extractions are aligned back to the source text so every fact carries a page
number and character interval.

If output.json is omitted, results are written to
~/.extractor/results/<document>.json.

Examples:
  extractor extract schemas/raw_materials.json supplier_coa.pdf
  extractor extract schemas/food_grade.json cert.pdf out.json --model gemma3:12b
  extractor extract schemas/cosmetics_basic.json msds.pdf --passes 1 --workers 4`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		schemaPath, pdfPath := args[0], args[1]

		cfg, err := getConfig()
		if err != nil {
			return err
		}

		// Flags override config.
		if extractModel != "" {
			cfg.Model.Name = extractModel
		}
		if extractURL != "" {
			cfg.Model.URL = extractURL
		}
		if cmd.Flags().Changed("passes") {
			cfg.Extract.Passes = extractPasses
		}
		if cmd.Flags().Changed("workers") {
			cfg.Extract.Workers = extractWorkers
		}
		if cmd.Flags().Changed("buffer") {
			cfg.Extract.MaxCharBuffer = extractBuffer
		}

		outputPath := ""
		if len(args) == 3 {
			outputPath = args[2]
		} else {
			h, err := getHome()
			if err != nil {
				return err
			}
			if err := h.EnsureExists(); err != nil {
				return err
			}
			outputPath = h.ResultPath(pdfPath)
		}

		s, err := schema.Load(schemaPath)
		if err != nil {
			return err
		}
		fmt.Printf("Schema: %s (%d requirements in %d categories)\n",
			s.Name, s.TotalRequirements(), len(s.Categories))

		client, err := getClient(cfg)
		if err != nil {
			return err
		}

		doc, err := pdf.Load(pdfPath)
		if err != nil {
			// A results file with the error still gets written, matching the
			// behavior downstream tooling expects.
			failed := &results.Document{
				SchemaInfo: &results.SchemaInfo{
					Name:           s.Name,
					Description:    s.Description,
					ExtractionTime: results.Now(),
				},
				Error: err.Error(),
			}
			if saveErr := results.Save(failed, outputPath); saveErr != nil {
				return saveErr
			}
			return err
		}
		fmt.Printf("Document: %s (%d pages)\n", doc.ID, len(doc.Pages))

		runner, err := extract.NewRunner(client, s, extract.Config{
			Model:               cfg.Model.Name,
			Passes:              cfg.Extract.Passes,
			Workers:             cfg.Extract.Workers,
			MaxCharBuffer:       cfg.Extract.MaxCharBuffer,
			Temperature:         cfg.Model.Temperature,
			RequestTimeout:      cfg.RequestTimeout(),
			SuppressParseErrors: cfg.Extract.SuppressParseErrors,
		}, slog.Default(), nil)
		if err != nil {
			return err
		}

		out, err := runner.Run(ctx, doc)
		if err != nil {
			failed := &results.Document{
				SchemaInfo: &results.SchemaInfo{
					Name:           s.Name,
					Description:    s.Description,
					ExtractionTime: results.Now(),
				},
				Error: err.Error(),
			}
			if saveErr := results.Save(failed, outputPath); saveErr != nil {
				return saveErr
			}
			return err
		}

		if err := results.Save(out, outputPath); err != nil {
			return err
		}

		fmt.Printf("\nExtracted %d facts", out.Summary.TotalExtractions)
		if out.Summary.FailedCalls > 0 {
			fmt.Printf(" (%d of %d model calls failed)", out.Summary.FailedCalls, out.Summary.ModelCalls)
		}
		fmt.Printf("\nResults written to %s\n", outputPath)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractModel, "model", "", "model tag (default from config: gemma3)")
	extractCmd.Flags().StringVar(&extractURL, "model-url", "", "model server URL (default from config: http://localhost:11434)")
	extractCmd.Flags().IntVar(&extractPasses, "passes", 2, "extraction passes over the document")
	extractCmd.Flags().IntVar(&extractWorkers, "workers", 8, "concurrent chunk workers")
	extractCmd.Flags().IntVar(&extractBuffer, "buffer", 1200, "max characters per chunk")
}
