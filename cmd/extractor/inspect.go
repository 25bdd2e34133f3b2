package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rvrstfn/extractor/internal/api"
	"github.com/rvrstfn/extractor/internal/results"
)

var inspectFull bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <results.json>",
	Short: "Summarize an extraction results file",
	Long: `Summarize an extraction results file.

Shows the schema used, extraction counts by class and status, and run
statistics. Use --full to dump every extraction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := results.Load(args[0])
		if err != nil {
			return err
		}

		if inspectFull {
			return api.Output(doc)
		}

		byClass := make(map[string]int)
		byStatus := make(map[string]int)
		aligned := 0
		for _, ext := range doc.Extractions {
			byClass[ext.ExtractionClass]++
			if status, ok := ext.Attributes["status"].(string); ok {
				byStatus[status]++
			}
			if ext.CharInterval != nil {
				aligned++
			}
		}

		type summaryOut struct {
			Schema      string           `json:"schema,omitempty" yaml:"schema,omitempty"`
			Extractions int              `json:"extractions" yaml:"extractions"`
			Aligned     int              `json:"aligned" yaml:"aligned"`
			ByClass     map[string]int   `json:"by_class,omitempty" yaml:"by_class,omitempty"`
			ByStatus    map[string]int   `json:"by_status,omitempty" yaml:"by_status,omitempty"`
			Summary     *results.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
			Error       string           `json:"error,omitempty" yaml:"error,omitempty"`
		}

		out := summaryOut{
			Extractions: len(doc.Extractions),
			Aligned:     aligned,
			ByClass:     byClass,
			ByStatus:    byStatus,
			Summary:     doc.Summary,
			Error:       doc.Error,
		}
		if doc.SchemaInfo != nil {
			out.Schema = doc.SchemaInfo.Name
		}

		if doc.Error != "" {
			fmt.Printf("Run failed: %s\n\n", doc.Error)
		}
		return api.Output(out)
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectFull, "full", false, "dump all extractions")
}
