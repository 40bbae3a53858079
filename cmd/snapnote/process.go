package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/snapnote/internal/domain"
)

// processOutput mirrors the /process response body.
type processOutput struct {
	OCRText    string                `json:"ocr_text"`
	Summary    summaryOutput         `json:"summary"`
	NotionPage domain.PageDescriptor `json:"notion_page"`
}

type summaryOutput struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// NewProcessCmd creates the process command.
func NewProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <image>",
		Short: "Run the full pipeline on one image",
		Long: `Run OCR, summarization and Notion page creation on one image file
and print the result as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(filepath.Clean(args[0]))
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = rt.logger.Sync() }()

			a, err := buildApp(rt.cfg, rt.logger)
			if err != nil {
				return err
			}

			res, err := a.pipeline.Process(cmd.Context(), image)
			if err != nil {
				return err
			}

			tags := res.Summary.Tags
			if tags == nil {
				tags = []string{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(processOutput{
				OCRText:    res.OCRText,
				Summary:    summaryOutput{Title: res.Summary.Title, Summary: res.Summary.Summary, Tags: tags},
				NotionPage: res.Page,
			})
		},
	}
}
