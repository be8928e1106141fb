// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refine-engine/internal/extract"
	"github.com/pdiddy/refine-engine/internal/output"
	"github.com/pdiddy/refine-engine/internal/segment"
	"github.com/pdiddy/refine-engine/pkg/types"
)

// extraction is the diagnostic view of one source printed by extract.
type extraction struct {
	Type             types.SourceType  `json:"type" yaml:"type"`
	Path             string            `json:"path" yaml:"path"`
	ExtractionMethod string            `json:"extraction_method" yaml:"extraction_method"`
	Status           string            `json:"status" yaml:"status"`
	Attributes       map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Sentences        []string          `json:"sentences" yaml:"sentences"`
	Bullets          []string          `json:"bullets" yaml:"bullets"`
	Text             string            `json:"text" yaml:"text"`
}

func newExtractCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <path>",
		Short: "Show how a single input is extracted and segmented",
		Long: `Extract runs the configured extraction backend for one file and prints
its metadata, format attributes (image size and mode, EXIF fields), the
segmented sentences and bullet lines, and the raw text. Extraction
failures are shown in the status field; the command itself succeeds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatFlag, _ := cmd.Flags().GetString("format")
			format, err := output.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			ext, err := extract.FromConfig(cmd.Context(), a.fs, a.cfg.Extraction, a.log)
			if err != nil {
				return fmt.Errorf("configuring extraction: %w", err)
			}
			defer ext.Close()

			path := args[0]
			r := ext.Extract(cmd.Context(), path)
			data, err := output.Marshal(extraction{
				Type:             extract.DetectType(path),
				Path:             path,
				ExtractionMethod: r.Method,
				Status:           r.Status,
				Attributes:       r.Attributes,
				Sentences:        segment.Sentences(r.Text),
				Bullets:          segment.Bullets(r.Text),
				Text:             r.Text,
			}, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().String("format", "yaml", "output format: json or yaml")
	return cmd
}
