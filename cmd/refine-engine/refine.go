// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/refine-engine/internal/extract"
	"github.com/pdiddy/refine-engine/internal/fsops"
	"github.com/pdiddy/refine-engine/internal/output"
	"github.com/pdiddy/refine-engine/internal/refine"
	"github.com/pdiddy/refine-engine/internal/validate"
	"github.com/pdiddy/refine-engine/pkg/types"
)

func newRefineCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refine [paths...]",
		Short: "Refine input files and inline text into a structured prompt record",
		Long: `Refine extracts text from every input (positional paths, then --inputs,
then files found under --folder), runs the heuristic classifiers over the
combined text, validates the resulting record, and prints it as JSON or
YAML. Inputs that cannot be read are reported in meta.sources with an
"error: ..." status and do not stop the run; a missing --folder adds no
files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, _ := cmd.Flags().GetStringSlice("inputs")
			folder, _ := cmd.Flags().GetString("folder")
			text, _ := cmd.Flags().GetString("text")
			out, _ := cmd.Flags().GetString("out")
			formatFlag, _ := cmd.Flags().GetString("format")

			format, err := output.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			paths := make([]string, 0, len(args)+len(inputs))
			paths = append(paths, args...)
			paths = append(paths, inputs...)
			if folder != "" {
				files, err := fsops.ListFiles(a.fs, folder)
				if err != nil {
					a.log.Warn("input folder contributes no files", zap.String("folder", folder), zap.Error(err))
				}
				paths = append(paths, files...)
			}

			ctx := cmd.Context()
			ext, err := extract.FromConfig(ctx, a.fs, a.cfg.Extraction, a.log)
			if err != nil {
				return fmt.Errorf("configuring extraction: %w", err)
			}
			defer func() {
				if err := ext.Close(); err != nil {
					a.log.Warn("closing extractor", zap.Error(err))
				}
			}()

			rp, _ := refine.New(ext, refine.WithLogger(a.log)).Refine(ctx, paths, text)

			report := types.Report{RefinedPrompt: rp}
			errs, err := validate.Report(rp)
			if err != nil {
				return err
			}
			if len(errs) > 0 {
				report.ValidationErrors = errs
				a.log.Warn("refined prompt failed validation", zap.Strings("errors", errs))
			}

			data, err := output.Marshal(report, format)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out == "" {
				fmt.Fprintln(w, string(data))
				return nil
			}
			if err := fsops.WriteFile(a.fs, out, data); err != nil {
				return err
			}
			fmt.Fprintf(w, "Wrote refined prompt to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringSlice("inputs", nil, "input file paths (repeatable or comma-separated)")
	cmd.Flags().String("folder", "", "folder of inputs, expanded recursively")
	cmd.Flags().String("text", "", "inline text input")
	cmd.Flags().String("out", "", "write the record to this path instead of stdout")
	cmd.Flags().String("format", "json", "output format: json or yaml")
	return cmd
}
