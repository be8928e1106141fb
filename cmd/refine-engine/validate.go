// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pdiddy/refine-engine/internal/validate"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <record.json>",
		Short: "Check a saved refined prompt record",
		Long: `Validate reads a JSON record written by refine and checks required
fields, value types and the confidence range. Each violation is printed on
its own line; the command exits non-zero when any are found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := afero.ReadFile(a.fs, path)
			if err != nil {
				return fmt.Errorf("reading record: %w", err)
			}

			var decoded any
			if err := json.Unmarshal(data, &decoded); err != nil {
				return fmt.Errorf("parsing record %s: %w", path, err)
			}
			record, ok := decoded.(map[string]any)
			if !ok {
				return fmt.Errorf("record %s is not a JSON object", path)
			}

			w := cmd.OutOrStdout()
			errs := validate.Validate(record)
			if len(errs) == 0 {
				fmt.Fprintf(w, "%s: valid\n", path)
				return nil
			}
			for _, e := range errs {
				fmt.Fprintln(w, e)
			}
			return fmt.Errorf("%s: %d validation error(s)", path, len(errs))
		},
	}
}
