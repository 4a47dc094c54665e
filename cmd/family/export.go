package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type exportFlags struct {
	format string
	output string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the family as a save document",
		Long:  "Exports the family to JSON, YAML, TOML or a CSV person roster.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format (json, yaml, toml, csv); default json or the output extension")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if err := validateFormat(flags.format); err != nil {
		return err
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(deps *Deps) error {
		if flags.output == "" {
			format := flags.format
			if format == "" {
				format = "json"
			}
			return deps.ExportHandler.Handle(ctx, deps.Family, cmd.OutOrStdout(), format)
		}

		if err := deps.ExportHandler.HandleFile(ctx, deps.Family, flags.output, flags.format); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", deps.Family, flags.output)
		return nil
	})
}
