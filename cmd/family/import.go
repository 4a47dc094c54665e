package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ersonp/family-core/internal/application/handlers"
	"github.com/ersonp/family-core/internal/infrastructure/config"
)

type importFlags struct {
	format string
	dryRun bool
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a save document",
		Long: `Imports a save document and replaces the stored family with it.

Formats are detected from the file extension: .json, .yaml/.yml, .toml and
.csv (person roster only). Records that cannot be resolved are skipped and
reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "File format (json, yaml, toml, csv); default from extension")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	if err := validateFormat(flags.format); err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(deps *Deps) error {
		result, err := deps.ImportHandler.Handle(ctx, deps.Family, filePath, handlers.ImportOptions{
			Format: flags.format,
			DryRun: flags.dryRun,
		})
		if err != nil {
			return fmt.Errorf("importing %s: %w", filePath, err)
		}

		printImportResult(out, result, flags.dryRun)

		if flags.dryRun {
			return nil
		}
		return registerFamily(deps, filePath)
	})
}

// registerFamily records the family and its source file in families.yaml.
func registerFamily(deps *Deps, source string) error {
	entry := config.FamilyEntry{Source: source}
	if existing, err := deps.Families.Get(deps.Family); err == nil {
		entry.Description = existing.Description
	}
	deps.Families.Add(deps.Family, entry)
	if err := deps.Families.Save(deps.BasePath); err != nil {
		return fmt.Errorf("saving families: %w", err)
	}
	return nil
}

func printImportResult(out io.Writer, result *handlers.ImportResult, dryRun bool) {
	if dryRun {
		fmt.Fprintln(out, "Dry run, nothing saved.")
	}
	fmt.Fprintf(out, "Persons: %d\n", result.Persons)
	fmt.Fprintf(out, "Events:  %d (%d derived)\n", result.Events, result.Derived)
	if result.Skipped == 0 {
		return
	}
	fmt.Fprintf(out, "Skipped: %d\n", result.Skipped)
	for _, e := range result.Errors {
		fmt.Fprintf(out, "  - %s\n", e.Error())
	}
}
