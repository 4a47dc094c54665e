package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/family-core/internal/infrastructure/config"
)

func newFamiliesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "families",
		Short: "Manage families",
		RunE:  runFamiliesList,
	}

	cmd.AddCommand(
		newFamiliesListCmd(),
		newFamiliesCreateCmd(),
		newFamiliesDeleteCmd(),
	)

	return cmd
}

func newFamiliesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all families",
		Args:  cobra.NoArgs,
		RunE:  runFamiliesList,
	}
}

func runFamiliesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	families, err := config.LoadFamilies(cwd)
	if err != nil {
		return fmt.Errorf("loading families: %w", err)
	}

	names := families.Names()
	if len(names) == 0 {
		fmt.Fprintln(out, "No families configured.")
		fmt.Fprintln(out, "Use 'family families create NAME' to create a family.")
		return nil
	}

	fmt.Fprintf(out, "%-20s %-6s %-8s %-7s %s\n", "NAME", "DAY", "PERSONS", "EVENTS", "DESCRIPTION")
	fmt.Fprintf(out, "%-20s %-6s %-8s %-7s %s\n", "----", "---", "-------", "------", "-----------")

	for _, name := range names {
		entry, _ := families.Get(name)
		err := withFamily(ctx, name, func(deps *Deps) error {
			summaries, err := deps.FamilyHandler.List(ctx)
			if err != nil {
				return err
			}
			for _, s := range summaries {
				if s.Name != name {
					continue
				}
				fmt.Fprintf(out, "%-20s %-6d %-8d %-7d %s\n", name, s.CurrentDay, s.Persons, s.Events, entry.Description)
				return nil
			}
			fmt.Fprintf(out, "%-20s %-6s %-8s %-7s %s\n", name, "-", "-", "-", entry.Description)
			return nil
		})
		if err != nil {
			return fmt.Errorf("reading family %s: %w", name, err)
		}
	}

	return nil
}

func newFamiliesCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new family",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFamiliesCreate(cmd, args[0], description)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Family description")

	return cmd
}

func runFamiliesCreate(cmd *cobra.Command, name, description string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if config.SanitizeFamilyName(name) == "" {
		return fmt.Errorf("invalid family name %q", name)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if !config.Exists(cwd) {
		if err := config.WriteDefault(cwd); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		fmt.Fprintf(out, "Initialized family workspace in %s\n", config.ConfigDir(cwd))
	}

	families, err := config.LoadFamilies(cwd)
	if err != nil {
		return fmt.Errorf("loading families: %w", err)
	}
	if families.Exists(name) {
		return fmt.Errorf("family %q already exists", name)
	}

	err = withFamily(ctx, name, func(deps *Deps) error {
		return deps.FamilyHandler.Create(ctx, name)
	})
	if err != nil {
		return err
	}

	families.Add(name, config.FamilyEntry{Description: description})
	if err := families.Save(cwd); err != nil {
		return fmt.Errorf("saving families: %w", err)
	}

	fmt.Fprintf(out, "Created family %q\n", name)
	return nil
}

func newFamiliesDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a family",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.New("refusing to delete without --force")
			}
			return runFamiliesDelete(cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm deletion")

	return cmd
}

func runFamiliesDelete(cmd *cobra.Command, name string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	families, err := config.LoadFamilies(cwd)
	if err != nil {
		return fmt.Errorf("loading families: %w", err)
	}
	if _, err := families.Get(name); err != nil {
		return err
	}

	err = withFamily(ctx, name, func(deps *Deps) error {
		return deps.FamilyHandler.Delete(ctx, name)
	})
	if err != nil {
		return err
	}

	families.Remove(name)
	if err := families.Save(cwd); err != nil {
		return fmt.Errorf("saving families: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted family %q\n", name)
	return nil
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the audit log of the family",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultHistoryLimit, "Maximum number of entries")

	return cmd
}

func runHistory(cmd *cobra.Command, limit int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(deps *Deps) error {
		entries, err := deps.FamilyHandler.History(ctx, deps.Family, limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No history.")
			return nil
		}

		fmt.Fprintf(out, "%-20s %-8s %s\n", "TIME", "ACTION", "DETAILS")
		for _, e := range entries {
			fmt.Fprintf(out, "%-20s %-8s %s\n", e.CreatedAt.Local().Format(time.DateTime), e.Action, formatDetails(e.Details))
		}
		return nil
	})
}
