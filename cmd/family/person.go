package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/family-core/internal/application/handlers"
	"github.com/ersonp/family-core/internal/domain/entities"
)

func newPersonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "person",
		Aliases: []string{"sim"},
		Short:   "Manage persons of the family",
	}

	cmd.AddCommand(
		newPersonAddCmd(),
		newPersonShowCmd(),
		newPersonListCmd(),
		newPersonEditCmd(),
		newPersonRenameCmd(),
		newPersonDeleteCmd(),
		newPersonBirthdayCmd(),
		newPersonKillCmd(),
		newPersonReviveCmd(),
		newPersonStageCmd(),
		newPersonSpanCmd(),
		newPersonFocusCmd(),
	)

	return cmd
}

func newPersonAddCmd() *cobra.Command {
	var birthday int

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a person born on the current day",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := strings.Join(args, " ")

			var day *int
			if cmd.Flags().Changed("birthday") {
				day = &birthday
			}

			return withDeps(ctx, func(deps *Deps) error {
				p, err := deps.PersonHandler.Add(ctx, deps.Family, name, day)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s), born day %d\n", p.Name, p.ID, p.Birthday)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&birthday, "birthday", 0, "Birth day (default: current day)")

	return cmd
}

func newPersonShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a person with their timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				view, err := deps.PersonHandler.Show(ctx, deps.Family, args[0])
				if err != nil {
					return err
				}
				printPersonView(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}
}

func printPersonView(out io.Writer, view *handlers.PersonView) {
	p := view.Person

	fmt.Fprintf(out, "%s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(out, "  Stage:    %s\n", view.Stage)
	fmt.Fprintf(out, "  Born:     day %d\n", p.Birthday)
	if p.Deathday != nil {
		fmt.Fprintf(out, "  Died:     day %d\n", *p.Deathday)
	}
	fmt.Fprintf(out, "  Career:   %s\n", orDash(p.Career))
	fmt.Fprintf(out, "  Place:    %s\n", orDash(p.Place))
	fmt.Fprintf(out, "  Traits:   %s\n", orDash(strings.Join(p.Traits, ", ")))
	fmt.Fprintf(out, "  Spouse:   %s\n", orDash(view.Spouse))
	fmt.Fprintf(out, "  Dating:   %s\n", orDash(view.Dating))
	fmt.Fprintf(out, "  Parents:  %s\n", orDash(strings.Join(view.Parents, ", ")))
	fmt.Fprintf(out, "  Children: %s\n", orDash(strings.Join(view.Children, ", ")))

	if len(view.Timeline) == 0 {
		return
	}
	fmt.Fprintln(out, "\nTimeline:")
	for _, e := range view.Timeline {
		fmt.Fprintf(out, "  day %-5d %s\n", e.Date, e.Text)
	}
}

func newPersonListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persons, focus first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				persons, err := deps.PersonHandler.List(ctx, deps.Family, search)
				if err != nil {
					return err
				}
				printPersons(cmd.OutOrStdout(), persons)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only persons whose name contains this text")

	return cmd
}

func printPersons(out io.Writer, persons []*entities.Person) {
	if len(persons) == 0 {
		fmt.Fprintln(out, "No persons found.")
		return
	}

	fmt.Fprintf(out, "%-24s %-24s %-6s %-6s %s\n", "ID", "NAME", "BORN", "DIED", "CAREER")
	fmt.Fprintf(out, "%-24s %-24s %-6s %-6s %s\n", "--", "----", "----", "----", "------")
	for _, p := range persons {
		died := "-"
		if p.Deathday != nil {
			died = strconv.Itoa(*p.Deathday)
		}
		fmt.Fprintf(out, "%-24s %-24s %-6d %-6s %s\n", p.ID, p.Name, p.Birthday, died, orDash(p.Career))
	}
}

type personEditFlags struct {
	name      string
	career    string
	place     string
	image     string
	favourite bool
	complete  bool
	traits    []string
}

func newPersonEditCmd() *cobra.Command {
	var flags personEditFlags

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit details of a person",
		Long:  "Edits the given fields of a person. Each --trait toggles that trait.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edit := buildPersonEdit(cmd, flags)
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				p, err := deps.PersonHandler.Edit(ctx, deps.Family, args[0], edit)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", p.Name, p.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "", "Display name")
	cmd.Flags().StringVar(&flags.career, "career", "", "Career")
	cmd.Flags().StringVar(&flags.place, "place", "", "Place")
	cmd.Flags().StringVar(&flags.image, "image", "", "Image URL")
	cmd.Flags().BoolVar(&flags.favourite, "favourite", false, "Mark as favourite")
	cmd.Flags().BoolVar(&flags.complete, "complete", false, "Mark as complete")
	cmd.Flags().StringSliceVar(&flags.traits, "trait", nil, "Toggle a trait (repeatable)")

	return cmd
}

// buildPersonEdit keeps only the flags that were set on the command line.
func buildPersonEdit(cmd *cobra.Command, flags personEditFlags) handlers.PersonEdit {
	var edit handlers.PersonEdit
	changed := cmd.Flags().Changed

	if changed("name") {
		edit.Name = &flags.name
	}
	if changed("career") {
		edit.Career = &flags.career
	}
	if changed("place") {
		edit.Place = &flags.place
	}
	if changed("image") {
		edit.ImageURL = &flags.image
	}
	if changed("favourite") {
		edit.Favourite = &flags.favourite
	}
	if changed("complete") {
		edit.Complete = &flags.complete
	}
	edit.Traits = flags.traits

	return edit
}

func newPersonRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NEW_ID",
		Short: "Change the identifier of a person",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				if err := deps.PersonHandler.Rename(ctx, deps.Family, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newPersonDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a person and the events only they take part in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				if err := deps.PersonHandler.Delete(ctx, deps.Family, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newPersonBirthdayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "birthday ID DAY",
		Short: "Move the birth of a person",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				return deps.PersonHandler.SetBirthday(ctx, deps.Family, args[0], day)
			})
		},
	}
}

func newPersonKillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kill ID",
		Short: "Mark a person dead on the current day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				day, err := deps.PersonHandler.Kill(ctx, deps.Family, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s died on day %d\n", args[0], day)
				return nil
			})
		},
	}
}

func newPersonReviveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revive ID",
		Short: "Clear the death of a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				return deps.PersonHandler.Revive(ctx, deps.Family, args[0])
			})
		},
	}
}

func newPersonStageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stage ID STAGE",
		Short: "Hold a person in a life stage (auto clears)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				return deps.PersonHandler.SetStage(ctx, deps.Family, args[0], args[1])
			})
		},
	}
}

func newPersonSpanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "span ID STAGE DAYS",
		Short: "Change how long a person stays in a life stage",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := parseDay(args[2])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				return deps.PersonHandler.SetAgeSpan(ctx, deps.Family, args[0], args[1], days)
			})
		},
	}
}

func newPersonFocusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focus ID",
		Short: "Make a person the default root of the tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				return deps.PersonHandler.Focus(ctx, deps.Family, args[0])
			})
		},
	}
}

// parseDay parses a non-negative day number.
func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 0 {
		return 0, fmt.Errorf("invalid day %q: must be a non-negative integer", s)
	}
	return day, nil
}
