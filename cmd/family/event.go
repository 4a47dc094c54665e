package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/family-core/internal/application/handlers"
	"github.com/ersonp/family-core/internal/domain/entities"
)

func newEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage life events",
		Long:  "Manages life events. Events are addressed by their canonical id, as printed by 'family event list'.",
	}

	cmd.AddCommand(
		newEventAddCmd(),
		newEventListCmd(),
		newEventDeleteCmd(),
		newEventDateCmd(),
		newEventPartnerCmd(),
		newEventParentsCmd(),
	)

	return cmd
}

type eventAddFlags struct {
	date    int
	sims    []string
	parents []string
}

func newEventAddCmd() *cobra.Command {
	var flags eventAddFlags

	cmd := &cobra.Command{
		Use:   "add TYPE",
		Short: "Record a life event",
		Long: fmt.Sprintf(`Records a life event of one of the types %s.

Parents of a Birth or Adopt are given in slot order; an empty slot is
written as an empty value, for example --parents ,B.`, eventTypeNames()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventAdd(cmd, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.date, "date", 0, "Day of the event (default: current day)")
	cmd.Flags().StringSliceVar(&flags.sims, "sims", nil, "Participant ids")
	cmd.Flags().StringSliceVar(&flags.parents, "parents", nil, "Parent ids of a Birth or Adopt")
	_ = cmd.MarkFlagRequired("sims")

	return cmd
}

func runEventAdd(cmd *cobra.Command, eventType string, flags eventAddFlags) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(deps *Deps) error {
		date := flags.date
		if !cmd.Flags().Changed("date") {
			day, err := deps.FamilyHandler.Day(ctx, deps.Family)
			if err != nil {
				return err
			}
			date = day
		}

		id, err := deps.EventHandler.Add(ctx, deps.Family, handlers.EventInput{
			Type:    eventType,
			Date:    date,
			Sims:    flags.sims,
			Parents: flags.parents,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s on day %d\n", id, date)
		return nil
	})
}

func eventTypeNames() string {
	names := make([]string, len(entities.EventTypes))
	for i, t := range entities.EventTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func newEventListCmd() *cobra.Command {
	var person string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events by date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				events, err := deps.EventHandler.List(ctx, deps.Family, person)
				if err != nil {
					return err
				}
				printEvents(cmd.OutOrStdout(), events)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&person, "person", "p", "", "Only events involving this person")

	return cmd
}

func printEvents(out io.Writer, events []*entities.Event) {
	if len(events) == 0 {
		fmt.Fprintln(out, "No events found.")
		return
	}

	fmt.Fprintf(out, "%-6s %-9s %-32s %s\n", "DAY", "TYPE", "ID", "PARENTS")
	fmt.Fprintf(out, "%-6s %-9s %-32s %s\n", "---", "----", "--", "-------")
	for _, e := range events {
		fmt.Fprintf(out, "%-6d %-9s %-32s %s\n", e.Date, e.Type, e.CanonicalID(), formatParents(e))
	}
}

func formatParents(e *entities.Event) string {
	if !e.Type.IsParentage() {
		return "-"
	}
	ids := make([]string, 0, 2)
	for _, p := range e.Parents {
		if p != nil {
			ids = append(ids, p.ID)
		}
	}
	return orDash(strings.Join(ids, ", "))
}

func newEventDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete EVENT_ID",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				if err := deps.EventHandler.Delete(ctx, deps.Family, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newEventDateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "date EVENT_ID DAY",
		Short: "Move an event to another day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				return deps.EventHandler.SetDate(ctx, deps.Family, args[0], day)
			})
		},
	}
}

func newEventPartnerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "partner EVENT_ID SUBJECT PARTNER",
		Short: "Change the partner of SUBJECT in a union event",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				id, err := deps.EventHandler.SetPartner(ctx, deps.Family, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Event is now %s\n", id)
				return nil
			})
		},
	}
}

func newEventParentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parents EVENT_ID [FIRST] [SECOND]",
		Short: "Replace the parents of a Birth or Adopt",
		Long:  "Replaces the parents of a Birth or Adopt. Omitted or empty parents clear the slot.",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, second := argAt(args, 1), argAt(args, 2)
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				id, err := deps.EventHandler.SetParents(ctx, deps.Family, args[0], first, second)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Event is now %s\n", id)
				return nil
			})
		},
	}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
