package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDayCmd() *cobra.Command {
	var advance int

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show or advance the current day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(deps *Deps) error {
				var (
					day int
					err error
				)
				if cmd.Flags().Changed("advance") {
					day, err = deps.FamilyHandler.AdvanceDay(ctx, deps.Family, advance)
				} else {
					day, err = deps.FamilyHandler.Day(ctx, deps.Family)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Day %d\n", day)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&advance, "advance", "a", 1, "Number of days to advance")

	return cmd
}
