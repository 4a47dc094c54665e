// Package main provides the entry point for the family CLI application.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0-dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "family",
		Short:         "A genealogy registry with focus-anchored family trees",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(viper.GetBool(keyVerbose))
		},
	}

	rootCmd.PersistentFlags().StringP("family", "F", "", "Family to operate on (or FAMILY_NAME)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose logging")
	bindFlags(rootCmd)

	rootCmd.AddCommand(
		newInitCmd(),
		newFamiliesCmd(),
		newHistoryCmd(),
		newImportCmd(),
		newExportCmd(),
		newPersonCmd(),
		newEventCmd(),
		newTreeCmd(),
		newDayCmd(),
	)

	return rootCmd
}

// bindFlags binds the persistent flags to viper, with FAMILY_* environment
// variables as fallback.
func bindFlags(rootCmd *cobra.Command) {
	viper.SetEnvPrefix("FAMILY")
	viper.AutomaticEnv()

	_ = viper.BindPFlag(keyFamily, rootCmd.PersistentFlags().Lookup("family"))
	_ = viper.BindPFlag(keyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindEnv(keyFamily, "FAMILY_NAME")
	_ = viper.BindEnv(keyVerbose, "FAMILY_VERBOSE")
}

// setupLogging installs the default slog handler on stderr.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
