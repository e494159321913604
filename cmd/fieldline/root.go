package main

import (
	"fmt"
	"os"

	"github.com/aretw0/fieldline/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fieldline",
	Short: "fieldline traces magnetic field lines through planetary field models",
	Long: `fieldline integrates magnetic field lines with an adaptive Runge-Kutta stepper
from a start point until they reach the inner or outer boundary sphere.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Log tracer activity to stderr")
	rootCmd.PersistentFlags().String("log-level", "", "Log to stderr at this level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("scheme", "merson", "Integration scheme (merson, doubling)")
	rootCmd.PersistentFlags().String("store", "memory", "Trace store (memory, redis, pebble, sqlite)")
	rootCmd.PersistentFlags().String("store-dsn", "", "Redis URL, pebble directory or sqlite file")
}

func engineOptions(cmd *cobra.Command) cli.EngineOptions {
	debug, _ := cmd.Flags().GetBool("debug")
	level, _ := cmd.Flags().GetString("log-level")
	scheme, _ := cmd.Flags().GetString("scheme")
	store, _ := cmd.Flags().GetString("store")
	dsn, _ := cmd.Flags().GetString("store-dsn")
	return cli.EngineOptions{Debug: debug, LogLevel: level, Scheme: scheme, Store: store, StoreDSN: dsn}
}
