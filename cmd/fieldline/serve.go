package main

import (
	"fmt"
	"os"

	"github.com/aretw0/fieldline/internal/cli"
	"github.com/aretw0/fieldline/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Exposes tracing as a JSON API over HTTP, with Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Stop()
		err := cli.Serve(ctx, engineOptions(cmd), ":"+port, os.Stdout)
		if sig := ctx.Signal(); sig != nil {
			fmt.Fprintf(os.Stderr, "received %s, shut down\n", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
