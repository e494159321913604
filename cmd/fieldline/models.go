package main

import (
	"fmt"

	"github.com/aretw0/fieldline/pkg/registry"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the registered field models",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range registry.Default().Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
