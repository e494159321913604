package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/fieldline"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fieldline",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fieldline version %s\n", strings.TrimSpace(fieldline.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
