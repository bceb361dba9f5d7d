package main

import (
	"fmt"

	"github.com/aretw0/mentor"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mentor",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mentor version %s\n", mentor.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
