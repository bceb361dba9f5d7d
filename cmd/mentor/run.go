package main

import (
	"github.com/aretw0/mentor/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive tutoring session",
	Long: `Starts a conversation with the tutor in the terminal.
Type a question to chat, or /help for the list of commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")

		return cli.RunSession(cli.RunOptions{
			Options: globalOptions(cmd),
			JSON:    jsonMode,
			Topic:   topic,
			Plain:   plain,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("topic", "t", "", "Topic to open on start")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (JSON Lines input/output)")
	runCmd.Flags().Bool("plain", false, "Disable colors and bold text")

	// 'run' is the default if no command is provided
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
