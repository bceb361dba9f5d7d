package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/mentor/internal/cli"
	"github.com/aretw0/mentor/internal/presentation/graph"
	"github.com/aretw0/mentor/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the curriculum",
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		current, _ := cmd.Flags().GetString("current")

		app, _, err := cli.NewApp(context.Background(), globalOptions(cmd))
		if err != nil {
			return err
		}
		defer app.Close()

		if mermaid {
			var overlay *graph.Overlay
			if current != "" {
				overlay = &graph.Overlay{CurrentTopic: current}
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(app.Curriculum, overlay))
			return nil
		}

		if !tui.IsTerminal(os.Stdout) {
			plain = true
		}
		render, err := tui.NewRenderer(tui.Width(os.Stdout, 80), plain)
		if err != nil {
			return err
		}
		out, err := render(tui.CurriculumDocument(app.Curriculum))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(topicsCmd)
	topicsCmd.Flags().Bool("plain", false, "Disable styling")
	topicsCmd.Flags().Bool("mermaid", false, "Print the curriculum as a Mermaid learning path")
	topicsCmd.Flags().String("current", "", "Topic to highlight in the Mermaid output")
}
