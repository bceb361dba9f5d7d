package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/mentor/internal/presentation/tui"
	"github.com/aretw0/mentor/pkg/markdown"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render tutor markdown from a file or stdin",
	Long: `Splits markdown into text and fenced code blocks and prints them the way the
tutor displays replies. With --json the display nodes are printed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")

		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(markdown.RenderNodes(string(data)))
		}

		profile := tui.Profile(os.Stdout)
		if plain {
			profile = termenv.Ascii
		}
		fmt.Fprintln(out, tui.NewBlockWriter(out, profile).Render(string(data)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Bool("json", false, "Print display nodes as JSON")
	renderCmd.Flags().Bool("plain", false, "Disable colors and bold text")
}
