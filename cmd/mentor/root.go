package main

import (
	"fmt"
	"os"

	"github.com/aretw0/mentor/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Mentor is an AI tutor for Unreal Engine C++",
	Long: `Mentor walks you through a curriculum of topics, generates a mini-lesson for each one
and answers your questions in a chat with an AI tutor.

Set GEMINI_API_KEY to enable the tutor. Without it the curriculum can still be browsed.`,
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
	rootCmd.PersistentFlags().String("config", "", "Config file (default: mentor.yaml in the working directory, if present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().String("model", "", "Model identifier (overrides config)")
	rootCmd.PersistentFlags().String("curriculum", "", "Curriculum catalog file (YAML or JSON)")
	rootCmd.PersistentFlags().String("curriculum-dir", "", "Directory of markdown topic files")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for the shared lesson cache")
}

// globalOptions reads the persistent flags.
func globalOptions(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	debug, _ := flags.GetBool("debug")
	model, _ := flags.GetString("model")
	curriculumPath, _ := flags.GetString("curriculum")
	curriculumDir, _ := flags.GetString("curriculum-dir")
	redisAddr, _ := flags.GetString("redis-addr")
	return cli.Options{
		ConfigPath:     configPath,
		Debug:          debug,
		Model:          model,
		CurriculumPath: curriculumPath,
		CurriculumDir:  curriculumDir,
		RedisAddr:      redisAddr,
	}
}
