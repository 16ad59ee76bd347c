package cmd

import (
	"fmt"
	"os"

	"github.com/bz888/gunther/internal/config"
	"github.com/spf13/cobra"
)

var flags config.Flags

var rootCmd = &cobra.Command{
	Use:   "gunther",
	Short: "Chat gateway for the Gunther model on a local Ollama server",
	Long: `Gunther is a small HTTP gateway in front of a local Ollama server.

It accepts one chat message at a time on POST /api/chat, forwards it to the
"gunther" model and reports the state of the inference server on
GET /api/health.

Running gunther without a subcommand is the same as "gunther serve".`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags.Register(rootCmd.PersistentFlags())
}
