package cmd

import (
	"time"

	"github.com/bz888/gunther/internal/api"
	"github.com/bz888/gunther/internal/config"
	"github.com/bz888/gunther/internal/logger"
	"github.com/bz888/gunther/internal/ui"
	"github.com/spf13/cobra"
)

// gatewaySlack is added to the upstream timeout so the gateway answers before the console gives up.
const gatewaySlack = 5 * time.Second

var chatFlags struct {
	gateway string
	timeout time.Duration
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with Gunther through a running gateway",
	Long: `Open the terminal chat console against a running gateway.

Commands inside the console:
  /help    list commands
  /health  check the connection to the AI service
  /debug   toggle the log pane
  /bye     quit (also /quit, /exit)`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVar(&chatFlags.gateway, "gateway", "http://localhost:8000", "gateway base URL")
	chatCmd.Flags().DurationVar(&chatFlags.timeout, "timeout", config.DefaultUpstreamTimeout+gatewaySlack, "timeout for a single chat request")
}

func runChat(cmd *cobra.Command, args []string) error {
	gateway, err := api.NewClient(chatFlags.gateway, chatFlags.timeout)
	if err != nil {
		return err
	}

	console := ui.New(flags.Dev)
	if err := logger.InitLogger(flags.Dev, flags.LogPath, console.DebugWriter()); err != nil {
		return err
	}
	defer logger.Close()

	return console.Run(cmd.Context(), gateway)
}
