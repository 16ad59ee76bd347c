package cmd

import (
	"context"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/bz888/gunther/internal/api"
	"github.com/bz888/gunther/internal/api/server"
	"github.com/bz888/gunther/internal/api/server/client"
	"github.com/bz888/gunther/internal/config"
	"github.com/bz888/gunther/internal/logger"
	"github.com/bz888/gunther/internal/metrics"
	"github.com/bz888/gunther/internal/ui"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	console bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat gateway",
	Long: `Start the chat gateway.

Configuration is read from the environment, after loading the --env-file:
  API_URL           origin allowed by the CORS policy (required)
  MAX_LENGTH        maximum characters in a chat message (required)
  OLLAMA_URL        address of the Ollama server (required)
  UPSTREAM_TIMEOUT  timeout for calls to Ollama (default 120s)

Examples:
  # Serve on the default address
  gunther serve

  # Serve and chat from the same terminal
  gunther serve --console --dev`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveFlags.console, "console", false, "open the chat console next to the server")
	// bare "gunther" serves too
	rootCmd.Flags().AddFlag(serveCmd.Flags().Lookup("console"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var console *ui.Console
	var view io.Writer
	if serveFlags.console {
		console = ui.New(cfg.Dev)
		view = console.DebugWriter()
	}
	if err := logger.InitLogger(cfg.Dev, cfg.LogPath, view); err != nil {
		return err
	}
	defer logger.Close()

	upstream := client.Connect(cfg.OllamaURL, cfg.UpstreamTimeout)
	srv := server.New(cfg, upstream, metrics.NewCollector())

	if console == nil {
		return srv.Run(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		err := srv.Run(ctx)
		cancel()
		errCh <- err
	}()

	gateway, err := api.NewClient(localURL(cfg.Addr), cfg.UpstreamTimeout+gatewaySlack)
	if err != nil {
		return err
	}
	if err := console.Run(ctx, gateway); err != nil {
		return err
	}
	cancel()
	return <-errCh
}

// localURL is the address the console uses to reach a gateway listening on addr.
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
