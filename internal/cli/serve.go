package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcpkit-labs/mcpkit/internal/config"
	"github.com/mcpkit-labs/mcpkit/internal/logging"
	"github.com/mcpkit-labs/mcpkit/internal/mcpserver"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveWorkDir string

func init() {
	serveCmd.Flags().String("transport", "", "Transport: stdio or http (default from server.transport)")
	serveCmd.Flags().String("addr", "", "Listen address for the http transport (default from server.addr)")
	serveCmd.Flags().StringVar(&serveWorkDir, "work-dir", "", "Directory where boilerplate projects are created (default: current directory)")
	_ = viper.BindPFlag("server.transport", serveCmd.Flags().Lookup("transport"))
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:       "serve <analysis|boilerplate>",
	Short:     "Run an MCP server",
	ValidArgs: []string{mcpserver.KindAnalysis, mcpserver.KindBoilerplate},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Long: `Run one of the MCP servers over stdio (default) or streamable HTTP.

Examples:
  mcpkit serve analysis
  mcpkit serve boilerplate --transport http --addr :3001`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Current()
		if err != nil {
			return err
		}

		if err := logging.Init(logging.Config{Level: settings.Log.Level, Format: settings.Log.Format}); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		defer func() { _ = logging.Sync() }()

		s, err := mcpserver.New(args[0], mcpserver.Options{
			Version: buildVersion,
			Sandbox: settings.Sandbox,
			WorkDir: serveWorkDir,
		})
		if err != nil {
			return err
		}

		switch settings.Server.Transport {
		case mcpserver.TransportStdio:
			return mcpserver.ServeStdio(s)
		case mcpserver.TransportHTTP:
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logging.L().Info("starting server",
				zap.String("server", args[0]),
				zap.String("addr", settings.Server.Addr),
				zap.String("endpoint", settings.Server.Endpoint))
			return mcpserver.ServeHTTP(ctx, s, mcpserver.HTTPOptions{
				Addr:     settings.Server.Addr,
				Endpoint: settings.Server.Endpoint,
				Metrics:  settings.Metrics.Enabled,
			})
		default:
			return fmt.Errorf("unknown transport %q (want %s or %s)", settings.Server.Transport,
				mcpserver.TransportStdio, mcpserver.TransportHTTP)
		}
	},
}
