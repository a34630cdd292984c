package cli

import (
	"os/signal"
	"syscall"

	"github.com/klokku/eventcal/internal/app"
	"github.com/klokku/eventcal/internal/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. The events table is created when missing.
SIGINT or SIGTERM stops accepting connections and waits briefly for running requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, err := app.NewApplication(ctx, cfg)
		if err != nil {
			return err
		}
		return application.Run(ctx)
	},
}
