package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "./config/application.yaml"

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "eventcal",
		Short: "Calendar event manager",
		Long: `eventcal serves a small web application to list, create, edit and delete calendar events
stored in PostgreSQL, and publishes them as an iCalendar feed.`,
		SilenceUsage: true,
		// serve is the default when no subcommand is given
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the command line. It is called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to the YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
