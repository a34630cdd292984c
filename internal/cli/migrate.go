package cli

import (
	"github.com/klokku/eventcal/internal/config"
	"github.com/klokku/eventcal/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the events table if it does not exist and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := database.EnsureSchema(cmd.Context(), cfg.Database.Url); err != nil {
			return err
		}
		log.Info("Events schema is up to date")
		return nil
	},
}
