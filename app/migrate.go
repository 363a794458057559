package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/qa-office/qa-admin/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Migrate the database schema and seed permissions, system roles and the admin user",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := daemon.Prepare(cmd.Context(), &cfg); err != nil {
			return err
		}

		log.Info().Str("engine", cfg.DB.GormEngine).Msg("database migrated and seeded")

		return nil
	},
}
