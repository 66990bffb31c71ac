package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Opens the configured database and applies the embedded schema
migrations. Migrations are idempotent, so running this against an existing
database is safe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		count, err := store.Items().CountItems(cmd.Context())
		if err != nil {
			return err
		}

		slog.Info("Store ready", "db", viper.GetString("database.path"), "items", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
