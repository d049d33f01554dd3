package main

import (
	"catalog-service/internal/platform/sqlstore"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func newMigrateCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, log, err := bootstrap(v)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx := cmd.Context()
			db, err := sqlstore.Open(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, db.Close()) }()

			migrator := sqlstore.NewMigrator(db, log)
			if err := migrator.Up(ctx); err != nil {
				return err
			}

			version, err := migrator.Version(ctx)
			if err != nil {
				return err
			}
			log.Info("Database schema is up to date", zap.Int("version", version))
			return nil
		},
	}
}
