package main

import (
	"fmt"
	"net/url"
	"os"

	"catalog-service/internal/config"
	"catalog-service/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := config.New()

	serve := newServeCommand(v)
	root := &cobra.Command{
		Use:          "catalog-service",
		Short:        "Company, store and product catalog API",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		// serve is the default action
		RunE: serve.RunE,
	}
	if err := config.BindFlags(v, root.PersistentFlags()); err != nil {
		panic(err)
	}

	root.AddCommand(serve, newMigrateCommand(v))
	return root
}

// bootstrap loads the configuration and builds the logger every command
// starts from.
func bootstrap(v *viper.Viper) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(os.Stderr, cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// maskDSN hides credentials in a connection URL for logging.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "****"
	}
	return u.Redacted()
}
