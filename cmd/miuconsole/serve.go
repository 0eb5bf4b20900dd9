package main

import (
	"github.com/spf13/cobra"
	"github.com/terraincognita07/miuconsole/internal/apiclient"
	"github.com/terraincognita07/miuconsole/internal/config"
	"github.com/terraincognita07/miuconsole/internal/console"
	"github.com/terraincognita07/miuconsole/internal/i18n"
	"go.uber.org/zap"
)

func newServeCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web console in front of the upstream API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := options.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			server, err := newConsoleServer(cfg, logger)
			if err != nil {
				return err
			}
			logger.Info("console listening",
				zap.String("addr", cfg.Console.Listen),
				zap.String("upstream", cfg.Upstream.BaseURL),
				zap.String("tz", cfg.Location().String()))
			return listenUntilSignal(cmd.Context(), server.App(), cfg.Console.Listen, logger)
		},
	}
}

func newConsoleServer(cfg *config.Config, logger *zap.Logger) (*console.Server, error) {
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, err
	}
	client, err := apiclient.New(apiclient.Config{
		BaseURL:         cfg.Upstream.BaseURL,
		RefreshPath:     cfg.Upstream.RefreshPath,
		RequestTimeout:  timeout,
		CoalesceRefresh: cfg.Upstream.CoalesceRefresh,
		Logger:          logger.Named("apiclient"),
	})
	if err != nil {
		return nil, err
	}
	messages, err := i18n.NewEmbedded(cfg.Console.DefaultLanguage)
	if err != nil {
		return nil, err
	}
	return console.NewServer(console.Options{
		Client:       client,
		I18n:         messages,
		Logger:       logger.Named("console"),
		Location:     cfg.Location(),
		CookieSecure: cfg.Console.CookieSecure,
		UsersPerPage: cfg.Console.UsersPerPage,
	})
}
