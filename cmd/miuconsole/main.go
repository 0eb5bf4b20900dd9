package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/miuconsole/internal/config"
	"github.com/terraincognita07/miuconsole/internal/logging"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type rootOptions struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	options := &rootOptions{}
	root := &cobra.Command{
		Use:           "miuconsole",
		Short:         "Admin and member console for the Miu API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&options.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&options.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newServeCommand(options),
		newDevAPICommand(options),
		newResetAdminPasswordCommand(options),
	)
	return root
}

func (options *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(options.configPath)
	if err != nil {
		return nil, nil, err
	}
	if options.verbose {
		cfg.Logging.Level = "debug"
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// listenUntilSignal serves app on addr and shuts it down on SIGINT or SIGTERM.
func listenUntilSignal(ctx context.Context, app *fiber.App, addr string, logger *zap.Logger) error {
	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	if err := app.Listen(addr); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server exited: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
