package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/shift-scheduler/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Run background jobs without the HTTP server.`,
}

var sweeperWorkerCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Start the notification sweeper",
	Long:  `Periodically delete read notifications older than the retention window`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startSweeperWorker(cmd.Context())
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete read notifications past retention once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		stores, err := openStores(cfg)
		if err != nil {
			return err
		}
		defer stores.Close()

		app := NewApp(cfg, stores, logger.LoggerWrapper())
		n, err := app.Notifications.Purge(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "purged %d notifications\n", n)
		return nil
	},
}

func startSweeperWorker(parent context.Context) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg.Info("starting sweeper worker",
		"interval", cfg.Notification.PurgeInterval.String(),
		"retention", cfg.Notification.Retention.String(),
		"distributed_lock", stores.Redis != nil)

	return NewApp(cfg, stores, lg).Sweeper.Run(ctx)
}

func init() {
	workerCmd.AddCommand(sweeperWorkerCmd)
}
