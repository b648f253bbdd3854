package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/shift-scheduler/internal/core/events"
	"github.com/frahmantamala/shift-scheduler/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event bus commands",
	Long:  `Inspect the event bus and exercise its subscribers`,
}

var (
	eventShiftID int64
	eventOwner   string
	eventActor   string
	eventDate    string
)

var publishEventCmd = &cobra.Command{
	Use:       "publish [shift.approved|shift.rejected|shift.deleted]",
	Short:     "Publish a shift event to the configured subscribers",
	Long:      `Publish a shift decision event synchronously. With mail configured this sends a real message to the owner.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{events.EventTypeShiftApproved, events.EventTypeShiftRejected, events.EventTypeShiftDeleted},
	RunE: func(cmd *cobra.Command, args []string) error {
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
		app := NewApp(cfg, stores, lg)

		app.Bus.Subscribe(args[0], func(ctx context.Context, event events.Event) error {
			lg.Info("event received", "event_id", event.EventID(), "event_type", event.EventType(), "payload", event.Payload())
			return nil
		})

		ev := events.NewShiftReviewedEvent(args[0], eventShiftID, eventOwner, eventActor, eventDate, "09:00", "18:00")
		if err := app.Bus.PublishSync(cmd.Context(), ev); err != nil {
			return fmt.Errorf("publish %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "published %s (%s)\n", ev.EventType(), ev.EventID())
		return nil
	},
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventShiftID, "shift-id", 0, "shift id carried by the event")
	publishEventCmd.Flags().StringVar(&eventOwner, "owner", "staff1", "username owning the shift")
	publishEventCmd.Flags().StringVar(&eventActor, "actor", "admin", "username that made the decision")
	publishEventCmd.Flags().StringVar(&eventDate, "date", "", "shift date, YYYY-MM-DD")

	eventCmd.AddCommand(publishEventCmd)
}
