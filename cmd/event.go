package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/plan-checkout/internal/core/events"
	"github.com/frahmantamala/plan-checkout/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish checkout audit events to check subscriber wiring`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event through the audit logger subscriber`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(args[0])
	},
}

var eventPlanID string

func testEvent(eventType, planID string) (events.Event, error) {
	switch eventType {
	case events.EventTypeCheckoutAmountComputed:
		return events.NewAmountComputedEvent(planID, "cli-order", "100", "85", "15", "USD", "CLI15"), nil
	case events.EventTypeCheckoutSucceeded:
		return events.NewCheckoutSucceededEvent(planID, "cli-order", "85"), nil
	case events.EventTypeCheckoutFailed:
		return events.NewCheckoutFailedEvent(planID, "cli-order", "submitting_payment", "GATEWAY_REJECTED"), nil
	}
	return nil, fmt.Errorf("unknown event type %q", eventType)
}

func publishTestEvent(eventType string) error {
	lg := logger.LoggerWrapper()

	event, err := testEvent(eventType, eventPlanID)
	if err != nil {
		return err
	}

	eventBus := events.NewEventBus(lg)
	eventBus.Subscribe(eventType, events.AuditLogger(lg))

	lg.Info("publishing test event", "event_type", eventType, "event_id", event.EventID())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := eventBus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventPlanID, "plan", "cli-plan", "plan id carried by the event")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
