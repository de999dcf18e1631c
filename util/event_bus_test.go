// util/event_bus_test.go
package util_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	logger "github.com/dive25/pep/logging"
	"github.com/dive25/pep/util"
)

func TestEventBus(t *testing.T) {
	logger.InitLogger("../logging")
	defer logger.Sync()

	t.Run("DeliversToSubscriber", func(t *testing.T) {
		bus := util.NewEventBus()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		bus.Start(ctx)

		received := make(chan util.Event, 1)
		bus.Subscribe(util.EventDecisionRecorded, func(_ context.Context, event util.Event) error {
			received <- event
			return nil
		})

		bus.Publish(ctx, util.EventDecisionRecorded, "payload")

		select {
		case event := <-received:
			assert.Equal(t, util.EventDecisionRecorded, event.Type)
			assert.Equal(t, "payload", event.Payload)
		case <-time.After(2 * time.Second):
			t.Fatal("event not delivered")
		}
	})

	t.Run("PublishWithoutSubscribersIsNoop", func(t *testing.T) {
		bus := util.NewEventBus()
		bus.Publish(context.Background(), util.EventAccessDenied, "payload")
	})

	t.Run("FailingHandlerDoesNotBlockPublisher", func(t *testing.T) {
		bus := util.NewEventBus()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		bus.Start(ctx)

		done := make(chan struct{}, 1)
		bus.Subscribe(util.EventTokenRevoked, func(_ context.Context, _ util.Event) error {
			done <- struct{}{}
			return errors.New("sink down")
		})

		// Publish must return immediately regardless of the handler outcome.
		bus.Publish(ctx, util.EventTokenRevoked, "jdoe@mil")

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("handler never ran")
		}
	})
}
