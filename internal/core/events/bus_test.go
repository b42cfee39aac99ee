package events_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/plan-checkout/internal/core/events"
)

var _ = Describe("EventBus", func() {
	var (
		bus    *events.EventBus
		logger *slog.Logger
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		bus = events.NewEventBus(logger)
	})

	It("delivers published events to every subscriber", func() {
		received := make(chan events.Event, 2)
		handler := func(ctx context.Context, event events.Event) error {
			received <- event
			return nil
		}
		bus.Subscribe(events.EventTypeCheckoutSucceeded, handler)
		bus.Subscribe(events.EventTypeCheckoutSucceeded, handler)

		event := events.NewCheckoutSucceededEvent("plan-1", "order-1", "85")
		Expect(bus.Publish(context.Background(), event)).To(Succeed())

		Eventually(received).Should(HaveLen(2))
	})

	It("does not block the publisher on slow handlers", func() {
		release := make(chan struct{})
		bus.Subscribe(events.EventTypeCheckoutFailed, func(ctx context.Context, event events.Event) error {
			<-release
			return nil
		})

		start := time.Now()
		Expect(bus.Publish(context.Background(), events.NewCheckoutFailedEvent("p", "", "FetchingPlan", "PLAN_NOT_FOUND"))).To(Succeed())
		Expect(time.Since(start)).To(BeNumerically("<", 100*time.Millisecond))

		close(release)
		Expect(bus.Close(context.Background())).To(Succeed())
	})

	It("keeps handlers running after the publishing context is cancelled", func() {
		var (
			mu     sync.Mutex
			ctxErr error
		)
		done := make(chan struct{})
		bus.Subscribe(events.EventTypeCheckoutAmountComputed, func(ctx context.Context, event events.Event) error {
			time.Sleep(20 * time.Millisecond)
			mu.Lock()
			ctxErr = ctx.Err()
			mu.Unlock()
			close(done)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		event := events.NewAmountComputedEvent("p", "o", "100", "85", "15", "USD", "SAVE15")
		Expect(bus.Publish(ctx, event)).To(Succeed())
		cancel()

		Eventually(done).Should(BeClosed())
		mu.Lock()
		defer mu.Unlock()
		Expect(ctxErr).To(BeNil())
	})

	It("ignores events without subscribers", func() {
		Expect(bus.Publish(context.Background(), events.NewCheckoutSucceededEvent("p", "o", "1"))).To(Succeed())
		Expect(bus.PublishSync(context.Background(), events.NewCheckoutSucceededEvent("p", "o", "1"))).To(Succeed())
	})

	It("returns handler errors from PublishSync", func() {
		bus.Subscribe(events.EventTypeCheckoutSucceeded, func(ctx context.Context, event events.Event) error {
			return errors.New("sink down")
		})

		err := bus.PublishSync(context.Background(), events.NewCheckoutSucceededEvent("p", "o", "1"))
		Expect(err).To(MatchError(ContainSubstring("sink down")))
	})

	It("gives up waiting on Close when the context expires", func() {
		block := make(chan struct{})
		defer close(block)
		bus.Subscribe(events.EventTypeCheckoutSucceeded, func(ctx context.Context, event events.Event) error {
			<-block
			return nil
		})
		Expect(bus.Publish(context.Background(), events.NewCheckoutSucceededEvent("p", "o", "1"))).To(Succeed())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		Expect(bus.Close(ctx)).To(MatchError(context.DeadlineExceeded))
	})
})

var _ = Describe("AuditLogger", func() {
	It("logs the event type and payload", func() {
		var buf bytes.Buffer
		handler := events.AuditLogger(slog.New(slog.NewTextHandler(&buf, nil)))

		event := events.NewAmountComputedEvent("plan-1", "order-1", "100", "85", "15", "USD", "SAVE15")
		Expect(handler(context.Background(), event)).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("checkout.amount_computed"))
		Expect(buf.String()).To(ContainSubstring("final_amount:85"))
	})
})
