package scheduler

import (
	"context"
	"time"

	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/app"

	"github.com/sirupsen/logrus"
)

// NotifierWorker drives the payment-notification engine: every tick it
// runs generation then cleanup, sequentially, and sleeps. A failed tick
// sleeps the shorter backoff interval instead of the normal one; the loop
// itself never exits except through context cancellation.
type NotifierWorker struct {
	notifier app.PaymentNotifier
	logger   *logrus.Logger
	tick     time.Duration
	backoff  time.Duration
}

func NewNotifierWorker(notifier app.PaymentNotifier, logger *logrus.Logger, tick, backoff time.Duration) *NotifierWorker {
	return &NotifierWorker{
		notifier: notifier,
		logger:   logger,
		tick:     tick,
		backoff:  backoff,
	}
}

// Run blocks until ctx is cancelled. Cancellation is observed at the top
// of each iteration and during the sleep; an in-flight tick always runs
// to completion.
func (w *NotifierWorker) Run(ctx context.Context) {
	w.logger.Infof("Notifier worker started (tick: %s, backoff: %s)", w.tick, w.backoff)

	for {
		if ctx.Err() != nil {
			w.logger.Info("Notifier worker stopped")
			return
		}

		delay := w.tick
		if err := w.runTick(ctx); err != nil {
			if ctx.Err() != nil {
				w.logger.Info("Notifier worker stopped")
				return
			}
			w.logger.Errorf("Notifier tick failed: %v", err)
			delay = w.backoff
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Info("Notifier worker stopped")
			return
		case <-timer.C:
		}
	}
}

// runTick executes one generate-then-sweep sequence. Generation and
// cleanup share the notifications table, so they never run concurrently.
func (w *NotifierWorker) runTick(ctx context.Context) error {
	if err := w.notifier.GeneratePaymentNotifications(ctx); err != nil {
		return err
	}
	return w.notifier.CleanupOldNotifications(ctx)
}
