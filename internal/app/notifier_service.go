package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/currency"
	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/domain/notification"
	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/domain/subscription"

	"github.com/sirupsen/logrus"
)

// PaymentNotifier defines the work performed on every scheduler tick:
// generate payment notifications, then sweep expired ones.
type PaymentNotifier interface {
	GeneratePaymentNotifications(ctx context.Context) error
	CleanupOldNotifications(ctx context.Context) error
}

// StoreProbe reports whether the backing store is currently reachable.
// A false result is a soft condition: the affected pass is skipped, not failed.
type StoreProbe func(ctx context.Context) bool

// Clock supplies the current instant. Injected so tests can pin time.
type Clock func() time.Time

// NotifierService generates payment-due notifications for subscriptions
// and retires read notifications past the retention window.
type NotifierService struct {
	subRepo   subscription.Repository
	notifRepo notification.Repository
	probe     StoreProbe
	now       Clock
	logger    *logrus.Logger

	dedupWindow     time.Duration
	retentionWindow time.Duration
	currencyCode    string
}

func NewNotifierService(
	subRepo subscription.Repository,
	notifRepo notification.Repository,
	probe StoreProbe,
	now Clock,
	logger *logrus.Logger,
	dedupWindow time.Duration,
	retentionWindow time.Duration,
	currencyCode string,
) *NotifierService {
	return &NotifierService{
		subRepo:         subRepo,
		notifRepo:       notifRepo,
		probe:           probe,
		now:             now,
		logger:          logger,
		dedupWindow:     dedupWindow,
		retentionWindow: retentionWindow,
		currencyCode:    currencyCode,
	}
}

// GeneratePaymentNotifications scans all subscriptions and inserts at most
// one notification per subscription, picked by the payment-due rules. A
// subscription already notified within the dedup window is skipped entirely,
// so re-running within the window is idempotent.
//
// All day math uses the UTC civil date of the injected clock, and the same
// instant stamps CreatedAt and bounds the dedup lookback.
func (s *NotifierService) GeneratePaymentNotifications(ctx context.Context) error {
	if !s.probe(ctx) {
		s.logger.Warn("Database not available for notification generation")
		return nil
	}

	subs, err := s.subRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subscriptions: %w", err)
	}

	now := s.now().UTC()
	dedupCutoff := now.Add(-s.dedupWindow)
	toAdd := make([]*notification.Notification, 0)

	for _, sub := range subs {
		daysUntil := sub.DaysUntilPayment(now)

		recent, err := s.notifRepo.ListRecentBySubscription(ctx, sub.ID, dedupCutoff)
		if err != nil {
			return fmt.Errorf("failed to check recent notifications for subscription %d: %w", sub.ID, err)
		}
		if len(recent) > 0 {
			continue // Already notified within the dedup window.
		}

		if n := s.buildPaymentNotification(sub, daysUntil, now); n != nil {
			toAdd = append(toAdd, n)
		}
	}

	if len(toAdd) == 0 {
		return nil
	}
	if err := s.notifRepo.BulkCreate(ctx, toAdd); err != nil {
		return fmt.Errorf("failed to insert generated notifications: %w", err)
	}
	s.logger.Infof("Generated %d new notifications", len(toAdd))
	return nil
}

// buildPaymentNotification evaluates the payment-due rules in priority
// order and returns the first match, or nil when no rule applies. The
// exact-day triggers (0, 1, 3, 7) keep the gap days quiet.
func (s *NotifierService) buildPaymentNotification(sub *subscription.Subscription, daysUntil int, now time.Time) *notification.Notification {
	price := currency.Format(sub.Price, s.currencyCode)

	var n *notification.Notification
	switch {
	case daysUntil < 0:
		n = &notification.Notification{
			Type:     notification.TypeError,
			Icon:     "bi-exclamation-circle-fill",
			Title:    "Payment Overdue",
			Message:  fmt.Sprintf("%s payment is overdue! Due date was %s", sub.ServiceName, sub.NextPaymentDate.Format("Jan 02")),
			Priority: notification.PriorityHigh,
		}
	case daysUntil == 0:
		n = &notification.Notification{
			Type:     notification.TypeError,
			Icon:     "bi-calendar-x",
			Title:    "Payment Due Today",
			Message:  fmt.Sprintf("%s payment of %s is due today", sub.ServiceName, price),
			Priority: notification.PriorityHigh,
		}
	case daysUntil == 1:
		n = &notification.Notification{
			Type:     notification.TypeWarning,
			Icon:     "bi-calendar-event",
			Title:    "Payment Tomorrow",
			Message:  fmt.Sprintf("%s payment of %s due tomorrow", sub.ServiceName, price),
			Priority: notification.PriorityHigh,
		}
	case daysUntil == 3:
		n = &notification.Notification{
			Type:     notification.TypeWarning,
			Icon:     "bi-bell",
			Title:    "Payment Coming Soon",
			Message:  fmt.Sprintf("%s payment of %s due in 3 days", sub.ServiceName, price),
			Priority: notification.PriorityMedium,
		}
	case daysUntil == 7:
		n = &notification.Notification{
			Type:     notification.TypeInfo,
			Icon:     "bi-clock-history",
			Title:    "Payment Next Week",
			Message:  fmt.Sprintf("%s payment of %s due in 1 week", sub.ServiceName, price),
			Priority: notification.PriorityLow,
		}
	default:
		return nil
	}

	n.SubscriptionID = sql.NullInt64{Int64: sub.ID, Valid: true}
	n.IsRead = false
	n.CreatedAt = now
	return n
}

// CleanupOldNotifications deletes read notifications older than the
// retention window. Unread notifications are kept regardless of age.
func (s *NotifierService) CleanupOldNotifications(ctx context.Context) error {
	if !s.probe(ctx) {
		s.logger.Warn("Database not available for notification cleanup")
		return nil
	}

	cutoff := s.now().UTC().Add(-s.retentionWindow)
	stale, err := s.notifRepo.ListStale(ctx, true, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list stale notifications: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(stale))
	for _, n := range stale {
		ids = append(ids, n.ID)
	}
	deleted, err := s.notifRepo.DeleteBatch(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to delete stale notifications: %w", err)
	}
	s.logger.Infof("Cleaned up %d old notifications", deleted)
	return nil
}
