package app

import (
	"context"
	"sort"
	"time"

	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/domain/notification"
	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/domain/subscription"
)

// mockSubscriptionRepo serves a fixed subscription list and can simulate
// repository failures.
type mockSubscriptionRepo struct {
	subs    []*subscription.Subscription
	listErr error
}

func (m *mockSubscriptionRepo) Create(_ context.Context, sub *subscription.Subscription) error {
	m.subs = append(m.subs, sub)
	return nil
}

func (m *mockSubscriptionRepo) GetByID(_ context.Context, id int64) (*subscription.Subscription, error) {
	for _, sub := range m.subs {
		if sub.ID == id {
			return sub, nil
		}
	}
	return nil, subscriptionNotFoundErr
}

func (m *mockSubscriptionRepo) Update(_ context.Context, _ *subscription.Subscription) error {
	return nil
}

func (m *mockSubscriptionRepo) Delete(_ context.Context, _ int64) error { return nil }

func (m *mockSubscriptionRepo) List(_ context.Context) ([]*subscription.Subscription, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.subs, nil
}

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

const subscriptionNotFoundErr = notFoundError("subscription not found")
const notificationNotFoundErr = notFoundError("notification not found")

// mockNotificationRepo is an in-memory notification store implementing
// the full repository contract.
type mockNotificationRepo struct {
	items     []*notification.Notification
	nextID    int64
	listErr   error
	createErr error
}

func (m *mockNotificationRepo) ListRecentBySubscription(_ context.Context, subscriptionID int64, since time.Time) ([]*notification.Notification, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*notification.Notification, 0)
	for _, n := range m.items {
		if n.SubscriptionID.Valid && n.SubscriptionID.Int64 == subscriptionID && n.CreatedAt.After(since) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) BulkCreate(_ context.Context, notifications []*notification.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, n := range notifications {
		m.nextID++
		n.ID = m.nextID
		m.items = append(m.items, n)
	}
	return nil
}

func (m *mockNotificationRepo) ListStale(_ context.Context, isRead bool, olderThan time.Time) ([]*notification.Notification, error) {
	out := make([]*notification.Notification, 0)
	for _, n := range m.items {
		if n.IsRead == isRead && n.CreatedAt.Before(olderThan) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) DeleteBatch(_ context.Context, ids []int64) (int64, error) {
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.items[:0]
	var deleted int64
	for _, n := range m.items {
		if drop[n.ID] {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	m.items = kept
	return deleted, nil
}

func (m *mockNotificationRepo) ListFeed(_ context.Context, readSince time.Time, limit int) ([]*notification.Notification, error) {
	out := make([]*notification.Notification, 0)
	for _, n := range m.items {
		if !n.IsRead || n.CreatedAt.After(readSince) {
			out = append(out, n)
		}
	}
	rank := map[notification.Priority]int{
		notification.PriorityHigh:   0,
		notification.PriorityMedium: 1,
		notification.PriorityLow:    2,
	}
	sort.SliceStable(out, func(i, j int) bool {
		if rank[out[i].Priority] != rank[out[j].Priority] {
			return rank[out[i].Priority] < rank[out[j].Priority]
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id int64) (*notification.Notification, error) {
	for _, n := range m.items {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, notificationNotFoundErr
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id int64, readAt time.Time) error {
	for _, n := range m.items {
		if n.ID == id && !n.IsRead {
			n.IsRead = true
			n.ReadAt.Time = readAt
			n.ReadAt.Valid = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, readAt time.Time) (int64, error) {
	var count int64
	for _, n := range m.items {
		if !n.IsRead {
			n.IsRead = true
			n.ReadAt.Time = readAt
			n.ReadAt.Valid = true
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) Delete(_ context.Context, id int64) error {
	for i, n := range m.items {
		if n.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return notificationNotFoundErr
}

func (m *mockNotificationRepo) DeleteAll(_ context.Context) (int64, error) {
	count := int64(len(m.items))
	m.items = nil
	return count, nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context) (int64, error) {
	var count int64
	for _, n := range m.items {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}
