package notification

import (
	"context"
	"time"
)

// Repository defines the persistence operations for Notification rows.
type Repository interface {
	// ListRecentBySubscription returns notifications for the subscription
	// created after the given instant. Used as the dedup guard before
	// generating a new payment notification.
	ListRecentBySubscription(ctx context.Context, subscriptionID int64, since time.Time) ([]*Notification, error)

	// BulkCreate inserts a batch of notifications in a single transaction.
	BulkCreate(ctx context.Context, notifications []*Notification) error

	// ListStale returns notifications with the given read state created
	// before the cutoff. The retention sweeper feeds its result to DeleteBatch.
	ListStale(ctx context.Context, isRead bool, olderThan time.Time) ([]*Notification, error)

	// DeleteBatch removes the identified notifications and reports how
	// many rows were actually deleted.
	DeleteBatch(ctx context.Context, ids []int64) (int64, error)

	// ListFeed returns unread notifications plus read ones created after
	// readSince, ordered by priority (high first) then recency, capped at limit.
	ListFeed(ctx context.Context, readSince time.Time, limit int) ([]*Notification, error)

	GetByID(ctx context.Context, id int64) (*Notification, error)
	MarkRead(ctx context.Context, id int64, readAt time.Time) error
	MarkAllRead(ctx context.Context, readAt time.Time) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
}
