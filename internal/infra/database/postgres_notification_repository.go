package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/domain/notification"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"
)

// ErrNotificationNotFound is returned when a notification row does not exist.
var ErrNotificationNotFound = errors.New("notification not found")

var notificationColumns = []string{
	"id", "type", "title", "message", "icon", "priority",
	"subscription_id", "is_read", "created_at", "read_at",
}

// priorityOrder sorts high before medium before low in feed queries.
const priorityOrder = "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END"

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) ListRecentBySubscription(ctx context.Context, subscriptionID int64, since time.Time) ([]*notification.Notification, error) {
	wrapMsg := "unable to list recent notifications for subscription"

	statement, args, err := psql.
		Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"subscription_id": subscriptionID}).
		Where(sq.Gt{"created_at": since}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	rows, err := r.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer rows.Close()
	return scanNotifications(rows, wrapMsg)
}

func (r *PostgresNotificationRepository) BulkCreate(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction for bulk create")
	}
	defer txn.Rollback() // Rollback if not committed

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO notifications (type, title, message, icon, priority, subscription_id, is_read, created_at)
                                         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                                         RETURNING id`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare statement for bulk create")
	}
	defer stmt.Close()

	for _, n := range notifications {
		err := stmt.QueryRowContext(ctx,
			n.Type, n.Title, n.Message, n.Icon, n.Priority, n.SubscriptionID, n.IsRead, n.CreatedAt,
		).Scan(&n.ID)
		if err != nil {
			return errors.Wrapf(err, "error inserting notification %q for subscription %d", n.Title, n.SubscriptionID.Int64)
		}
	}

	return txn.Commit()
}

func (r *PostgresNotificationRepository) ListStale(ctx context.Context, isRead bool, olderThan time.Time) ([]*notification.Notification, error) {
	wrapMsg := "unable to list stale notifications"

	statement, args, err := psql.
		Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"is_read": isRead}).
		Where(sq.Lt{"created_at": olderThan}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	rows, err := r.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer rows.Close()
	return scanNotifications(rows, wrapMsg)
}

func (r *PostgresNotificationRepository) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	wrapMsg := "unable to delete notification batch"

	statement, args, err := psql.
		Delete("notifications").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}

	result, err := r.db.ExecContext(ctx, statement, args...)
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}
	return deleted, nil
}

func (r *PostgresNotificationRepository) ListFeed(ctx context.Context, readSince time.Time, limit int) ([]*notification.Notification, error) {
	wrapMsg := "unable to list notification feed"

	statement, args, err := psql.
		Select(notificationColumns...).
		From("notifications").
		Where(sq.Or{
			sq.Eq{"is_read": false},
			sq.Gt{"created_at": readSince},
		}).
		OrderBy(priorityOrder, "created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	rows, err := r.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer rows.Close()
	return scanNotifications(rows, wrapMsg)
}

func (r *PostgresNotificationRepository) GetByID(ctx context.Context, id int64) (*notification.Notification, error) {
	wrapMsg := "unable to get notification"

	statement, args, err := psql.
		Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	n := notification.Notification{}
	err = r.db.QueryRowContext(ctx, statement, args...).Scan(
		&n.ID, &n.Type, &n.Title, &n.Message, &n.Icon, &n.Priority,
		&n.SubscriptionID, &n.IsRead, &n.CreatedAt, &n.ReadAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotificationNotFound
		}
		return nil, errors.Wrap(err, wrapMsg)
	}
	return &n, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id int64, readAt time.Time) error {
	wrapMsg := "unable to mark notification read"

	statement, args, err := psql.
		Update("notifications").
		Set("is_read", true).
		Set("read_at", readAt).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"is_read": false}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	if _, err := r.db.ExecContext(ctx, statement, args...); err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, readAt time.Time) (int64, error) {
	wrapMsg := "unable to mark all notifications read"

	statement, args, err := psql.
		Update("notifications").
		Set("is_read", true).
		Set("read_at", readAt).
		Where(sq.Eq{"is_read": false}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}

	result, err := r.db.ExecContext(ctx, statement, args...)
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}
	return updated, nil
}

func (r *PostgresNotificationRepository) Delete(ctx context.Context, id int64) error {
	wrapMsg := "unable to delete notification"

	statement, args, err := psql.
		Delete("notifications").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	result, err := r.db.ExecContext(ctx, statement, args...)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) DeleteAll(ctx context.Context) (int64, error) {
	wrapMsg := "unable to delete all notifications"

	statement, args, err := psql.Delete("notifications").ToSql()
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}

	result, err := r.db.ExecContext(ctx, statement, args...)
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}
	return deleted, nil
}

func (r *PostgresNotificationRepository) CountUnread(ctx context.Context) (int64, error) {
	wrapMsg := "unable to count unread notifications"

	statement, args, err := psql.
		Select("count(*)").
		From("notifications").
		Where(sq.Eq{"is_read": false}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, statement, args...).Scan(&total); err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}
	return total, nil
}

// Helper to scan multiple rows.
func scanNotifications(rows *sql.Rows, wrapMsg string) ([]*notification.Notification, error) {
	notifications := make([]*notification.Notification, 0)
	for rows.Next() {
		n := notification.Notification{}
		if err := rows.Scan(
			&n.ID, &n.Type, &n.Title, &n.Message, &n.Icon, &n.Priority,
			&n.SubscriptionID, &n.IsRead, &n.CreatedAt, &n.ReadAt,
		); err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return notifications, nil
}
