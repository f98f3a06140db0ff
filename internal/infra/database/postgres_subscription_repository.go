package database

import (
	"context"
	"database/sql"

	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/domain/subscription"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"
)

// ErrSubscriptionNotFound is returned when a subscription row does not exist.
var ErrSubscriptionNotFound = errors.New("subscription not found")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var subscriptionColumns = []string{"id", "service_name", "price", "billing_cycle", "next_payment_date", "category"}

type PostgresSubscriptionRepository struct {
	db *sql.DB
}

func NewPostgresSubscriptionRepository(db *sql.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

func (r *PostgresSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	wrapMsg := "unable to create subscription"

	statement, args, err := psql.
		Insert("subscriptions").
		Columns("service_name", "price", "billing_cycle", "next_payment_date", "category").
		Values(sub.ServiceName, sub.Price, sub.BillingCycle, sub.NextPaymentDate, sub.Category).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	if err := r.db.QueryRowContext(ctx, statement, args...).Scan(&sub.ID); err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}

func (r *PostgresSubscriptionRepository) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	wrapMsg := "unable to get subscription"

	statement, args, err := psql.
		Select(subscriptionColumns...).
		From("subscriptions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	sub := subscription.Subscription{}
	err = r.db.QueryRowContext(ctx, statement, args...).Scan(
		&sub.ID, &sub.ServiceName, &sub.Price, &sub.BillingCycle, &sub.NextPaymentDate, &sub.Category,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubscriptionNotFound
		}
		return nil, errors.Wrap(err, wrapMsg)
	}
	return &sub, nil
}

func (r *PostgresSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	wrapMsg := "unable to update subscription"

	statement, args, err := psql.
		Update("subscriptions").
		Set("service_name", sub.ServiceName).
		Set("price", sub.Price).
		Set("billing_cycle", sub.BillingCycle).
		Set("next_payment_date", sub.NextPaymentDate).
		Set("category", sub.Category).
		Where(sq.Eq{"id": sub.ID}).
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
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, id int64) error {
	wrapMsg := "unable to delete subscription"

	statement, args, err := psql.
		Delete("subscriptions").
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
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *PostgresSubscriptionRepository) List(ctx context.Context) ([]*subscription.Subscription, error) {
	wrapMsg := "unable to list subscriptions"

	statement, args, err := psql.
		Select(subscriptionColumns...).
		From("subscriptions").
		OrderBy("next_payment_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	rows, err := r.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer rows.Close()

	subs := make([]*subscription.Subscription, 0)
	for rows.Next() {
		sub := subscription.Subscription{}
		if err := rows.Scan(
			&sub.ID, &sub.ServiceName, &sub.Price, &sub.BillingCycle, &sub.NextPaymentDate, &sub.Category,
		); err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return subs, nil
}
