package subscription

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Subscription entities.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id int64) (*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error
	Delete(ctx context.Context, id int64) error
	// List returns all subscriptions ordered by next payment date.
	List(ctx context.Context) ([]*Subscription, error)
}
