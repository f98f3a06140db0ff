package notification

import (
	"database/sql"
	"fmt"
	"time"
)

// Type is the severity class of a notification.
type Type string

const (
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Priority controls ordering in the notification feed.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Notification is an in-app alert row, usually tied to a subscription's
// upcoming or overdue payment. Deleting the subscription nulls the
// reference instead of cascading, so SubscriptionID is nullable.
type Notification struct {
	ID             int64
	Type           Type
	Title          string
	Message        string
	Icon           string
	Priority       Priority
	SubscriptionID sql.NullInt64
	IsRead         bool
	CreatedAt      time.Time
	ReadAt         sql.NullTime
}

// TimeAgo renders the notification age as a short display string
// relative to the given instant.
func (n *Notification) TimeAgo(now time.Time) string {
	span := now.Sub(n.CreatedAt)
	switch {
	case span < time.Minute:
		return "Just now"
	case span < time.Hour:
		return fmt.Sprintf("%dm ago", int(span.Minutes()))
	case span < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(span.Hours()))
	case span < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(span.Hours()/24))
	}
	return n.CreatedAt.Format("Jan 02, 2006")
}
