package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingCycle describes how often a subscription charges.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "Monthly"
	CycleYearly  BillingCycle = "Yearly"
)

// Valid reports whether the billing cycle is one of the known values.
func (c BillingCycle) Valid() bool {
	return c == CycleMonthly || c == CycleYearly
}

// Subscription represents a recurring payment tracked by the system.
// NextPaymentDate carries only a calendar date; the time portion is
// always midnight UTC.
type Subscription struct {
	ID              int64
	ServiceName     string
	Price           decimal.Decimal
	BillingCycle    BillingCycle
	NextPaymentDate time.Time
	Category        string
}

var twelve = decimal.NewFromInt(12)

// MonthlyCost returns the price normalized to a monthly amount.
// Yearly subscriptions are spread across twelve months.
func (s *Subscription) MonthlyCost() decimal.Decimal {
	if s.BillingCycle == CycleYearly {
		return s.Price.Div(twelve)
	}
	return s.Price
}

// DaysUntilPayment returns the whole-day difference between the next
// payment date and the given reference date. Negative means overdue.
func (s *Subscription) DaysUntilPayment(today time.Time) int {
	due := time.Date(s.NextPaymentDate.Year(), s.NextPaymentDate.Month(), s.NextPaymentDate.Day(), 0, 0, 0, 0, time.UTC)
	ref := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(due.Sub(ref).Hours() / 24)
}
