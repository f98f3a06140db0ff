package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/domain/subscription"

	"github.com/shopspring/decimal"
)

// DashboardSummary carries the headline metrics for the dashboard view.
type DashboardSummary struct {
	TotalMonthly     decimal.Decimal
	YearlyProjected  decimal.Decimal
	ActiveCount      int
	DueSoonCount     int
	TopSubscriptions []*subscription.Subscription
	UpcomingPayments []*subscription.Subscription
}

// CategoryStat aggregates spend for one subscription category.
type CategoryStat struct {
	Category     string
	MonthlySpend decimal.Decimal
	Count        int
}

// MonthlyTrend is one point of the six-month spend series.
type MonthlyTrend struct {
	Month             string
	MonthShort        string
	Amount            decimal.Decimal
	SubscriptionCount int
}

// ReportSummary carries the analytics for the reports view. All per-item
// costs are normalized to monthly amounts (yearly prices divided by 12).
type ReportSummary struct {
	CategoryStats     []CategoryStat
	TopSubscriptions  []*subscription.Subscription
	TotalMonthlySpend decimal.Decimal
	TotalYearlySpend  decimal.Decimal
	ActiveCount       int
	AverageMonthly    decimal.Decimal
	HighestMonthly    decimal.Decimal
	LowestMonthly     decimal.Decimal
	MonthlyTrends     []MonthlyTrend
}

// ReportService computes dashboard and report aggregates from the
// subscription list.
type ReportService struct {
	subRepo subscription.Repository
	now     Clock
}

func NewReportService(subRepo subscription.Repository, now Clock) *ReportService {
	return &ReportService{subRepo: subRepo, now: now}
}

const (
	dueSoonHorizonDays  = 5
	upcomingHorizonDays = 7
	topSubscriptionsMax = 5
	trendMonths         = 6
)

// Dashboard builds the overview metrics: raw monthly total, yearly
// projection, active count, due-soon count, most expensive subscriptions
// and the next week's payments.
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	subs, err := s.subRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	now := s.now().UTC()
	out := &DashboardSummary{
		ActiveCount:      len(subs),
		TopSubscriptions: make([]*subscription.Subscription, 0, topSubscriptionsMax),
		UpcomingPayments: make([]*subscription.Subscription, 0, topSubscriptionsMax),
	}

	var yearlySum decimal.Decimal
	for _, sub := range subs {
		switch sub.BillingCycle {
		case subscription.CycleMonthly:
			out.TotalMonthly = out.TotalMonthly.Add(sub.Price)
		case subscription.CycleYearly:
			yearlySum = yearlySum.Add(sub.Price)
		}

		days := sub.DaysUntilPayment(now)
		if days >= 0 && days <= dueSoonHorizonDays {
			out.DueSoonCount++
		}
		if days >= 0 && days <= upcomingHorizonDays {
			out.UpcomingPayments = append(out.UpcomingPayments, sub)
		}
	}
	out.YearlyProjected = out.TotalMonthly.Mul(twelve).Add(yearlySum)

	// Upcoming payments come back date-ordered from List; cap at five.
	if len(out.UpcomingPayments) > topSubscriptionsMax {
		out.UpcomingPayments = out.UpcomingPayments[:topSubscriptionsMax]
	}

	out.TopSubscriptions = topByCost(subs, func(sub *subscription.Subscription) decimal.Decimal {
		return sub.Price
	})
	return out, nil
}

// Reports builds the analytics view: per-category normalized spend,
// totals, average/extremes and the monthly trend series.
func (s *ReportService) Reports(ctx context.Context) (*ReportSummary, error) {
	subs, err := s.subRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	out := &ReportSummary{
		ActiveCount:      len(subs),
		CategoryStats:    make([]CategoryStat, 0),
		TopSubscriptions: topByCost(subs, func(sub *subscription.Subscription) decimal.Decimal {
			return sub.MonthlyCost()
		}),
	}

	byCategory := make(map[string]*CategoryStat)
	for i, sub := range subs {
		monthly := sub.MonthlyCost()
		out.TotalMonthlySpend = out.TotalMonthlySpend.Add(monthly)

		if sub.BillingCycle == subscription.CycleYearly {
			out.TotalYearlySpend = out.TotalYearlySpend.Add(sub.Price)
		} else {
			out.TotalYearlySpend = out.TotalYearlySpend.Add(sub.Price.Mul(twelve))
		}

		stat, ok := byCategory[sub.Category]
		if !ok {
			stat = &CategoryStat{Category: sub.Category}
			byCategory[sub.Category] = stat
		}
		stat.MonthlySpend = stat.MonthlySpend.Add(monthly)
		stat.Count++

		if i == 0 || monthly.GreaterThan(out.HighestMonthly) {
			out.HighestMonthly = monthly
		}
		if i == 0 || monthly.LessThan(out.LowestMonthly) {
			out.LowestMonthly = monthly
		}
	}

	for _, stat := range byCategory {
		out.CategoryStats = append(out.CategoryStats, *stat)
	}
	sort.Slice(out.CategoryStats, func(i, j int) bool {
		return out.CategoryStats[i].MonthlySpend.GreaterThan(out.CategoryStats[j].MonthlySpend)
	})

	if out.ActiveCount > 0 {
		out.AverageMonthly = out.TotalMonthlySpend.Div(decimal.NewFromInt(int64(out.ActiveCount)))
	}

	out.MonthlyTrends = s.monthlyTrends(out.TotalMonthlySpend, out.ActiveCount)
	return out, nil
}

// monthlyTrends labels the last six months with the current spend level.
// Without a payment history table there is nothing to differentiate past
// months, so each point carries the present totals.
func (s *ReportService) monthlyTrends(monthlySpend decimal.Decimal, count int) []MonthlyTrend {
	now := s.now().UTC()
	trends := make([]MonthlyTrend, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		month := now.AddDate(0, -i, 0)
		trends = append(trends, MonthlyTrend{
			Month:             month.Format("Jan 2006"),
			MonthShort:        month.Format("Jan"),
			Amount:            monthlySpend,
			SubscriptionCount: count,
		})
	}
	return trends
}

var twelve = decimal.NewFromInt(12)

func topByCost(subs []*subscription.Subscription, cost func(*subscription.Subscription) decimal.Decimal) []*subscription.Subscription {
	sorted := make([]*subscription.Subscription, len(subs))
	copy(sorted, subs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return cost(sorted[i]).GreaterThan(cost(sorted[j]))
	})
	if len(sorted) > topSubscriptionsMax {
		sorted = sorted[:topSubscriptionsMax]
	}
	return sorted
}
