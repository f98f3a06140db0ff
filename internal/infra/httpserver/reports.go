package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// handleDashboard serves the overview metrics. The dashboard degrades
// gracefully when the store is down instead of failing the page load.
func (s *Server) handleDashboard(c *gin.Context) {
	if !s.probe(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Database not available"})
		return
	}

	summary, err := s.reports.Dashboard(c.Request.Context())
	if err != nil {
		s.logger.Errorf("Error loading dashboard data: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error"})
		return
	}

	top := make([]subscriptionResponse, 0, len(summary.TopSubscriptions))
	for _, sub := range summary.TopSubscriptions {
		top = append(top, s.toSubscriptionResponse(sub))
	}
	upcoming := make([]subscriptionResponse, 0, len(summary.UpcomingPayments))
	for _, sub := range summary.UpcomingPayments {
		upcoming = append(upcoming, s.toSubscriptionResponse(sub))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"totalMonthly":     summary.TotalMonthly.Round(2),
		"yearlyProjected":  summary.YearlyProjected.Round(2),
		"activeCount":      summary.ActiveCount,
		"dueSoonCount":     summary.DueSoonCount,
		"topSubscriptions": top,
		"upcomingPayments": upcoming,
	})
}

type categoryStatResponse struct {
	Category     string          `json:"category"`
	MonthlySpend decimal.Decimal `json:"monthlySpend"`
	Count        int             `json:"count"`
}

type monthlyTrendResponse struct {
	Month             string          `json:"month"`
	MonthShort        string          `json:"monthShort"`
	Amount            decimal.Decimal `json:"amount"`
	SubscriptionCount int             `json:"subscriptionCount"`
}

func (s *Server) handleReports(c *gin.Context) {
	if !s.probe(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Database not available"})
		return
	}

	summary, err := s.reports.Reports(c.Request.Context())
	if err != nil {
		s.logger.Errorf("Error loading report data: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error"})
		return
	}

	categories := make([]categoryStatResponse, 0, len(summary.CategoryStats))
	for _, stat := range summary.CategoryStats {
		categories = append(categories, categoryStatResponse{
			Category:     stat.Category,
			MonthlySpend: stat.MonthlySpend.Round(2),
			Count:        stat.Count,
		})
	}

	trends := make([]monthlyTrendResponse, 0, len(summary.MonthlyTrends))
	for _, trend := range summary.MonthlyTrends {
		trends = append(trends, monthlyTrendResponse{
			Month:             trend.Month,
			MonthShort:        trend.MonthShort,
			Amount:            trend.Amount.Round(2),
			SubscriptionCount: trend.SubscriptionCount,
		})
	}

	top := make([]subscriptionResponse, 0, len(summary.TopSubscriptions))
	for _, sub := range summary.TopSubscriptions {
		top = append(top, s.toSubscriptionResponse(sub))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"categories":        categories,
		"topSubscriptions":  top,
		"totalMonthlySpend": summary.TotalMonthlySpend.Round(2),
		"totalYearlySpend":  summary.TotalYearlySpend.Round(2),
		"activeCount":       summary.ActiveCount,
		"averageMonthly":    summary.AverageMonthly.Round(2),
		"highestMonthly":    summary.HighestMonthly.Round(2),
		"lowestMonthly":     summary.LowestMonthly.Round(2),
		"monthlyTrends":     trends,
	})
}
