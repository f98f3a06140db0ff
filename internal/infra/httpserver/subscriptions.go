package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/domain/subscription"
	idb "github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/infra/database"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type subscriptionRequest struct {
	ServiceName     string          `json:"serviceName"`
	Price           decimal.Decimal `json:"price"`
	BillingCycle    string          `json:"billingCycle"`
	NextPaymentDate string          `json:"nextPaymentDate"`
	Category        string          `json:"category"`
}

// toSubscription validates the request and maps it to the domain entity.
// Returns a human-readable problem description on failure.
func (r *subscriptionRequest) toSubscription() (*subscription.Subscription, string) {
	name := strings.TrimSpace(r.ServiceName)
	if name == "" {
		return nil, "serviceName is required"
	}
	if r.Price.IsNegative() {
		return nil, "price must not be negative"
	}

	cycle := subscription.BillingCycle(r.BillingCycle)
	if cycle == "" {
		cycle = subscription.CycleMonthly
	}
	if !cycle.Valid() {
		return nil, "billingCycle must be Monthly or Yearly"
	}

	due, err := time.ParseInLocation(dateLayout, r.NextPaymentDate, time.UTC)
	if err != nil {
		return nil, "nextPaymentDate must be formatted as YYYY-MM-DD"
	}

	category := strings.TrimSpace(r.Category)
	if category == "" {
		category = "Entertainment"
	}

	return &subscription.Subscription{
		ServiceName:     name,
		Price:           r.Price.Round(2),
		BillingCycle:    cycle,
		NextPaymentDate: due,
		Category:        category,
	}, ""
}

type subscriptionResponse struct {
	ID              int64           `json:"id"`
	ServiceName     string          `json:"serviceName"`
	Price           decimal.Decimal `json:"price"`
	BillingCycle    string          `json:"billingCycle"`
	NextPaymentDate string          `json:"nextPaymentDate"`
	Category        string          `json:"category"`
	DaysUntil       int             `json:"daysUntil"`
}

func (s *Server) toSubscriptionResponse(sub *subscription.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:              sub.ID,
		ServiceName:     sub.ServiceName,
		Price:           sub.Price,
		BillingCycle:    string(sub.BillingCycle),
		NextPaymentDate: sub.NextPaymentDate.Format(dateLayout),
		Category:        sub.Category,
		DaysUntil:       sub.DaysUntilPayment(s.now().UTC()),
	}
}

func (s *Server) handleListSubscriptions(c *gin.Context) {
	subs, err := s.subRepo.List(c.Request.Context())
	if err != nil {
		s.logger.Errorf("Error listing subscriptions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error"})
		return
	}

	responses := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		responses = append(responses, s.toSubscriptionResponse(sub))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "subscriptions": responses})
}

func (s *Server) handleCreateSubscription(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	sub, problem := req.toSubscription()
	if problem != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": problem})
		return
	}

	if err := s.subRepo.Create(c.Request.Context(), sub); err != nil {
		s.logger.Errorf("Error creating subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "subscription": s.toSubscriptionResponse(sub)})
}

func (s *Server) handleGetSubscription(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	sub, err := s.subRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == idb.ErrSubscriptionNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Subscription not found"})
			return
		}
		s.logger.Errorf("Error fetching subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "subscription": s.toSubscriptionResponse(sub)})
}

func (s *Server) handleUpdateSubscription(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	sub, problem := req.toSubscription()
	if problem != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": problem})
		return
	}
	sub.ID = id

	if err := s.subRepo.Update(c.Request.Context(), sub); err != nil {
		if err == idb.ErrSubscriptionNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Subscription not found"})
			return
		}
		s.logger.Errorf("Error updating subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "subscription": s.toSubscriptionResponse(sub)})
}

func (s *Server) handleDeleteSubscription(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	if err := s.subRepo.Delete(c.Request.Context(), id); err != nil {
		if err == idb.ErrSubscriptionNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Subscription not found"})
			return
		}
		s.logger.Errorf("Error deleting subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}
