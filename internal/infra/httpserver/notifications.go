package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/domain/notification"
	idb "github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/infra/database"

	"github.com/gin-gonic/gin"
)

type notificationResponse struct {
	ID             int64  `json:"id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Icon           string `json:"icon"`
	Priority       string `json:"priority"`
	SubscriptionID *int64 `json:"subscriptionId"`
	IsRead         bool   `json:"isRead"`
	CreatedAt      string `json:"createdAt"`
	TimeAgo        string `json:"timeAgo"`
}

func toNotificationResponse(n *notification.Notification, now time.Time) notificationResponse {
	resp := notificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Icon:      n.Icon,
		Priority:  string(n.Priority),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
		TimeAgo:   n.TimeAgo(now),
	}
	if n.SubscriptionID.Valid {
		id := n.SubscriptionID.Int64
		resp.SubscriptionID = &id
	}
	return resp
}

// handleNotificationFeed returns unread notifications plus recently read
// ones, most urgent first. Reports 503 when the store probe fails so the
// client can show a degraded state instead of an empty feed.
func (s *Server) handleNotificationFeed(c *gin.Context) {
	if !s.probe(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success":       false,
			"error":         "Database not available",
			"notifications": []notificationResponse{},
			"unreadCount":   0,
		})
		return
	}

	now := s.now().UTC()
	items, err := s.notifRepo.ListFeed(c.Request.Context(), now.Add(-feedReadWindow), feedLimit)
	if err != nil {
		s.logger.Errorf("Error fetching notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "An error occurred while fetching notifications"})
		return
	}

	responses := make([]notificationResponse, 0, len(items))
	unread := 0
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
		responses = append(responses, toNotificationResponse(n, now))
	}

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": responses,
		"unreadCount":   unread,
		"timestamp":     now.Format(time.RFC3339),
	})
}

func (s *Server) handleMarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	if _, err := s.notifRepo.GetByID(c.Request.Context(), id); err != nil {
		if err == idb.ErrNotificationNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Notification not found"})
			return
		}
		s.logger.Errorf("Error marking notification as read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error"})
		return
	}

	if err := s.notifRepo.MarkRead(c.Request.Context(), id, s.now().UTC()); err != nil {
		s.logger.Errorf("Error marking notification as read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

func (s *Server) handleMarkAllRead(c *gin.Context) {
	count, err := s.notifRepo.MarkAllRead(c.Request.Context(), s.now().UTC())
	if err != nil {
		s.logger.Errorf("Error marking all notifications as read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

func (s *Server) handleDeleteNotification(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	if err := s.notifRepo.Delete(c.Request.Context(), id); err != nil {
		if err == idb.ErrNotificationNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Notification not found"})
			return
		}
		s.logger.Errorf("Error deleting notification: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

func (s *Server) handleClearNotifications(c *gin.Context) {
	count, err := s.notifRepo.DeleteAll(c.Request.Context())
	if err != nil {
		s.logger.Errorf("Error clearing all notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}
