package httpserver

import (
	"net/http"
	"time"

	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/app"
	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/domain/notification"
	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/domain/subscription"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	// Feed shows unread notifications plus read ones from the last week.
	feedReadWindow = 7 * 24 * time.Hour
	feedLimit      = 50
)

// Server exposes the admin web API: auth, subscription CRUD, the
// notification feed and the dashboard/report views.
type Server struct {
	router    *gin.Engine
	subRepo   subscription.Repository
	notifRepo notification.Repository
	reports   *app.ReportService
	sessions  *SessionStore
	probe     app.StoreProbe
	now       app.Clock
	logger    *logrus.Logger

	adminUsername string
	adminPassword string
}

func NewServer(
	subRepo subscription.Repository,
	notifRepo notification.Repository,
	reports *app.ReportService,
	sessions *SessionStore,
	probe app.StoreProbe,
	now app.Clock,
	logger *logrus.Logger,
	adminUsername, adminPassword string,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:        router,
		subRepo:       subRepo,
		notifRepo:     notifRepo,
		reports:       reports,
		sessions:      sessions,
		probe:         probe,
		now:           now,
		logger:        logger,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler for mounting in an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "subscription-system"})
	})

	auth := s.router.Group("/api/auth")
	{
		auth.POST("/login", s.handleLogin)
		auth.POST("/logout", s.handleLogout)
	}

	api := s.router.Group("/api")
	api.Use(s.requireSession())
	{
		notifications := api.Group("/notifications")
		{
			notifications.GET("", s.handleNotificationFeed)
			notifications.POST("/:id/read", s.handleMarkRead)
			notifications.POST("/read-all", s.handleMarkAllRead)
			notifications.DELETE("/:id", s.handleDeleteNotification)
			notifications.DELETE("", s.handleClearNotifications)
		}

		subscriptions := api.Group("/subscriptions")
		{
			subscriptions.GET("", s.handleListSubscriptions)
			subscriptions.POST("", s.handleCreateSubscription)
			subscriptions.GET("/:id", s.handleGetSubscription)
			subscriptions.PUT("/:id", s.handleUpdateSubscription)
			subscriptions.DELETE("/:id", s.handleDeleteSubscription)
		}

		api.GET("/dashboard", s.handleDashboard)
		api.GET("/reports", s.handleReports)
	}
}
