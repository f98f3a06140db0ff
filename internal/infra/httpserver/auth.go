package httpserver

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionCookieName = "admin_session"

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Please enter both username and password."})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.adminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.adminPassword)) == 1
	if !userOK || !passOK {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid username or password."})
		return
	}

	token, err := s.sessions.Create(req.Username)
	if err != nil {
		s.logger.Errorf("Failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error"})
		return
	}

	c.SetCookie(sessionCookieName, token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "username": req.Username})
}

func (s *Server) handleLogout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookieName); err == nil {
		s.sessions.Destroy(token)
	}
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// requireSession guards admin endpoints behind a valid session cookie.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Not logged in"})
			return
		}
		username, ok := s.sessions.Username(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Session expired"})
			return
		}
		c.Set("username", username)
		c.Next()
	}
}
