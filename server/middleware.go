package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/trihoang/studydesk/internal/model"
)

// authMiddleware checks for valid session token
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Get token from Authorization header
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authorization required"})
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
		}

		// Validate session
		session := model.Session{Token: token}
		err := s.db.QueryRowContext(c.Request().Context(), `
			SELECT id, user_id, expires_at FROM sessions WHERE token = $1`,
			token,
		).Scan(&session.ID, &session.UserID, &session.ExpiresAt)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}

		if session.IsExpired() {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "token expired"})
		}

		// Add user ID to context
		c.Set("user_id", session.UserID)
		c.Set("session_token", session.Token)
		return next(c)
	}
}
