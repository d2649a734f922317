package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	visitorCookie = "visitor"
	visitorKey    = "visitor"

	// one year; stale rows are dropped by the store's TTL, not the cookie
	visitorMaxAge = 365 * 24 * 60 * 60
)

// visitor makes sure every request carries a visitor ID cookie so overlay
// state can be kept between fragment requests.
func visitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAsset(c.Request.URL.Path) {
			c.Next()
			return
		}

		id, err := c.Cookie(visitorCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(visitorCookie, id, visitorMaxAge, "/", "", false, true)
		}
		c.Set(visitorKey, id)
		c.Next()
	}
}

func visitorID(c *gin.Context) string {
	return c.GetString(visitorKey)
}

// requestLogger logs one line per request. Asset requests go to debug.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if isAsset(c.Request.URL.Path) {
			level = slog.LevelDebug
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"htmx", c.GetHeader("HX-Request") == "true",
		)
	}
}

func isAsset(path string) bool {
	return strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/public/") ||
		strings.HasPrefix(path, "/favicon") ||
		path == "/health"
}
