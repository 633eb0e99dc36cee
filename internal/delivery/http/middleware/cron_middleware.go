package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"medtrack/config"

	"github.com/labstack/echo/v4"
)

// CronMiddleware authenticates the external scheduler that invokes the
// missed-dose and reminder check endpoints.
type CronMiddleware struct {
	sharedSecret string
}

// NewCronMiddleware is the constructor for CronMiddleware.
func NewCronMiddleware(cfg *config.Config) *CronMiddleware {
	secret := ""
	if cfg.Cron != nil {
		secret = cfg.Cron.SharedSecret
	}

	return &CronMiddleware{sharedSecret: secret}
}

// Authenticate compares the bearer header against the configured shared
// secret. An unconfigured secret rejects every call rather than opening the
// endpoints up.
func (m *CronMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.sharedSecret == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Scheduled checks are not configured"})
		}

		authHeader := c.Request().Header.Get("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || token == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Bearer token is required"})
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(m.sharedSecret)) != 1 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid scheduler credentials"})
		}

		return next(c)
	}
}
