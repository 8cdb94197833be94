package middleware

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"resellerbot/internal/metrics"
	"resellerbot/internal/models"
	"resellerbot/internal/pkg/telegram"
)

// APIAuth validates the Token header against the configured API key.
// An empty key disables the API entirely.
func APIAuth(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get("Token")
			if token == "" {
				return c.JSON(http.StatusUnauthorized, models.APIResponse{
					Status: false,
					Msg:    "Token is required",
				})
			}
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
				return c.JSON(http.StatusUnauthorized, models.APIResponse{
					Status: false,
					Msg:    "Invalid token",
				})
			}
			return next(c)
		}
	}
}

// RequestLogger logs every API request and counts it by route and status.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			route := c.Path()
			metrics.APIRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()

			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.String("ip", c.RealIP()),
				zap.Duration("latency", time.Since(start)),
			}
			if err != nil {
				logger.Warn("API request failed", append(fields, zap.Error(err))...)
			} else {
				logger.Info("API request", fields...)
			}
			return nil
		}
	}
}

// TelegramIPCheck ensures requests come from Telegram's IP range.
// Loopback is allowed for reverse proxies running on the same host.
func TelegramIPCheck() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if !telegram.CheckTelegramIP(ip) && ip != "127.0.0.1" && ip != "::1" {
				return c.String(http.StatusForbidden, "Forbidden")
			}
			return next(c)
		}
	}
}
