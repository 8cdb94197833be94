package router

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"resellerbot/internal/handler/api"
	"resellerbot/internal/middleware"
	"resellerbot/internal/payment"
)

// Setup configures all routes for the Echo server.
// A nil webhookHandler means the bot runs in long-polling mode.
func Setup(
	e *echo.Echo,
	db *gorm.DB,
	ledger *payment.Ledger,
	logger *zap.Logger,
	apiKey string,
	updateDeduper middleware.UpdateDeduper,
	webhookHandler http.Handler,
) {
	// Global middleware
	e.Use(echomw.Recover())

	// Admin API with auth + logging middleware
	paymentHandler := api.NewPaymentHandler(ledger, logger)

	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.RequestLogger(logger))
	apiGroup.Use(middleware.APIAuth(apiKey))
	apiGroup.GET("/payments", paymentHandler.List)
	apiGroup.GET("/payments/:id", paymentHandler.Get)

	// Telegram webhook (protected by IP check + deduplication)
	if webhookHandler != nil {
		botWebhookGroup := e.Group("/bot")
		botWebhookGroup.Use(middleware.TelegramIPCheck())
		botWebhookGroup.Use(middleware.TelegramUpdateDedup(updateDeduper))
		botWebhookGroup.POST("/webhook", echo.WrapHandler(webhookHandler))
	} else {
		logger.Info("Telegram webhook routes disabled (bot update mode is polling)")
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		if err := pingDB(c.Request().Context(), db); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "down"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
