package echo

import (
	echofw "github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/mirola777/payhook/internal/application"
	"github.com/mirola777/payhook/internal/presentation/echo/handlers"
	"github.com/mirola777/payhook/internal/presentation/echo/middleware"
	"github.com/mirola777/payhook/internal/utils/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func ConfigureRoutes(e *echofw.Echo, container *application.Container, cfg *config.Config, log *zap.Logger) {
	e.Use(middleware.TraceID)
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Recovery(log))

	healthHandler := handlers.NewHealthHandler(container.Checks)
	e.GET("/health", healthHandler.Check)

	webhookHandler := handlers.NewWebhookHandler(container.Webhooks)
	webhooks := e.Group("/webhooks")
	if cfg.WebhookRateLimit > 0 {
		webhooks.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(cfg.WebhookRateLimit))))
	}
	webhooks.POST("/:provider", webhookHandler.Receive)

	paymentHandler := handlers.NewPaymentHandler(container.Payments)
	commissionHandler := handlers.NewCommissionHandler(container.Commissions)
	reconciliationHandler := handlers.NewReconciliationHandler(container.Payments)

	v1 := e.Group("/v1", middleware.APIKey(cfg.InternalAPIKey))
	v1.POST("/payments", paymentHandler.CreatePayment)
	v1.GET("/payments/:id", paymentHandler.GetPayment)
	v1.GET("/commissions/referrers/:referrerId", commissionHandler.Report)
	v1.POST("/commissions/:id/pay", commissionHandler.MarkPaid)
	v1.GET("/reconciliation/settlements", reconciliationHandler.ListSettlements)
	v1.POST("/reconciliation/settlements/:id/renotify", reconciliationHandler.Renotify)
}
