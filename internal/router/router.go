package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"gorm.io/gorm"

	"aligate/internal/config"
	"aligate/internal/gateway"
	"aligate/internal/handler"
	"aligate/internal/handler/api"
	"aligate/internal/middleware"
	"aligate/internal/order"
	"aligate/internal/pkg/telegram"
	"aligate/internal/repository"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	db *gorm.DB,
	cfg *config.Config,
	confirmStore gateway.ConfirmStore,
	botAPI *telegram.BotAPI,
	logger *zap.Logger,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	// Repositories
	orderRepo := repository.NewOrderRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Core components
	signer := gateway.NewMD5Signer()
	builder := gateway.NewBuilder(signer)
	echoClient := gateway.NewEchoClient(cfg.Gateway.URL, cfg.Gateway.EchoTimeout, confirmStore, logger)
	guard := order.NewGuard(orderRepo)
	verifier := gateway.NewVerifier(signer, echoClient, guard, logger)

	store := gateway.StoreInfo{
		Name:    cfg.Server.StoreName,
		BaseURL: cfg.Server.BaseURL,
	}

	paymentHandler := handler.NewPaymentHandler(
		orderRepo, settingRepo, notificationRepo,
		builder, verifier, botAPI, store, cfg.Telegram.ReportChannel, logger,
	)
	settingsHandler := api.NewSettingsHandler(settingRepo, logger)
	paymentsHandler := api.NewPaymentsHandler(orderRepo, settingRepo, logger)
	notificationsHandler := api.NewNotificationsHandler(notificationRepo, logger)

	// Gateway callback routes — authenticated by signature, not by token.
	paymentGroup := e.Group("/payment/alipay")
	paymentGroup.POST("/notify", paymentHandler.Notify)
	paymentGroup.GET("/return", paymentHandler.Return)

	// API group with auth middleware
	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.APIAuth(cfg.API.Key))

	apiGroup.POST("/orders/:id/checkout", paymentHandler.Checkout)
	apiGroup.GET("/settings", settingsHandler.Get)
	apiGroup.POST("/settings", settingsHandler.Update)
	apiGroup.GET("/notifications", notificationsHandler.List)
	apiGroup.POST("/payments/:id/capture", paymentsHandler.Capture)
	apiGroup.POST("/payments/:id/refund", paymentsHandler.Refund)
	apiGroup.POST("/payments/:id/void", paymentsHandler.Void)
	apiGroup.POST("/payments/:id/recurring", paymentsHandler.Recurring)
	apiGroup.POST("/payments/:id/recurring/cancel", paymentsHandler.CancelRecurring)
	apiGroup.GET("/payments/:id/repost", paymentsHandler.Repost)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}
