package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"aligate/internal/gateway"
	"aligate/internal/models"
	"aligate/internal/pkg/telegram"
	"aligate/internal/pkg/utils"
)

// OrderStore is the slice of order persistence the handlers read from.
type OrderStore interface {
	GetByID(ctx context.Context, id int) (*models.Order, error)
}

// SettingStore provides the stored gateway configuration.
type SettingStore interface {
	GetGatewaySettings(ctx context.Context) (*models.GatewaySetting, error)
}

// NotificationStore persists the notification audit log.
type NotificationStore interface {
	Create(ctx context.Context, entry *models.NotificationLog) error
}

// PaymentHandler serves the gateway-facing endpoints: the checkout redirect
// payload, the asynchronous notification callback, and the synchronous
// return redirect.
type PaymentHandler struct {
	orders        OrderStore
	settings      SettingStore
	notifications NotificationStore
	builder       *gateway.Builder
	verifier      *gateway.Verifier
	botAPI        *telegram.BotAPI
	store         gateway.StoreInfo
	reportChannel string
	logger        *zap.Logger
}

func NewPaymentHandler(
	orders OrderStore,
	settings SettingStore,
	notifications NotificationStore,
	builder *gateway.Builder,
	verifier *gateway.Verifier,
	botAPI *telegram.BotAPI,
	store gateway.StoreInfo,
	reportChannel string,
	logger *zap.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		orders:        orders,
		settings:      settings,
		notifications: notifications,
		builder:       builder,
		verifier:      verifier,
		botAPI:        botAPI,
		store:         store,
		reportChannel: reportChannel,
		logger:        logger,
	}
}

func (h *PaymentHandler) credentials(ctx context.Context) (gateway.Credentials, *models.GatewaySetting, error) {
	setting, err := h.settings.GetGatewaySettings(ctx)
	if err != nil {
		return gateway.Credentials{}, nil, err
	}
	creds := gateway.Credentials{
		Partner:     setting.Partner,
		Key:         setting.Key,
		SellerEmail: setting.SellerEmail,
	}
	return creds, setting, nil
}

// Checkout builds the signed redirect payload for a pending order. The
// caller renders it as an auto-submitting form; this service never holds the
// buyer's card data.
func (h *PaymentHandler) Checkout(c echo.Context) error {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid order id"})
	}

	ctx := c.Request().Context()
	order, err := h.orders.GetByID(ctx, orderID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "order not found"})
	}
	if order.PaymentStatus != models.PaymentStatusPending {
		return c.JSON(http.StatusConflict, map[string]string{"error": "order is not awaiting payment"})
	}

	creds, setting, err := h.credentials(ctx)
	if err != nil {
		h.logger.Error("failed to load gateway settings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "gateway not configured"})
	}

	request, err := h.builder.Build(gateway.CheckoutOrder{
		ID:    order.ID,
		Total: order.Total + setting.AdditionalFee,
	}, h.store, creds)
	if err != nil {
		h.logger.Error("failed to build payment request",
			zap.Int("order_id", order.ID),
			zap.Error(err),
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "gateway not configured"})
	}

	return c.JSON(http.StatusOK, request)
}

// Notify handles the asynchronous payment notification. The response body is
// the literal success or fail: anything else makes the gateway redeliver
// forever, and an HTTP error status is not part of the protocol.
func (h *PaymentHandler) Notify(c echo.Context) error {
	req := c.Request()
	if err := req.ParseForm(); err != nil {
		return c.String(http.StatusOK, "fail")
	}

	params := make(map[string]string, len(req.PostForm))
	for k, values := range req.PostForm {
		if len(values) > 0 {
			params[k] = values[0]
		}
	}
	notification := gateway.Notification{Params: params}

	traceID := utils.TraceID()
	logger := h.logger.With(
		zap.String("trace_id", traceID),
		zap.String("notify_id", notification.NotifyID()),
	)

	ctx := req.Context()
	creds, _, err := h.credentials(ctx)
	if err != nil {
		logger.Error("gateway settings unavailable for notification", zap.Error(err))
		return c.String(http.StatusOK, "fail")
	}

	outcome, err := h.verifier.Verify(ctx, notification, creds)
	if err != nil {
		logger.Error("notification verification failed", zap.Error(err))
		h.logNotification(notification, outcome, traceID)
		return c.String(http.StatusOK, "fail")
	}

	h.logNotification(notification, outcome, traceID)

	if outcome.Result == gateway.ResultPaid {
		h.reportPaid(outcome.OrderID)
	}

	return c.String(http.StatusOK, outcome.Response())
}

// Return handles the buyer's synchronous redirect back from the gateway. It
// carries no authoritative state and never touches the order.
func (h *PaymentHandler) Return(c echo.Context) error {
	target := h.store.BaseURL
	if target == "" {
		target = "/"
	}
	return c.Redirect(http.StatusFound, target)
}

// logNotification persists the audit row asynchronously, off the callback's
// critical path.
func (h *PaymentHandler) logNotification(n gateway.Notification, outcome gateway.Outcome, traceID string) {
	entry := &models.NotificationLog{
		TraceID:      traceID,
		NotifyID:     n.NotifyID(),
		OutTradeNo:   n.OutTradeNo(),
		TradeStatus:  n.TradeStatus(),
		Outcome:      string(outcome.Result),
		Reason:       string(outcome.Reason),
		ExpectedSign: outcome.ExpectedSign,
		ReceivedSign: outcome.ReceivedSign,
		EchoResponse: outcome.EchoResponse,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.notifications.Create(ctx, entry); err != nil {
			h.logger.Warn("failed to persist notification log", zap.Error(err))
		}
	}()
}

func (h *PaymentHandler) reportPaid(orderID int) {
	if h.botAPI == nil || h.reportChannel == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		order, err := h.orders.GetByID(ctx, orderID)
		if err != nil {
			return
		}
		text := fmt.Sprintf(
			"💵 Payment received\n\nOrder: #%d\nAmount: %s\nMethod: AliPay",
			order.ID, gateway.FormatAmount(order.Total),
		)
		if _, err := h.botAPI.SendMessage(h.reportChannel, text); err != nil {
			h.logger.Warn("failed to report payment", zap.Error(err))
		}
	}()
}
