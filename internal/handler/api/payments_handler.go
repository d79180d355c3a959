package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"aligate/internal/gateway"
	"aligate/internal/models"
)

// OrderStore is the read-only order access the payment operations need.
type OrderStore interface {
	GetByID(ctx context.Context, id int) (*models.Order, error)
}

// PaymentsHandler exposes the post-payment operations and capability checks
// of the payment method. AliPay direct pay is one-shot redirect-and-notify,
// so capture, refund, void and recurring all report not supported rather
// than failing loudly somewhere downstream.
type PaymentsHandler struct {
	orders    OrderStore
	settings  SettingStore
	processor func(additionalFee float64) *gateway.Processor
	logger    *zap.Logger
}

func NewPaymentsHandler(orders OrderStore, settings SettingStore, logger *zap.Logger) *PaymentsHandler {
	return &PaymentsHandler{
		orders:    orders,
		settings:  settings,
		processor: gateway.NewProcessor,
		logger:    logger,
	}
}

func (h *PaymentsHandler) loadProcessor(c echo.Context) (*gateway.Processor, error) {
	setting, err := h.settings.GetGatewaySettings(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return h.processor(setting.AdditionalFee), nil
}

func (h *PaymentsHandler) operation(c echo.Context, run func(p *gateway.Processor, orderID int) *gateway.OperationResult) error {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid order id")
	}
	p, err := h.loadProcessor(c)
	if err != nil {
		h.logger.Error("failed to load gateway settings", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "gateway not configured")
	}
	result := run(p, orderID)
	if !result.Success() {
		return c.JSON(http.StatusBadRequest, result)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *PaymentsHandler) Capture(c echo.Context) error {
	return h.operation(c, func(p *gateway.Processor, id int) *gateway.OperationResult {
		return p.Capture(id)
	})
}

func (h *PaymentsHandler) Refund(c echo.Context) error {
	return h.operation(c, func(p *gateway.Processor, id int) *gateway.OperationResult {
		return p.Refund(id)
	})
}

func (h *PaymentsHandler) Void(c echo.Context) error {
	return h.operation(c, func(p *gateway.Processor, id int) *gateway.OperationResult {
		return p.Void(id)
	})
}

func (h *PaymentsHandler) Recurring(c echo.Context) error {
	return h.operation(c, func(p *gateway.Processor, id int) *gateway.OperationResult {
		return p.ProcessRecurring(id)
	})
}

func (h *PaymentsHandler) CancelRecurring(c echo.Context) error {
	return h.operation(c, func(p *gateway.Processor, id int) *gateway.OperationResult {
		return p.CancelRecurring(id)
	})
}

// Repost reports whether the buyer can be redirected to the gateway again
// for an order placed earlier.
func (h *PaymentsHandler) Repost(c echo.Context) error {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid order id")
	}
	order, err := h.orders.GetByID(c.Request().Context(), orderID)
	if err != nil {
		return errorResponse(c, http.StatusNotFound, "order not found")
	}
	p, err := h.loadProcessor(c)
	if err != nil {
		h.logger.Error("failed to load gateway settings", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "gateway not configured")
	}
	return successResponse(c, "ok", map[string]bool{
		"can_repost": p.CanRepostPayment(order, time.Now().UTC()),
	})
}
