package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"aligate/internal/models"
)

// NotificationStore lists persisted notification audit rows.
type NotificationStore interface {
	FindRecent(ctx context.Context, limit int) ([]models.NotificationLog, error)
}

// NotificationsHandler exposes the notification audit log for reviewing
// rejected callbacks and forgery attempts.
type NotificationsHandler struct {
	notifications NotificationStore
	logger        *zap.Logger
}

func NewNotificationsHandler(notifications NotificationStore, logger *zap.Logger) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications, logger: logger}
}

// List returns the most recent notification log entries.
func (h *NotificationsHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.notifications.FindRecent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("failed to list notification log", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "failed to load notifications")
	}
	return successResponse(c, "ok", entries)
}
