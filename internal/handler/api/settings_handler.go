package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"aligate/internal/models"
)

// SettingStore provides read/write access to the stored gateway
// configuration.
type SettingStore interface {
	GetGatewaySettings(ctx context.Context) (*models.GatewaySetting, error)
	UpdateGatewaySettings(ctx context.Context, updates map[string]interface{}) error
}

// SettingsHandler manages the gateway merchant configuration. The HTML
// configuration screen lives in the shop's admin; this JSON API is the
// interface boundary it talks to.
type SettingsHandler struct {
	settings SettingStore
	logger   *zap.Logger
}

func NewSettingsHandler(settings SettingStore, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

type settingsPayload struct {
	Partner       string   `json:"partner"`
	Key           string   `json:"key,omitempty"`
	SellerEmail   string   `json:"seller_email"`
	AdditionalFee *float64 `json:"additional_fee"`
}

// Get returns the current gateway settings. The signing key is never echoed
// back; only whether one is set.
func (h *SettingsHandler) Get(c echo.Context) error {
	setting, err := h.settings.GetGatewaySettings(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to load gateway settings", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "failed to load settings")
	}
	return successResponse(c, "ok", map[string]interface{}{
		"partner":        setting.Partner,
		"seller_email":   setting.SellerEmail,
		"additional_fee": setting.AdditionalFee,
		"key_configured": setting.Key != "",
	})
}

// Update saves gateway settings. Omitted fields keep their stored values, so
// the key does not need to be re-entered on every save.
func (h *SettingsHandler) Update(c echo.Context) error {
	var payload settingsPayload
	if err := c.Bind(&payload); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if payload.Partner != "" {
		updates["partner"] = payload.Partner
	}
	if payload.Key != "" {
		updates["sign_key"] = payload.Key
	}
	if payload.SellerEmail != "" {
		updates["seller_email"] = payload.SellerEmail
	}
	if payload.AdditionalFee != nil {
		updates["additional_fee"] = *payload.AdditionalFee
	}
	if len(updates) == 0 {
		return errorResponse(c, http.StatusBadRequest, "nothing to update")
	}

	if err := h.settings.UpdateGatewaySettings(c.Request().Context(), updates); err != nil {
		h.logger.Error("failed to update gateway settings", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "failed to save settings")
	}
	return successResponse(c, "settings saved", nil)
}
