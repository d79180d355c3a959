package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aligate/internal/models"
)

type stubSettingStore struct {
	setting *models.GatewaySetting
	updates map[string]interface{}
}

func (s *stubSettingStore) GetGatewaySettings(ctx context.Context) (*models.GatewaySetting, error) {
	return s.setting, nil
}

func (s *stubSettingStore) UpdateGatewaySettings(ctx context.Context, updates map[string]interface{}) error {
	s.updates = updates
	return nil
}

func jsonRequest(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSettingsGetNeverEchoesKey(t *testing.T) {
	store := &stubSettingStore{setting: &models.GatewaySetting{
		Partner: "P1", Key: "super-secret", SellerEmail: "s@x.com", AdditionalFee: 2,
	}}
	h := NewSettingsHandler(store, zap.NewNop())

	c, rec := jsonRequest(t, http.MethodGet, "")
	require.NoError(t, h.Get(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "super-secret")

	var resp struct {
		Obj map[string]interface{} `json:"obj"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "P1", resp.Obj["partner"])
	assert.Equal(t, true, resp.Obj["key_configured"])
}

func TestSettingsUpdatePartialFields(t *testing.T) {
	store := &stubSettingStore{setting: &models.GatewaySetting{}}
	h := NewSettingsHandler(store, zap.NewNop())

	c, rec := jsonRequest(t, http.MethodPost, `{"partner":"P2","additional_fee":1.5}`)
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"partner": "P2", "additional_fee": 1.5}, store.updates)
}

func TestSettingsUpdateKeepsStoredKeyWhenOmitted(t *testing.T) {
	store := &stubSettingStore{setting: &models.GatewaySetting{}}
	h := NewSettingsHandler(store, zap.NewNop())

	c, _ := jsonRequest(t, http.MethodPost, `{"seller_email":"new@x.com"}`)
	require.NoError(t, h.Update(c))

	_, hasKey := store.updates["sign_key"]
	assert.False(t, hasKey)
}

func TestSettingsUpdateEmptyPayload(t *testing.T) {
	store := &stubSettingStore{setting: &models.GatewaySetting{}}
	h := NewSettingsHandler(store, zap.NewNop())

	c, rec := jsonRequest(t, http.MethodPost, `{}`)
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
