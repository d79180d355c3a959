package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aligate/internal/order"
)

type mockGuard struct {
	mock.Mock
}

func (m *mockGuard) MarkPaidIfEligible(ctx context.Context, orderID int) (order.TransitionResult, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(order.TransitionResult), args.Error(1)
}

func verifierEchoServer(t *testing.T, response string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// signedNotification builds an inbound parameter set with a valid digest for
// the given key.
func signedNotification(key string, overrides map[string]string) Notification {
	params := map[string]string{
		"notify_id":    "N-1",
		"trade_status": TradeStatusSuccess,
		"out_trade_no": "1001",
		"total_fee":    "19.99",
		"seller_email": "s@x.com",
	}
	for k, v := range overrides {
		params[k] = v
	}
	signer := NewMD5Signer()
	params[FieldSign] = signer.Sign(signBase(params, key))
	params[FieldSignType] = signer.Algorithm()
	return Notification{Params: params}
}

func newTestVerifier(t *testing.T, echoResponse string, guard OrderGuard) *Verifier {
	t.Helper()
	srv := verifierEchoServer(t, echoResponse)
	echoClient := NewEchoClient(srv.URL, time.Second, nil, zap.NewNop())
	return NewVerifier(NewMD5Signer(), echoClient, guard, zap.NewNop())
}

func TestVerifierAcceptsPaidNotification(t *testing.T) {
	guard := &mockGuard{}
	guard.On("MarkPaidIfEligible", mock.Anything, 1001).Return(order.TransitionPaid, nil).Once()

	v := newTestVerifier(t, "true", guard)
	outcome, err := v.Verify(context.Background(), signedNotification("K", nil), Credentials{Partner: "P1", Key: "K"})
	require.NoError(t, err)

	assert.True(t, outcome.Accepted)
	assert.Equal(t, ResultPaid, outcome.Result)
	assert.Equal(t, 1001, outcome.OrderID)
	assert.Equal(t, "success", outcome.Response())
	guard.AssertExpectations(t)
}

func TestVerifierRedeliveryIsIdempotent(t *testing.T) {
	guard := &mockGuard{}
	guard.On("MarkPaidIfEligible", mock.Anything, 1001).Return(order.TransitionAlreadyPaid, nil).Once()

	v := newTestVerifier(t, "true", guard)
	outcome, err := v.Verify(context.Background(), signedNotification("K", nil), Credentials{Partner: "P1", Key: "K"})
	require.NoError(t, err)

	assert.True(t, outcome.Accepted)
	assert.Equal(t, ResultAlreadyPaid, outcome.Result)
	assert.Equal(t, "success", outcome.Response())
}

func TestVerifierRejectsAlteredDigest(t *testing.T) {
	guard := &mockGuard{}
	v := newTestVerifier(t, "true", guard)

	n := signedNotification("K", nil)
	digest := n.Params[FieldSign]
	if strings.HasPrefix(digest, "0") {
		n.Params[FieldSign] = "1" + digest[1:]
	} else {
		n.Params[FieldSign] = "0" + digest[1:]
	}

	outcome, err := v.Verify(context.Background(), n, Credentials{Partner: "P1", Key: "K"})
	require.NoError(t, err)

	assert.False(t, outcome.Accepted)
	assert.Equal(t, ReasonSignatureMismatch, outcome.Reason)
	assert.Equal(t, "fail", outcome.Response())
	assert.NotEmpty(t, outcome.ExpectedSign)
	guard.AssertNotCalled(t, "MarkPaidIfEligible", mock.Anything, mock.Anything)
}

func TestVerifierRejectsMissingSign(t *testing.T) {
	guard := &mockGuard{}
	v := newTestVerifier(t, "true", guard)

	n := signedNotification("K", nil)
	delete(n.Params, FieldSign)

	outcome, err := v.Verify(context.Background(), n, Credentials{Partner: "P1", Key: "K"})
	require.NoError(t, err)
	assert.Equal(t, ReasonSignatureMismatch, outcome.Reason)
}

func TestVerifierRejectsWrongKey(t *testing.T) {
	guard := &mockGuard{}
	v := newTestVerifier(t, "true", guard)

	outcome, err := v.Verify(context.Background(), signedNotification("other-key", nil), Credentials{Partner: "P1", Key: "K"})
	require.NoError(t, err)
	assert.Equal(t, ReasonSignatureMismatch, outcome.Reason)
}

func TestVerifierFailsClosedOnEcho(t *testing.T) {
	guard := &mockGuard{}
	v := newTestVerifier(t, "false", guard)

	outcome, err := v.Verify(context.Background(), signedNotification("K", nil), Credentials{Partner: "P1", Key: "K"})
	require.NoError(t, err)

	assert.False(t, outcome.Accepted)
	assert.Equal(t, ReasonEchoNotConfirmed, outcome.Reason)
	assert.Equal(t, "false", outcome.EchoResponse)
	assert.Equal(t, "fail", outcome.Response())
	guard.AssertNotCalled(t, "MarkPaidIfEligible", mock.Anything, mock.Anything)
}

func TestVerifierFailsClosedOnEchoTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte("true"))
	}))
	t.Cleanup(srv.Close)

	guard := &mockGuard{}
	echoClient := NewEchoClient(srv.URL, 50*time.Millisecond, nil, zap.NewNop())
	v := NewVerifier(NewMD5Signer(), echoClient, guard, zap.NewNop())

	outcome, err := v.Verify(context.Background(), signedNotification("K", nil), Credentials{Partner: "P1", Key: "K"})
	require.NoError(t, err)

	assert.False(t, outcome.Accepted)
	assert.Equal(t, ReasonTransportError, outcome.Reason)
	guard.AssertNotCalled(t, "MarkPaidIfEligible", mock.Anything, mock.Anything)
}

func TestVerifierObservesNonActionableStatus(t *testing.T) {
	guard := &mockGuard{}
	v := newTestVerifier(t, "true", guard)

	outcome, err := v.Verify(context.Background(), signedNotification("K", map[string]string{
		"trade_status": "WAIT_BUYER_PAY",
	}), Credentials{Partner: "P1", Key: "K"})
	require.NoError(t, err)

	assert.True(t, outcome.Accepted)
	assert.Equal(t, ResultNoAction, outcome.Result)
	assert.Equal(t, ReasonNoActionTaken, outcome.Reason)
	assert.Equal(t, "success", outcome.Response())
	guard.AssertNotCalled(t, "MarkPaidIfEligible", mock.Anything, mock.Anything)
}

func TestVerifierAcceptsTradeFinished(t *testing.T) {
	guard := &mockGuard{}
	guard.On("MarkPaidIfEligible", mock.Anything, 1001).Return(order.TransitionPaid, nil).Once()

	v := newTestVerifier(t, "true", guard)
	outcome, err := v.Verify(context.Background(), signedNotification("K", map[string]string{
		"trade_status": TradeStatusFinished,
	}), Credentials{Partner: "P1", Key: "K"})
	require.NoError(t, err)
	assert.Equal(t, ResultPaid, outcome.Result)
}

func TestVerifierRejectsMalformedOrderReference(t *testing.T) {
	guard := &mockGuard{}
	v := newTestVerifier(t, "true", guard)

	outcome, err := v.Verify(context.Background(), signedNotification("K", map[string]string{
		"out_trade_no": "not-a-number",
	}), Credentials{Partner: "P1", Key: "K"})
	require.NoError(t, err)

	assert.False(t, outcome.Accepted)
	assert.Equal(t, ReasonMalformedOrderRef, outcome.Reason)
	guard.AssertNotCalled(t, "MarkPaidIfEligible", mock.Anything, mock.Anything)
}

func TestVerifierRejectsUnknownOrder(t *testing.T) {
	guard := &mockGuard{}
	guard.On("MarkPaidIfEligible", mock.Anything, 1001).Return(order.TransitionNotEligible, order.ErrOrderNotFound).Once()

	v := newTestVerifier(t, "true", guard)
	outcome, err := v.Verify(context.Background(), signedNotification("K", nil), Credentials{Partner: "P1", Key: "K"})
	require.NoError(t, err)

	assert.False(t, outcome.Accepted)
	assert.Equal(t, ReasonOrderNotFound, outcome.Reason)
	assert.Equal(t, "fail", outcome.Response())
}

func TestVerifierRejectsIneligibleOrder(t *testing.T) {
	guard := &mockGuard{}
	guard.On("MarkPaidIfEligible", mock.Anything, 1001).Return(order.TransitionNotEligible, nil).Once()

	v := newTestVerifier(t, "true", guard)
	outcome, err := v.Verify(context.Background(), signedNotification("K", nil), Credentials{Partner: "P1", Key: "K"})
	require.NoError(t, err)

	assert.False(t, outcome.Accepted)
	assert.Equal(t, ReasonNotEligible, outcome.Reason)
}

func TestVerifierRequiresCredentials(t *testing.T) {
	guard := &mockGuard{}
	v := newTestVerifier(t, "true", guard)

	_, err := v.Verify(context.Background(), signedNotification("K", nil), Credentials{Partner: "P1"})
	assert.ErrorIs(t, err, ErrCredentialsIncomplete)
	guard.AssertNotCalled(t, "MarkPaidIfEligible", mock.Anything, mock.Anything)
}
