package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func echoServer(t *testing.T, hits *int32, response string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		assert.Equal(t, ServiceVerify, r.URL.Query().Get("service"))
		assert.Equal(t, "P1", r.URL.Query().Get("partner"))
		assert.Equal(t, "N-1", r.URL.Query().Get("notify_id"))
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEchoClientConfirms(t *testing.T) {
	srv := echoServer(t, nil, "true")
	client := NewEchoClient(srv.URL, time.Second, nil, zap.NewNop())

	confirmed, raw, err := client.Confirm(context.Background(), "P1", "N-1")
	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.Equal(t, "true", raw)
}

func TestEchoClientFailsClosedOnOtherBody(t *testing.T) {
	srv := echoServer(t, nil, "invalid")
	client := NewEchoClient(srv.URL, time.Second, nil, zap.NewNop())

	confirmed, raw, err := client.Confirm(context.Background(), "P1", "N-1")
	require.NoError(t, err)
	assert.False(t, confirmed)
	assert.Equal(t, "invalid", raw)
}

func TestEchoClientFailsClosedOnTrueWithNoise(t *testing.T) {
	// Only the exact literal true confirms.
	srv := echoServer(t, nil, "true\n")
	client := NewEchoClient(srv.URL, time.Second, nil, zap.NewNop())

	confirmed, _, err := client.Confirm(context.Background(), "P1", "N-1")
	require.NoError(t, err)
	assert.False(t, confirmed)
}

func TestEchoClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := NewEchoClient(srv.URL, time.Second, nil, zap.NewNop())

	confirmed, _, err := client.Confirm(context.Background(), "P1", "N-1")
	assert.Error(t, err)
	assert.False(t, confirmed)
}

func TestEchoClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte("true"))
	}))
	t.Cleanup(srv.Close)
	client := NewEchoClient(srv.URL, 50*time.Millisecond, nil, zap.NewNop())

	confirmed, _, err := client.Confirm(context.Background(), "P1", "N-1")
	assert.Error(t, err)
	assert.False(t, confirmed)
}

func TestEchoClientUsesConfirmStore(t *testing.T) {
	var hits int32
	srv := echoServer(t, &hits, "true")
	store := newMemoryConfirmStore(time.Minute)
	client := NewEchoClient(srv.URL, time.Second, store, zap.NewNop())

	ctx := context.Background()
	confirmed, _, err := client.Confirm(ctx, "P1", "N-1")
	require.NoError(t, err)
	assert.True(t, confirmed)

	// Redelivery of the same notify_id is served from the cache.
	confirmed, _, err = client.Confirm(ctx, "P1", "N-1")
	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestEchoClientDoesNotCacheNegative(t *testing.T) {
	var hits int32
	srv := echoServer(t, &hits, "false")
	store := newMemoryConfirmStore(time.Minute)
	client := NewEchoClient(srv.URL, time.Second, store, zap.NewNop())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		confirmed, _, err := client.Confirm(ctx, "P1", "N-1")
		require.NoError(t, err)
		assert.False(t, confirmed)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
