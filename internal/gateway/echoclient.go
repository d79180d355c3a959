package gateway

import (
	"context"
	"time"

	"go.uber.org/zap"

	"aligate/internal/pkg/httpclient"
)

// EchoClient performs the server-to-server notify_verify call that checks a
// received notification really originated from the gateway. The gateway
// answers the literal string true for a genuine notify_id; anything else is
// not confirmed. One attempt per notification — on failure the whole
// notification is rejected and the gateway redelivers it later.
type EchoClient struct {
	client    *httpclient.Client
	verifyURL string
	store     ConfirmStore
	logger    *zap.Logger
}

// NewEchoClient creates an echo-confirmation client. verifyURL defaults to
// the production gateway endpoint; store may be nil to disable caching.
func NewEchoClient(verifyURL string, timeout time.Duration, store ConfirmStore, logger *zap.Logger) *EchoClient {
	if verifyURL == "" {
		verifyURL = GatewayURL
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &EchoClient{
		client:    httpclient.New().WithTimeout(timeout),
		verifyURL: verifyURL,
		store:     store,
		logger:    logger,
	}
}

// Confirm reports whether the gateway attests the notification identified by
// notifyID. The raw response body is returned for audit logging. A transport
// error comes back as err; a reachable gateway answering anything other than
// true comes back as confirmed=false.
func (e *EchoClient) Confirm(ctx context.Context, partner, notifyID string) (confirmed bool, raw string, err error) {
	if e.store != nil {
		cached, cacheErr := e.store.Confirmed(ctx, notifyID)
		if cacheErr != nil {
			e.logger.Warn("confirm store read failed", zap.Error(cacheErr))
		} else if cached {
			return true, "true", nil
		}
	}

	body, err := e.client.Get(ctx, e.verifyURL, map[string]string{
		"service":   ServiceVerify,
		"partner":   partner,
		"notify_id": notifyID,
	})
	if err != nil {
		return false, "", err
	}

	raw = string(body)
	if raw != "true" {
		return false, raw, nil
	}

	if e.store != nil {
		if cacheErr := e.store.MarkConfirmed(ctx, notifyID); cacheErr != nil {
			e.logger.Warn("confirm store write failed", zap.Error(cacheErr))
		}
	}
	return true, raw, nil
}
