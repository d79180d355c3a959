package gateway

import "errors"

// Fixed protocol values for the legacy direct-pay service.
const (
	GatewayURL    = "https://www.alipay.com/cooperate/gateway.do"
	Service       = "create_direct_pay_by_user"
	ShowURL       = "http://www.alipay.com/"
	InputCharset  = "utf-8"
	PaymentType   = "1"
	ServiceVerify = "notify_verify"
)

// Trade statuses that authorize marking the order as paid. Any other status
// (pending, closed, ...) is observed but not acted upon.
const (
	TradeStatusFinished = "TRADE_FINISHED"
	TradeStatusSuccess  = "TRADE_SUCCESS"
)

// ErrCredentialsIncomplete is returned before any signature work when the
// partner id or signing key is missing from configuration.
var ErrCredentialsIncomplete = errors.New("gateway credentials are not configured")

// Credentials is the immutable per-request view of the merchant account
// configuration. It is built once per operation from stored settings.
type Credentials struct {
	Partner     string
	Key         string
	SellerEmail string
}

// Validate reports whether the credentials are complete enough to sign or
// verify anything.
func (c Credentials) Validate() error {
	if c.Partner == "" || c.Key == "" {
		return ErrCredentialsIncomplete
	}
	return nil
}
