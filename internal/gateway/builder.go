package gateway

import (
	"fmt"
	"strconv"
	"strings"
)

// CheckoutOrder carries the order fields the redirect payload needs.
type CheckoutOrder struct {
	ID    int
	Total float64
}

// StoreInfo describes the deployment the callbacks return to.
type StoreInfo struct {
	Name    string
	BaseURL string
}

// PaymentRequest is the signed parameter set posted to the gateway by the
// buyer's browser. Built once per checkout redirect, never retried or
// cached.
type PaymentRequest struct {
	URL    string            `json:"url"`
	Method string            `json:"method"`
	Fields map[string]string `json:"fields"`
}

// Builder assembles signed redirect payloads.
type Builder struct {
	signer Signer
}

func NewBuilder(signer Signer) *Builder {
	return &Builder{signer: signer}
}

// Build assembles the full signed parameter set for the gateway redirect
// form. The receiver canonicalizing these fields the same way reproduces an
// identical digest.
func (b *Builder) Build(order CheckoutOrder, store StoreInfo, creds Credentials) (*PaymentRequest, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	base := strings.TrimRight(store.BaseURL, "/")
	fields := map[string]string{
		"service":        Service,
		"partner":        creds.Partner,
		"seller_email":   creds.SellerEmail,
		"out_trade_no":   strconv.Itoa(order.ID),
		"subject":        store.Name,
		"body":           "Order from " + store.Name,
		"total_fee":      FormatAmount(order.Total),
		"show_url":       ShowURL,
		"payment_type":   PaymentType,
		"notify_url":     base + "/payment/alipay/notify",
		"return_url":     base + "/payment/alipay/return",
		"_input_charset": InputCharset,
	}

	fields[FieldSign] = b.signer.Sign(signBase(fields, creds.Key))
	fields[FieldSignType] = b.signer.Algorithm()

	return &PaymentRequest{
		URL:    GatewayURL + "?_input_charset=" + InputCharset,
		Method: "POST",
		Fields: fields,
	}, nil
}

// FormatAmount renders an amount with exactly two decimal digits and a dot
// separator regardless of runtime locale. The gateway rejects anything else
// and a locale-dependent separator would also break the signature.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
