package gateway

import (
	"time"

	"aligate/internal/models"
)

// OperationResult mirrors the shape the order system expects from a payment
// method operation: a list of errors, empty on success.
type OperationResult struct {
	Errors []string `json:"errors"`
}

func (r *OperationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *OperationResult) Success() bool {
	return len(r.Errors) == 0
}

// Processor exposes the payment-method surface of this integration beyond
// the redirect-and-notify flow. AliPay's legacy direct-pay service is
// one-shot: every post-payment operation is reported as unsupported rather
// than raising an error.
type Processor struct {
	additionalFee float64
}

func NewProcessor(additionalFee float64) *Processor {
	return &Processor{additionalFee: additionalFee}
}

func (p *Processor) SupportsCapture() bool       { return false }
func (p *Processor) SupportsRefund() bool        { return false }
func (p *Processor) SupportsPartialRefund() bool { return false }
func (p *Processor) SupportsVoid() bool          { return false }
func (p *Processor) SupportsRecurring() bool     { return false }

// AdditionalFee returns the flat handling fee added at checkout.
func (p *Processor) AdditionalFee() float64 {
	return p.additionalFee
}

func (p *Processor) Capture(orderID int) *OperationResult {
	result := &OperationResult{}
	result.AddError("Capture method not supported")
	return result
}

func (p *Processor) Refund(orderID int) *OperationResult {
	result := &OperationResult{}
	result.AddError("Refund method not supported")
	return result
}

func (p *Processor) Void(orderID int) *OperationResult {
	result := &OperationResult{}
	result.AddError("Void method not supported")
	return result
}

func (p *Processor) ProcessRecurring(orderID int) *OperationResult {
	result := &OperationResult{}
	result.AddError("Recurring payment not supported")
	return result
}

func (p *Processor) CancelRecurring(orderID int) *OperationResult {
	result := &OperationResult{}
	result.AddError("Recurring payment not supported")
	return result
}

// CanRepostPayment reports whether the buyer may be sent back to the gateway
// for an order placed earlier: the order must still be pending and at least
// one minute old, so a notification in flight for a fresh order is not raced
// by a second redirect.
func (p *Processor) CanRepostPayment(o *models.Order, now time.Time) bool {
	if o == nil || o.PaymentStatus != models.PaymentStatusPending {
		return false
	}
	return now.Sub(o.CreatedAt) >= time.Minute
}
