package gateway

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"aligate/internal/order"
)

// Reason classifies why a notification was rejected or why no action was
// taken. Rejections are answered to the gateway with the literal fail so its
// own retry mechanism governs redelivery.
type Reason string

const (
	ReasonSignatureMismatch Reason = "signature_mismatch"
	ReasonEchoNotConfirmed  Reason = "echo_not_confirmed"
	ReasonTransportError    Reason = "transport_error"
	ReasonMalformedOrderRef Reason = "malformed_order_reference"
	ReasonOrderNotFound     Reason = "order_not_found"
	ReasonNotEligible       Reason = "not_eligible"
	ReasonNoActionTaken     Reason = "no_action_taken"
)

// Result names what happened to the order for an accepted notification.
type Result string

const (
	ResultPaid        Result = "paid"
	ResultAlreadyPaid Result = "already_paid"
	ResultNoAction    Result = "no_action"
)

// Notification is the inbound parameter set exactly as delivered by the
// gateway. It exists only for the duration of one callback request.
type Notification struct {
	Params map[string]string
}

func (n Notification) NotifyID() string    { return n.Params["notify_id"] }
func (n Notification) Sign() string        { return n.Params[FieldSign] }
func (n Notification) TradeStatus() string { return n.Params["trade_status"] }
func (n Notification) OutTradeNo() string  { return n.Params["out_trade_no"] }

// Outcome is the terminal result of handling one notification.
type Outcome struct {
	Accepted bool
	Result   Result
	Reason   Reason
	OrderID  int

	// Audit fields for the notification log.
	ExpectedSign string
	ReceivedSign string
	EchoResponse string
}

// Response returns the literal body the gateway expects.
func (o Outcome) Response() string {
	if o.Accepted {
		return "success"
	}
	return "fail"
}

// OrderGuard applies the idempotent mark-as-paid transition.
type OrderGuard interface {
	MarkPaidIfEligible(ctx context.Context, orderID int) (order.TransitionResult, error)
}

// Verifier authenticates inbound notifications: digest check, echo
// confirmation, trade-status interpretation, then the guarded order
// transition. Order state is only ever touched after both checks pass.
type Verifier struct {
	signer Signer
	echo   *EchoClient
	guard  OrderGuard
	logger *zap.Logger
}

func NewVerifier(signer Signer, echo *EchoClient, guard OrderGuard, logger *zap.Logger) *Verifier {
	return &Verifier{
		signer: signer,
		echo:   echo,
		guard:  guard,
		logger: logger,
	}
}

// Verify handles one notification attempt. The returned error is reserved
// for precondition and storage failures; protocol-level rejections come back
// as a non-accepted Outcome.
func (v *Verifier) Verify(ctx context.Context, n Notification, creds Credentials) (Outcome, error) {
	if err := creds.Validate(); err != nil {
		return Outcome{}, err
	}

	base := signBase(n.Params, creds.Key)
	expected := v.signer.Sign(base)
	received := n.Sign()
	out := Outcome{ExpectedSign: expected, ReceivedSign: received}

	// An empty or missing sign field is an ordinary mismatch.
	if !v.signer.Verify(base, received) {
		out.Reason = ReasonSignatureMismatch
		v.logger.Error("notification signature mismatch",
			zap.String("notify_id", n.NotifyID()),
			zap.String("expected_sign", expected),
			zap.String("received_sign", received),
		)
		return out, nil
	}

	confirmed, raw, err := v.echo.Confirm(ctx, creds.Partner, n.NotifyID())
	out.EchoResponse = raw
	if err != nil {
		out.Reason = ReasonTransportError
		v.logger.Error("notification echo confirmation transport error",
			zap.String("notify_id", n.NotifyID()),
			zap.Error(err),
		)
		return out, nil
	}
	if !confirmed {
		out.Reason = ReasonEchoNotConfirmed
		v.logger.Error("notification echo not confirmed",
			zap.String("notify_id", n.NotifyID()),
			zap.String("echo_response", raw),
		)
		return out, nil
	}

	status := n.TradeStatus()
	if status != TradeStatusFinished && status != TradeStatusSuccess {
		out.Accepted = true
		out.Result = ResultNoAction
		out.Reason = ReasonNoActionTaken
		v.logger.Info("notification observed without action",
			zap.String("notify_id", n.NotifyID()),
			zap.String("trade_status", status),
		)
		return out, nil
	}

	orderID, err := strconv.Atoi(n.OutTradeNo())
	if err != nil {
		out.Reason = ReasonMalformedOrderRef
		v.logger.Error("notification carries non-numeric order reference",
			zap.String("notify_id", n.NotifyID()),
			zap.String("out_trade_no", n.OutTradeNo()),
		)
		return out, nil
	}
	out.OrderID = orderID

	result, err := v.guard.MarkPaidIfEligible(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			out.Reason = ReasonOrderNotFound
			v.logger.Error("notification references unknown order",
				zap.String("notify_id", n.NotifyID()),
				zap.Int("order_id", orderID),
			)
			return out, nil
		}
		return out, err
	}

	switch result {
	case order.TransitionPaid:
		out.Accepted = true
		out.Result = ResultPaid
	case order.TransitionAlreadyPaid:
		out.Accepted = true
		out.Result = ResultAlreadyPaid
	default:
		out.Reason = ReasonNotEligible
		v.logger.Warn("notification for order not eligible for payment",
			zap.String("notify_id", n.NotifyID()),
			zap.Int("order_id", orderID),
		)
	}
	return out, nil
}
