package order

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"aligate/internal/models"
)

// TransitionResult is the outcome of a mark-paid attempt.
type TransitionResult int

const (
	// TransitionPaid means this call performed the Pending→Paid transition.
	TransitionPaid TransitionResult = iota
	// TransitionAlreadyPaid means the order was paid before this call; the
	// duplicate is an idempotent no-op.
	TransitionAlreadyPaid
	// TransitionNotEligible means the order is in a status the gateway
	// integration may not touch.
	TransitionNotEligible
)

// ErrOrderNotFound is returned when the referenced order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// Repository is the slice of order persistence the guard needs.
type Repository interface {
	GetByID(ctx context.Context, id int) (*models.Order, error)
	MarkPaid(ctx context.Context, id int, paidAt time.Time) (int64, error)
}

// Guard serializes the Pending→Paid transition per order id. The conditional
// update alone already guarantees at most one transition; the keyed mutex on
// top keeps concurrent duplicates from racing between the update and the
// status read that classifies the loser.
type Guard struct {
	repo Repository

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewGuard(repo Repository) *Guard {
	return &Guard{
		repo:  repo,
		locks: make(map[int]*sync.Mutex),
	}
}

func (g *Guard) lockFor(orderID int) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.locks[orderID]
	if !ok {
		l = &sync.Mutex{}
		g.locks[orderID] = l
	}
	return l
}

// MarkPaidIfEligible transitions the order to paid if it is still pending.
// Duplicate or concurrent calls for the same order id are serialized and at
// most one of them performs the transition; the rest report AlreadyPaid
// without touching the paid timestamp.
func (g *Guard) MarkPaidIfEligible(ctx context.Context, orderID int) (TransitionResult, error) {
	l := g.lockFor(orderID)
	l.Lock()
	defer l.Unlock()

	rows, err := g.repo.MarkPaid(ctx, orderID, time.Now().UTC())
	if err != nil {
		return TransitionNotEligible, err
	}
	if rows > 0 {
		return TransitionPaid, nil
	}

	// The conditional update matched nothing: classify why.
	current, err := g.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransitionNotEligible, ErrOrderNotFound
		}
		return TransitionNotEligible, err
	}
	if current.PaymentStatus == models.PaymentStatusPaid {
		return TransitionAlreadyPaid, nil
	}
	return TransitionNotEligible, nil
}
