package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"aligate/internal/models"
)

// OrderRepository handles order database operations.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// GetByID returns an order by its numeric id.
func (r *OrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkPaid flips payment_status to paid for an order that is still pending
// and stamps paid_at. The pending predicate makes the update conditional, so
// the returned row count is 1 for the transition that won and 0 for
// everything else (already paid, other status, unknown id).
func (r *OrderRepository) MarkPaid(ctx context.Context, id int, paidAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusPaid,
			"paid_at":        paidAt,
		})
	return res.RowsAffected, res.Error
}

// Create inserts a new order.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// PaidSummarySince returns count and total amount of orders paid after t.
func (r *OrderRepository) PaidSummarySince(ctx context.Context, t time.Time) (int64, float64, error) {
	var row struct {
		Count int64
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_status = ? AND paid_at >= ?", models.PaymentStatusPaid, t).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Scan(&row).Error
	return row.Count, row.Total, err
}
