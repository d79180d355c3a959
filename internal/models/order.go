package models

import "time"

// Payment status values for Order.PaymentStatus. The gateway integration may
// only ever move an order from pending to paid; every other status is
// read-only to it.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
	PaymentStatusVoided   = "voided"
)

// Order maps to the `orders` table. Orders are owned by the shop; this
// service only reads them and flips payment_status under the guard.
type Order struct {
	ID            int        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CustomerEmail string     `gorm:"column:customer_email;size:400" json:"customer_email"`
	Total         float64    `gorm:"column:total;type:decimal(12,2)" json:"total"`
	PaymentStatus string     `gorm:"column:payment_status;size:100" json:"payment_status"`
	PaymentMethod string     `gorm:"column:payment_method;size:200" json:"payment_method"`
	PaidAt        *time.Time `gorm:"column:paid_at" json:"paid_at"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (Order) TableName() string {
	return "orders"
}
