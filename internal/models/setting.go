package models

import "time"

// GatewaySetting maps to the `gateway_setting` table (single-row config
// table). Partner, key and seller email come from the AliPay merchant
// account; the additional fee is a flat surcharge added at checkout.
type GatewaySetting struct {
	ID            uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Partner       string  `gorm:"column:partner;size:400" json:"partner"`
	Key           string  `gorm:"column:sign_key;size:400" json:"-"`
	SellerEmail   string  `gorm:"column:seller_email;size:400" json:"seller_email"`
	AdditionalFee float64 `gorm:"column:additional_fee;type:decimal(12,2)" json:"additional_fee"`
}

func (GatewaySetting) TableName() string {
	return "gateway_setting"
}

// NotificationLog maps to the `notification_log` table. One row per inbound
// gateway notification, kept for auditing forgery attempts and redeliveries.
type NotificationLog struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TraceID      string    `gorm:"column:trace_id;size:100" json:"trace_id"`
	NotifyID     string    `gorm:"column:notify_id;size:400" json:"notify_id"`
	OutTradeNo   string    `gorm:"column:out_trade_no;size:400" json:"out_trade_no"`
	TradeStatus  string    `gorm:"column:trade_status;size:100" json:"trade_status"`
	Outcome      string    `gorm:"column:outcome;size:100" json:"outcome"`
	Reason       string    `gorm:"column:reason;size:100" json:"reason"`
	ExpectedSign string    `gorm:"column:expected_sign;size:100" json:"expected_sign"`
	ReceivedSign string    `gorm:"column:received_sign;size:100" json:"received_sign"`
	EchoResponse string    `gorm:"column:echo_response;type:text" json:"echo_response"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_log"
}
