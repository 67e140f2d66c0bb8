package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentRecord is the append-only audit trail of verified gateway
// transactions. Rows are never updated or deleted; access itself lives in
// the enrollment table, records here are advisory.
type PaymentRecord struct {
	gorm.Model
	UserID   uint   `gorm:"index;not null" json:"userId"`
	CourseID uint   `gorm:"index;not null" json:"courseId"`

	OrderID   string `gorm:"type:varchar(100);index" json:"orderId"`   // Order ID from gateway
	PaymentID string `gorm:"type:varchar(100);index" json:"paymentId"` // Payment ID from gateway
	Signature string `gorm:"type:varchar(255)" json:"signature"`       // Verified callback signature

	Amount   int64  `gorm:"not null" json:"amount"` // minor currency units
	Currency string `gorm:"type:varchar(10)" json:"currency"`

	ReceiptNumber  string         `gorm:"type:varchar(64);uniqueIndex" json:"receiptNumber"`
	GatewayPayload datatypes.JSON `json:"gatewayPayload"` // raw callback body for audit
}
