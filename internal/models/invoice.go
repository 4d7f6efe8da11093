package models

import "time"

// Invoice is generated at most once per paid order; the unique index on
// OrderID backs the exactly-once guarantee in InvoiceService.
type Invoice struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Number      string    `gorm:"uniqueIndex;size:32;not null" json:"number"` // INV-YYYY-NNNNNN
	OrderID     uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	Currency    string    `gorm:"size:3;default:'EUR'" json:"currency"`
	IssuedAt    time.Time `json:"issued_at"`
	CreatedAt   time.Time `json:"created_at"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

func (Invoice) TableName() string {
	return "invoices"
}
