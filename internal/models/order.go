package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is a client's correction request ("commande"). PaymentStatus and
// ProcessorSessionID are only ever written through the conditional updates
// in OrderRepository; see internal/payments.
type Order struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Number             string         `gorm:"uniqueIndex;size:64;not null" json:"number"` // e.g. ord_6f3a...
	OwnerID            uint           `gorm:"not null;index" json:"owner_id"`
	Title              string         `gorm:"size:255;not null" json:"title"`
	Description        string         `gorm:"type:text" json:"description"`
	ServiceType        string         `gorm:"size:20;not null" json:"service_type"` // CORRECTION, PROOFREADING, EDITING
	WordCount          int            `json:"word_count"`
	AmountCents        int64          `gorm:"not null" json:"amount_cents"`
	Currency           string         `gorm:"size:3;default:'EUR'" json:"currency"`
	PaymentStatus      string         `gorm:"size:20;index;default:''" json:"payment_status"` // '', UNPAID, PAID, FAILED
	Status             string         `gorm:"size:20;not null;index;default:'PENDING'" json:"status"`
	ProcessorSessionID *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil until a checkout session is bound
	PriceRef           string         `gorm:"size:128" json:"price_ref"`
	EditorID           *uint          `gorm:"index" json:"editor_id"`
	PaidAt             *time.Time     `json:"paid_at"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Owner       User         `gorm:"foreignKey:OwnerID" json:"-"`
	Attachments []Attachment `gorm:"foreignKey:OrderID" json:"attachments,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}
