package models

import (
	"time"

	"gorm.io/gorm"
)

type Attachment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	OrderID    uint           `gorm:"not null;index" json:"order_id"`
	UploaderID uint           `gorm:"not null;index" json:"uploader_id"`
	Kind       string         `gorm:"size:20;not null" json:"kind"` // MANUSCRIPT, CORRECTED
	FileName   string         `gorm:"size:255;not null" json:"file_name"`
	URL        string         `gorm:"size:512;not null" json:"url"`
	SizeBytes  int64          `json:"size_bytes"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

func (Attachment) TableName() string {
	return "attachments"
}
