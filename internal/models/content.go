package models

import "time"

// PageSection is a keyed block of landing-page content editable by admins.
type PageSection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:64;not null" json:"key"` // e.g. hero, pricing, faq
	Title     string    `gorm:"size:255" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	Position  int       `gorm:"default:0" json:"position"`
	UpdatedBy uint      `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PageSection) TableName() string {
	return "page_sections"
}
