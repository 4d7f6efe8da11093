package models

import "time"

// AuditLog is the append-only record of security-relevant and financial
// operations. Actor is free text ("processor", "system") when the entry is
// not attributable to a user session.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id"`
	Actor      string    `gorm:"size:64" json:"actor"`
	Action     string    `gorm:"size:100;not null;index" json:"action"`
	Resource   string    `gorm:"size:100;index" json:"resource"`
	ResourceID string    `gorm:"size:100;index" json:"resource_id"`
	Severity   string    `gorm:"size:20;not null;index;default:'INFO'" json:"severity"` // INFO, HIGH, CRITICAL
	IP         string    `gorm:"size:45" json:"ip"`
	UserAgent  string    `gorm:"size:512" json:"user_agent"`
	Details    string    `gorm:"type:text" json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
