package repository

import (
	"plume/internal/models"

	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(e *models.AuditLog) error {
	return r.db.Create(e).Error
}

func (r *AuditLogRepository) List(action, severity string, page, limit int) ([]models.AuditLog, int64, error) {
	q := r.db.Model(&models.AuditLog{})
	if action != "" {
		q = q.Where("action = ?", action)
	}
	if severity != "" {
		q = q.Where("severity = ?", severity)
	}
	var total int64
	q.Count(&total)
	var entries []models.AuditLog
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&entries).Error
	return entries, total, err
}
