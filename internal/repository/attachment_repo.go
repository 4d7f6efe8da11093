package repository

import (
	"plume/internal/models"

	"gorm.io/gorm"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(a *models.Attachment) error {
	return r.db.Create(a).Error
}

func (r *AttachmentRepository) GetByID(id uint) (*models.Attachment, error) {
	var a models.Attachment
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttachmentRepository) ListByOrder(orderID uint) ([]models.Attachment, error) {
	var items []models.Attachment
	err := r.db.Where("order_id = ?", orderID).Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *AttachmentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Attachment{}, id).Error
}
