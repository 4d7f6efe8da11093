package repository

import (
	"plume/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) List() ([]models.PageSection, error) {
	var sections []models.PageSection
	err := r.db.Order("position ASC").Find(&sections).Error
	return sections, err
}

func (r *ContentRepository) GetByKey(key string) (*models.PageSection, error) {
	var s models.PageSection
	if err := r.db.Where("`key` = ?", key).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert creates or updates the section by key.
func (r *ContentRepository) Upsert(s *models.PageSection) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "body", "position", "updated_by"}),
	}).Create(s).Error
}

func (r *ContentRepository) Delete(key string) error {
	return r.db.Where("`key` = ?", key).Delete(&models.PageSection{}).Error
}
