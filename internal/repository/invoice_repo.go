package repository

import (
	"context"
	"fmt"

	"plume/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// CreateIfAbsent inserts the invoice unless one already exists for the
// order. The unique index on order_id makes concurrent generation safe;
// a conflicting insert is silently skipped and the existing row returned.
func (r *InvoiceRepository) CreateIfAbsent(ctx context.Context, inv *models.Invoice) (*models.Invoice, bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoNothing: true,
	}).Create(inv)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return inv, true, nil
	}
	existing, err := r.GetByOrderID(ctx, inv.OrderID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *InvoiceRepository) GetByOrderID(ctx context.Context, orderID uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) GetByIDForUser(ctx context.Context, id, userID uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) ListByUser(ctx context.Context, userID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&invoices).Error
	return invoices, err
}

// CountForYear returns how many invoices were issued in the given year,
// used for sequential invoice numbering.
func (r *InvoiceRepository) CountForYear(ctx context.Context, year int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("number LIKE ?", fmt.Sprintf("INV-%d-%%", year)).Count(&n).Error
	return n, err
}
