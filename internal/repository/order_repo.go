package repository

import (
	"time"

	"plume/internal/domain"
	"plume/internal/models"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *models.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByID(id uint) (*models.Order, error) {
	var o models.Order
	if err := r.db.First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByIDForOwner returns the order only when it belongs to ownerID.
// "not found" and "not owned" are indistinguishable to the caller.
func (r *OrderRepository) GetByIDForOwner(id, ownerID uint) (*models.Order, error) {
	var o models.Order
	if err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetBySessionID(sessionID string) (*models.Order, error) {
	var o models.Order
	if err := r.db.Where("processor_session_id = ?", sessionID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetByNumber(number string) (*models.Order, error) {
	var o models.Order
	if err := r.db.Where("number = ?", number).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByOwner(ownerID uint, page, limit int) ([]models.Order, int64, error) {
	q := r.db.Model(&models.Order{}).Where("owner_id = ?", ownerID)
	var total int64
	q.Count(&total)
	var orders []models.Order
	err := q.Preload("Attachments").Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&orders).Error
	return orders, total, err
}

// ClaimCheckoutSession binds a processor session to the order. The guard
// requires payment_status still unset and no session bound yet, so of two
// concurrent checkout attempts exactly one claim succeeds.
func (r *OrderRepository) ClaimCheckoutSession(id uint, sessionID, priceRef string) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND payment_status = ? AND processor_session_id IS NULL", id, domain.PaymentUnset).
		Updates(map[string]interface{}{
			"processor_session_id": sessionID,
			"payment_status":       domain.PaymentUnpaid,
			"price_ref":            priceRef,
		})
	return res.RowsAffected == 1, res.Error
}

// MarkPaid flips payment_status to PAID and status to IN_PROGRESS in a
// single guarded UPDATE. Returns whether this call changed the row; a
// redelivered completion event finds payment_status already PAID and
// reports false, which gates side-effect dispatch.
func (r *OrderRepository) MarkPaid(id uint) (bool, error) {
	now := time.Now()
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND payment_status <> ?", id, domain.PaymentPaid).
		Updates(map[string]interface{}{
			"payment_status": domain.PaymentPaid,
			"status":         domain.OrderInProgress,
			"paid_at":        &now,
		})
	return res.RowsAffected == 1, res.Error
}

// ConditionalUpdatePaymentStatus performs a compare-and-set on payment_status.
func (r *OrderRepository) ConditionalUpdatePaymentStatus(id uint, expected, next string) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, expected).
		Update("payment_status", next)
	return res.RowsAffected == 1, res.Error
}

func (r *OrderRepository) SetStatus(id uint, next string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", next).Error
}

func (r *OrderRepository) AssignEditor(id, editorID uint) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Update("editor_id", editorID).Error
}
