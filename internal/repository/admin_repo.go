package repository

import (
	"plume/internal/domain"
	"plume/internal/models"

	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalOrders     int64 `json:"total_orders"`
	PendingOrders   int64 `json:"pending_orders"`
	OrdersInProcess int64 `json:"orders_in_progress"`
	PaidOrders      int64 `json:"paid_orders"`
	FailedPayments  int64 `json:"failed_payments"`
	TotalRevenue    int64 `json:"total_revenue_cents"`
	TotalInvoices   int64 `json:"total_invoices"`
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetDashboardStats() (*DashboardStats, error) {
	var s DashboardStats
	r.db.Model(&models.User{}).Count(&s.TotalUsers)
	r.db.Model(&models.Order{}).Count(&s.TotalOrders)
	r.db.Model(&models.Order{}).Where("status = ?", domain.OrderPending).Count(&s.PendingOrders)
	r.db.Model(&models.Order{}).Where("status = ?", domain.OrderInProgress).Count(&s.OrdersInProcess)
	r.db.Model(&models.Order{}).Where("payment_status = ?", domain.PaymentPaid).Count(&s.PaidOrders)
	r.db.Model(&models.Order{}).Where("payment_status = ?", domain.PaymentFailed).Count(&s.FailedPayments)

	var rev struct{ Total int64 }
	r.db.Model(&models.Order{}).Select("COALESCE(SUM(amount_cents), 0) as total").
		Where("payment_status = ?", domain.PaymentPaid).Scan(&rev)
	s.TotalRevenue = rev.Total

	r.db.Model(&models.Invoice{}).Count(&s.TotalInvoices)
	return &s, nil
}

// ListUsers returns users with search, role filter, and pagination.
func (r *AdminRepository) ListUsers(search, role string, page, limit int) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{})
	if search != "" {
		q = q.Where("name LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var total int64
	q.Count(&total)
	var users []models.User
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	return users, total, err
}

// ListOrders returns orders with status filters and pagination.
func (r *AdminRepository) ListOrders(status, paymentStatus string, page, limit int) ([]models.Order, int64, error) {
	q := r.db.Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if paymentStatus != "" {
		q = q.Where("payment_status = ?", paymentStatus)
	}
	var total int64
	q.Count(&total)
	var orders []models.Order
	err := q.Preload("Attachments").Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&orders).Error
	return orders, total, err
}
