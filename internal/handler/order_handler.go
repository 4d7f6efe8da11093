package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"plume/internal/domain"
	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderHandler struct {
	orderRepo *repository.OrderRepository
	notifSvc  *service.NotificationService
}

func NewOrderHandler(orderRepo *repository.OrderRepository, notifSvc *service.NotificationService) *OrderHandler {
	return &OrderHandler{orderRepo: orderRepo, notifSvc: notifSvc}
}

type createOrderRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ServiceType string `json:"service_type" binding:"required"`
	WordCount   int    `json:"word_count" binding:"required,min=1"`
	AmountCents int64  `json:"amount_cents" binding:"required,min=1"`
	Currency    string `json:"currency"`
}

// Create registers a new correction order for the caller.
// POST /api/v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, service_type, word_count and amount_cents required"})
		return
	}
	switch req.ServiceType {
	case domain.ServiceCorrection, domain.ServiceProofreading, domain.ServiceEditing:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown service_type"})
		return
	}
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "EUR"
	}
	o := &models.Order{
		Number:      "ord_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:20],
		OwnerID:     middleware.GetUserID(c),
		Title:       req.Title,
		Description: req.Description,
		ServiceType: req.ServiceType,
		WordCount:   req.WordCount,
		AmountCents: req.AmountCents,
		Currency:    currency,
		Status:      domain.OrderPending,
	}
	if err := h.orderRepo.Create(o); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create order"})
		return
	}
	c.JSON(http.StatusCreated, o)
}

// List returns the caller's orders.
// GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	orders, total, err := h.orderRepo.ListByOwner(middleware.GetUserID(c), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total, "page": page})
}

// Get returns one order; owners see their own, staff see any.
// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	role := middleware.GetRole(c)
	var o *models.Order
	if role == domain.RoleEditor || role == domain.RoleAdmin {
		o, err = h.orderRepo.GetByID(uint(id))
	} else {
		o, err = h.orderRepo.GetByIDForOwner(uint(id), middleware.GetUserID(c))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, o)
}

// Cancel cancels an unpaid order owned by the caller.
// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	o, err := h.orderRepo.GetByIDForOwner(uint(id), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if o.PaymentStatus == domain.PaymentPaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paid orders cannot be cancelled"})
		return
	}
	if err := h.orderRepo.SetStatus(o.ID, domain.OrderCancelled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cancel failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": domain.OrderCancelled})
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus lets staff advance fulfillment state.
// PATCH /api/v1/staff/orders/:id/status
func (h *OrderHandler) SetStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status required"})
		return
	}
	switch req.Status {
	case domain.OrderInProgress, domain.OrderCompleted, domain.OrderDelivered:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	o, err := h.orderRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err := h.orderRepo.SetStatus(o.ID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	_ = h.notifSvc.Notify(c.Request.Context(), o.OwnerID, "order.status", "Order update",
		"Your order "+o.Number+" is now "+req.Status,
		map[string]interface{}{"order_id": o.ID, "status": req.Status})
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
