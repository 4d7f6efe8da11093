package handler

import (
	"net/http"
	"strconv"

	"plume/internal/repository"
	"plume/internal/ws"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminRepo *repository.AdminRepository
	userRepo  *repository.UserRepository
	orderRepo *repository.OrderRepository
	auditRepo *repository.AuditLogRepository
	hub       *ws.Hub
}

func NewAdminHandler(adminRepo *repository.AdminRepository, userRepo *repository.UserRepository, orderRepo *repository.OrderRepository, auditRepo *repository.AuditLogRepository, hub *ws.Hub) *AdminHandler {
	return &AdminHandler{adminRepo: adminRepo, userRepo: userRepo, orderRepo: orderRepo, auditRepo: auditRepo, hub: hub}
}

// Dashboard returns platform-wide stats.
// GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminRepo.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "connected_clients": h.hub.ClientCount()})
}

// ListUsers returns users with search/role filters.
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := pagination(c)
	users, total, err := h.adminRepo.ListUsers(c.Query("search"), c.Query("role"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total, "page": page})
}

// SetUserActive toggles a user's active flag.
// PATCH /api/v1/admin/users/:id/active
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "active required"})
		return
	}
	if err := h.userRepo.SetActive(uint(id), *req.Active); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": *req.Active})
}

// ListOrders returns orders with status filters.
// GET /api/v1/admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	page, limit := pagination(c)
	orders, total, err := h.adminRepo.ListOrders(c.Query("status"), c.Query("payment_status"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total, "page": page})
}

// AssignEditor assigns an editor to an order.
// PATCH /api/v1/admin/orders/:id/editor
func (h *AdminHandler) AssignEditor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req struct {
		EditorID uint `json:"editor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "editor_id required"})
		return
	}
	editor, err := h.userRepo.GetByID(req.EditorID)
	if err != nil || !editor.IsStaff() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "editor_id must reference staff"})
		return
	}
	if err := h.orderRepo.AssignEditor(uint(id), req.EditorID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"editor_id": req.EditorID})
}

// ListAuditLog returns audit entries, newest first.
// GET /api/v1/admin/audit
func (h *AdminHandler) ListAuditLog(c *gin.Context) {
	page, limit := pagination(c)
	entries, total, err := h.auditRepo.List(c.Query("action"), c.Query("severity"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list audit log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": total, "page": page})
}
