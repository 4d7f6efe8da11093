package handler

import (
	"errors"
	"net/http"
	"strconv"

	"plume/internal/audit"
	"plume/internal/domain"
	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/payments"

	"github.com/gin-gonic/gin"
)

// userStore is the slice of UserRepository checkout needs.
type userStore interface {
	GetByID(id uint) (*models.User, error)
}

type CheckoutHandler struct {
	initiator *payments.SessionInitiator
	users     userStore
	sink      payments.AuditSink
}

func NewCheckoutHandler(initiator *payments.SessionInitiator, users userStore, sink payments.AuditSink) *CheckoutHandler {
	return &CheckoutHandler{initiator: initiator, users: users, sink: sink}
}

type checkoutRequest struct {
	PriceRef string `json:"price_ref" binding:"required"`
}

// Create opens a checkout session for an owned order. The account check
// runs before any request parsing so an inactive caller always gets 401,
// whatever the body looks like.
// POST /api/v1/orders/:id/checkout
func (h *CheckoutHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.users.GetByID(userID)
	if err != nil || !u.Active {
		h.sink.Record(audit.Entry{
			UserID:     &userID,
			Actor:      "user",
			Action:     "CHECKOUT_UNAUTHORIZED",
			Resource:   "order",
			ResourceID: c.Param("id"),
			Severity:   domain.SeverityHigh,
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Details:    "inactive or unknown account",
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account inactive"})
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price_ref required"})
		return
	}

	sess, err := h.initiator.CreateCheckoutSession(c.Request.Context(), uint(orderID), req.PriceRef, payments.Requester{
		UserID: u.ID,
		Email:  u.Email,
		IP:     c.ClientIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, payments.ErrAlreadyPaid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "already paid"})
		case errors.Is(err, payments.ErrSessionConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "checkout already in progress"})
		default:
			// Processor detail stays in the logs; callers get a generic message.
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment session creation failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sess.SessionID, "url": sess.URL})
}
