package handler

import (
	"net/http"
	"strconv"

	"plume/internal/middleware"
	"plume/internal/repository"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceRepo *repository.InvoiceRepository
}

func NewInvoiceHandler(invoiceRepo *repository.InvoiceRepository) *InvoiceHandler {
	return &InvoiceHandler{invoiceRepo: invoiceRepo}
}

// List returns the caller's invoices.
// GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.invoiceRepo.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list invoices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

// Get returns one owned invoice.
// GET /api/v1/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}
	inv, err := h.invoiceRepo.GetByIDForUser(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	c.JSON(http.StatusOK, inv)
}
