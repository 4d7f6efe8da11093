package handler

import (
	"net/http"
	"strconv"
	"strings"

	"plume/internal/domain"
	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/repository"
	"plume/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UploadHandler struct {
	cloud          cloudinary.Client
	orderRepo      *repository.OrderRepository
	attachmentRepo *repository.AttachmentRepository
}

func NewUploadHandler(cloud cloudinary.Client, orderRepo *repository.OrderRepository, attachmentRepo *repository.AttachmentRepository) *UploadHandler {
	return &UploadHandler{cloud: cloud, orderRepo: orderRepo, attachmentRepo: attachmentRepo}
}

// UploadManuscript attaches a manuscript document to an owned order.
// POST /api/v1/orders/:id/attachments
func (h *UploadHandler) UploadManuscript(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	order, err := h.orderRepo.GetByIDForOwner(uint(orderID), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	h.upload(c, order.ID, userID, domain.AttachmentManuscript)
}

// UploadCorrected attaches a corrected document; staff only.
// POST /api/v1/staff/orders/:id/attachments
func (h *UploadHandler) UploadCorrected(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	order, err := h.orderRepo.GetByID(uint(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	h.upload(c, order.ID, middleware.GetUserID(c), domain.AttachmentCorrected)
}

func (h *UploadHandler) upload(c *gin.Context, orderID, uploaderID uint, kind string) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	folder := "plume/orders/" + strconv.FormatUint(uint64(orderID), 10)
	publicID := "doc_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	url, err := h.cloud.UploadDocument(c.Request.Context(), f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	a := &models.Attachment{
		OrderID:    orderID,
		UploaderID: uploaderID,
		Kind:       kind,
		FileName:   file.Filename,
		URL:        url,
		SizeBytes:  file.Size,
	}
	if err := h.attachmentRepo.Create(a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save attachment"})
		return
	}
	c.JSON(http.StatusCreated, a)
}

// DeleteAttachment removes a manuscript the owner uploaded, as long as the
// order is not paid yet.
// DELETE /api/v1/orders/:id/attachments/:attachmentID
func (h *UploadHandler) DeleteAttachment(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	attachmentID, err := strconv.ParseUint(c.Param("attachmentID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attachment id"})
		return
	}
	order, err := h.orderRepo.GetByIDForOwner(uint(orderID), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if order.PaymentStatus == domain.PaymentPaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paid orders cannot be modified"})
		return
	}
	a, err := h.attachmentRepo.GetByID(uint(attachmentID))
	if err != nil || a.OrderID != order.ID || a.Kind != domain.AttachmentManuscript {
		c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
		return
	}
	if err := h.attachmentRepo.Delete(a.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ListAttachments returns an order's attachments for its owner or staff.
// GET /api/v1/orders/:id/attachments
func (h *UploadHandler) ListAttachments(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	if middleware.GetRole(c) == domain.RoleClient {
		if _, err := h.orderRepo.GetByIDForOwner(uint(orderID), middleware.GetUserID(c)); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
	}
	items, err := h.attachmentRepo.ListByOrder(uint(orderID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list attachments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachments": items})
}
