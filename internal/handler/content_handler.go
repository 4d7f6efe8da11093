package handler

import (
	"net/http"

	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/repository"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	repo *repository.ContentRepository
}

func NewContentHandler(repo *repository.ContentRepository) *ContentHandler {
	return &ContentHandler{repo: repo}
}

// List returns all landing-page sections; public.
// GET /api/v1/content
func (h *ContentHandler) List(c *gin.Context) {
	sections, err := h.repo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load content"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// Get returns one section by key; public.
// GET /api/v1/content/:key
func (h *ContentHandler) Get(c *gin.Context) {
	s, err := h.repo.GetByKey(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
		return
	}
	c.JSON(http.StatusOK, s)
}

type upsertSectionRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Position int    `json:"position"`
}

// Upsert creates or replaces a section by key; admin only.
// PUT /api/v1/admin/content/:key
func (h *ContentHandler) Upsert(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key required"})
		return
	}
	var req upsertSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	s := &models.PageSection{
		Key:       key,
		Title:     req.Title,
		Body:      req.Body,
		Position:  req.Position,
		UpdatedBy: middleware.GetUserID(c),
	}
	if err := h.repo.Upsert(s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// Delete removes a section; admin only.
// DELETE /api/v1/admin/content/:key
func (h *ContentHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Param("key")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
