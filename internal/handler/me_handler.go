package handler

import (
	"net/http"
	"strconv"

	"plume/internal/middleware"
	"plume/internal/repository"
	"plume/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo *repository.UserRepository
	cloud    cloudinary.Client
}

func NewMeHandler(userRepo *repository.UserRepository, cloud cloudinary.Client) *MeHandler {
	return &MeHandler{userRepo: userRepo, cloud: cloud}
}

// GetProfile returns the authenticated user.
// GET /api/v1/me/profile
func (h *MeHandler) GetProfile(c *gin.Context) {
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

// UpdateProfile updates mutable profile fields.
// PATCH /api/v1/me/profile
func (h *MeHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// UploadAvatar replaces the user's avatar image.
// POST /api/v1/me/avatar
func (h *MeHandler) UploadAvatar(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
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

	publicID := "avatar_" + strconv.FormatUint(uint64(userID), 10)
	_, thumb, err := h.cloud.UploadImage(c.Request.Context(), f, "plume/avatars", publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	u.AvatarURL = thumb
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": u.AvatarURL})
}
