package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListStudents returns all users with the STUDENT role.
func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.roster.ListStudents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch students"})
		return
	}
	c.JSON(http.StatusOK, students)
}

// GetStudent returns one user by id.
func (h *Handler) GetStudent(c *gin.Context) {
	user, err := h.roster.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch student"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type avatarRequest struct {
	AvatarURL string `json:"avatarUrl"`
	Data      string `json:"data"` // base64 image, uploaded when storage is configured
}

// UpdateAvatar sets a student's avatar, uploading the image first when a
// base64 payload is provided and Cloudinary is configured.
func (h *Handler) UpdateAvatar(c *gin.Context) {
	var req avatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url := req.AvatarURL
	if req.Data != "" {
		if h.cloud == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
			return
		}
		result, err := h.cloud.UploadAvatar(req.Data)
		if err != nil {
			log.Printf("avatar upload failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}
		url = result.SecureURL
	}
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatarUrl or data required"})
		return
	}

	ok, err := h.roster.UpdateAvatar(c.Request.Context(), c.Param("id"), url)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update avatar"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatarUrl": url})
}

// DeleteStudent removes a user. Admin only; enforced by route middleware.
func (h *Handler) DeleteStudent(c *gin.Context) {
	ok, err := h.roster.DeleteUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete student"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student deleted"})
}
