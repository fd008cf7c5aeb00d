package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusmark/internal/auth"
	"campusmark/internal/geo"
	"campusmark/internal/roster"
)

// ListCourses returns all courses; ?faculty= narrows to one teacher.
func (h *Handler) ListCourses(c *gin.Context) {
	courses, err := h.roster.ListCourses(c.Request.Context(), c.Query("faculty"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch courses"})
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GetCourse returns one course with its enrollments.
func (h *Handler) GetCourse(c *gin.Context) {
	course, err := h.roster.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch course"})
		return
	}
	if course == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

type courseRequest struct {
	Name       string          `json:"name" binding:"required"`
	Code       string          `json:"code" binding:"required"`
	StartTime  string          `json:"startTime" binding:"required"`
	EndTime    string          `json:"endTime" binding:"required"`
	Room       string          `json:"room" binding:"required"`
	Coordinate *geo.Coordinate `json:"coordinates"`
	StudentIDs []string        `json:"students"`
}

// CreateCourse registers a course owned by the calling faculty member.
func (h *Handler) CreateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims, _ := auth.FromContext(c)

	course, err := h.roster.CreateCourse(c.Request.Context(), roster.Course{
		Name:       req.Name,
		Code:       req.Code,
		FacultyID:  claims.UserID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Room:       req.Room,
		Coordinate: req.Coordinate,
		StudentIDs: req.StudentIDs,
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "failed to create course"})
		return
	}
	c.JSON(http.StatusCreated, course)
}

// UpdateCourse replaces a course's mutable fields.
func (h *Handler) UpdateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := h.roster.UpdateCourse(c.Request.Context(), roster.Course{
		ID:         c.Param("id"),
		Name:       req.Name,
		Code:       req.Code,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Room:       req.Room,
		Coordinate: req.Coordinate,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update course"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "course updated"})
}

// AddStudent enrolls a student in a course.
func (h *Handler) AddStudent(c *gin.Context) {
	var req struct {
		StudentID string `json:"studentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.roster.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch course"})
		return
	}
	if course == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}

	if err := h.roster.AddStudent(c.Request.Context(), course.ID, req.StudentID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add student"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student enrolled"})
}

// DeleteCourse removes a course. Admin only; enforced by route middleware.
func (h *Handler) DeleteCourse(c *gin.Context) {
	ok, err := h.roster.DeleteCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete course"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "course deleted"})
}
