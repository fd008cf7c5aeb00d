package handler

import (
	"encoding/base64"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"campusmark/internal/attendance"
	"campusmark/internal/geo"
)

type verifyRequest struct {
	StudentID   string   `json:"studentId" binding:"required"`
	CourseID    string   `json:"courseId" binding:"required"`
	ImageBase64 string   `json:"imageBase64" binding:"required"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// Verify runs the attendance decision pipeline for one capture event.
func (h *Handler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, err := decodeImage(req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image payload"})
		return
	}

	ctx := c.Request.Context()
	student, err := h.roster.GetUser(ctx, req.StudentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		return
	}
	if student == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	course, err := h.roster.GetCourse(ctx, req.CourseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		return
	}
	if course == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}

	evt := attendance.CaptureEvent{
		StudentID:   student.ID,
		CourseID:    course.ID,
		ClaimedName: student.Name,
		Image:       image,
		ObservedAt:  time.Now(),
	}
	if req.Latitude != nil && req.Longitude != nil {
		evt.Coordinate = &geo.Coordinate{Lat: *req.Latitude, Lng: *req.Longitude}
	}

	outcome, err := h.pipeline.Decide(ctx, evt, *course)
	if err != nil {
		// Only ledger trouble reaches here; verifier failures already
		// degraded inside the pipeline.
		log.Printf("attendance upsert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// decodeImage accepts a raw base64 string or a data URL and returns the
// image bytes.
func decodeImage(payload string) ([]byte, error) {
	if i := strings.Index(payload, ","); i >= 0 {
		payload = payload[i+1:]
	}
	return base64.StdEncoding.DecodeString(payload)
}

type markRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	CourseID  string `json:"courseId" binding:"required"`
	Status    string `json:"status"`
	Date      string `json:"date"`
}

// Mark records attendance manually. Faculty/admin only; enforced by
// route middleware.
func (h *Handler) Mark(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.marks.MarkManual(c.Request.Context(), req.StudentID, req.CourseID, attendance.Status(req.Status), req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// CourseRecords lists a course's records; ?date= narrows to one day.
func (h *Handler) CourseRecords(c *gin.Context) {
	records, err := h.ledger.ListByCourse(c.Request.Context(), c.Param("courseId"), c.Query("date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch attendance records"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// StudentRecords lists a student's records across courses.
func (h *Handler) StudentRecords(c *gin.Context) {
	records, err := h.ledger.ListByStudent(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch attendance records"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// CourseStats returns the status breakdown and session count for a course.
func (h *Handler) CourseStats(c *gin.Context) {
	stats, err := h.ledger.Stats(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DashboardStats returns today's counts, the weekly rate, and defaulters.
func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.ledger.Dashboard(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch dashboard stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
