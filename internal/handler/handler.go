// Package handler contains the Gin HTTP handlers for the attendance API.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusmark/internal/attendance"
	"campusmark/internal/cloudinary"
	"campusmark/internal/config"
	"campusmark/internal/roster"
	"campusmark/internal/store"
)

// Handler bundles the collaborators the HTTP layer dispatches into.
type Handler struct {
	cfg      config.App
	roster   *roster.Repository
	ledger   *attendance.Repository
	pipeline *attendance.Pipeline
	marks    *attendance.Service
	cloud    *cloudinary.Client // nil when not configured
	redis    *store.Redis
}

// New creates the handler set.
func New(cfg config.App, rosterRepo *roster.Repository, ledger *attendance.Repository, pipeline *attendance.Pipeline, marks *attendance.Service, cloud *cloudinary.Client, redisClient *store.Redis) *Handler {
	return &Handler{
		cfg:      cfg,
		roster:   rosterRepo,
		ledger:   ledger,
		pipeline: pipeline,
		marks:    marks,
		cloud:    cloud,
		redis:    redisClient,
	}
}

// Healthz reports database and redis connectivity.
func (h *Handler) Healthz(c *gin.Context) {
	ctx := c.Request.Context()
	dbHealthy := h.roster.Touch(ctx) == nil
	redisHealthy := h.redis.Healthy(ctx)
	status := http.StatusOK
	if !dbHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
}
