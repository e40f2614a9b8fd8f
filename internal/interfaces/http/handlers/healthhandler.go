package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inboxlift/internal/infrastructure/database"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health reports liveness plus database reachability.
func (h *HealthHandler) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	if db := database.Get(); db != nil {
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{"status": status})
}
