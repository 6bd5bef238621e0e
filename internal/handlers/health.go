package handlers

import (
	"net/http"
	"stockgame/internal/database"

	"github.com/gin-gonic/gin"
)

// SchedulerStatus reports whether the auto-advance loop is running.
type SchedulerStatus interface {
	Running() bool
}

type HealthHandler struct {
	scheduler SchedulerStatus
}

// NewHealthHandler creates a health handler. The scheduler may be nil
// when no auto-advance loop is configured.
func NewHealthHandler(scheduler SchedulerStatus) *HealthHandler {
	return &HealthHandler{scheduler: scheduler}
}

// Health checks the health status of the service
// @Summary Health Check
// @Description Get health status of the service, database connection and auto-advance scheduler
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is healthy"
// @Failure 503 {object} map[string]interface{} "Service is unhealthy"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	// Check database connection
	db := database.GetDB()
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database connection failed",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database ping failed",
		})
		return
	}

	schedulerState := "disabled"
	if h.scheduler != nil {
		schedulerState = "stopped"
		if h.scheduler.Running() {
			schedulerState = "running"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "stockgame-backend",
		"database":  "connected",
		"scheduler": schedulerState,
	})
}
