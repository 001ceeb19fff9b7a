package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthCheck returns service health status (basic)
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "inventory-automation-service",
	})
}

// ConnectionTester probes the remote billing API.
type ConnectionTester interface {
	TestConnection(ctx context.Context) error
}

type ReadinessHandler struct {
	db     *gorm.DB
	client ConnectionTester
}

func NewReadinessHandler(db *gorm.DB, client ConnectionTester) *ReadinessHandler {
	return &ReadinessHandler{db: db, client: client}
}

// Ready returns detailed readiness including database and billing API checks.
func (h *ReadinessHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := gin.H{}
	status := "healthy"

	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			checks["database"] = gin.H{"status": "unhealthy", "error": err.Error()}
			status = "degraded"
		} else {
			checks["database"] = gin.H{"status": "healthy"}
		}
	}

	if h.client != nil {
		if err := h.client.TestConnection(ctx); err != nil {
			checks["billingApi"] = gin.H{"status": "unhealthy", "error": err.Error()}
			status = "degraded"
		} else {
			checks["billingApi"] = gin.H{"status": "healthy"}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"service": "inventory-automation-service",
		"checks":  checks,
	})
}
