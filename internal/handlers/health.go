package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/edtech-scanner/app-auth/internal/config"
	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary Health check
// @Description Reports the health of the service and its backing stores
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:   "ok",
		Services: map[string]string{},
	}

	if config.MongoDB != nil {
		if err := config.MongoDB.Client().Ping(ctx, nil); err != nil {
			resp.Services["mongodb"] = "unavailable"
			resp.Status = "degraded"
		} else {
			resp.Services["mongodb"] = "ok"
		}
	}

	if config.Redis != nil {
		if err := config.Redis.Ping(ctx).Err(); err != nil {
			resp.Services["redis"] = "unavailable"
			resp.Status = "degraded"
		} else {
			resp.Services["redis"] = "ok"
		}
	} else {
		resp.Services["redis"] = "disabled"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
