package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/franciscosanchezn/pizza-search-api/internal/services"
	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthController reports whether the service can reach its document store
type HealthController struct {
	service services.PizzaService
}

// NewHealthController creates a new instance of HealthController
func NewHealthController(service services.PizzaService) *HealthController {
	return &HealthController{service: service}
}

// HealthCheck godoc
// @Summary Health check
// @Description Check if the service is running and the document store answers
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (hc *HealthController) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	body := gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "pizza-search-api",
	}
	if err := hc.service.Ping(ctx); err != nil {
		c.Error(err)
		body["status"] = "unhealthy"
		body["store"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["status"] = "healthy"
	c.JSON(http.StatusOK, body)
}
