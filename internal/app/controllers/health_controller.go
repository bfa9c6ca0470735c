package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edutrack/internal/app/models/dto"
	"github.com/yigit/edutrack/internal/middleware"
)

// Version is reported by the service info endpoint.
const Version = "1.0.0"

// HealthChecker reports datastore reachability
type HealthChecker interface {
	Check(ctx context.Context) error
}

// HealthController serves liveness and service metadata
type HealthController struct {
	checker     HealthChecker
	serviceName string
	endpoints   map[string]string
}

// NewHealthController creates a new HealthController; endpoints is the
// route map advertised at the root path.
func NewHealthController(checker HealthChecker, serviceName string, endpoints map[string]string) *HealthController {
	return &HealthController{
		checker:     checker,
		serviceName: serviceName,
		endpoints:   endpoints,
	}
}

// Health reports whether the service can reach its database
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.ErrorResponse "Service unhealthy"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if err := c.checker.Check(ctx.Request.Context()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "healthy", Service: c.serviceName})
}

// Info describes the running service
// @Summary Service info
// @Tags health
// @Produce json
// @Success 200 {object} dto.ServiceInfoResponse
// @Router / [get]
func (c *HealthController) Info(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ServiceInfoResponse{
		Service:   c.serviceName,
		Version:   Version,
		Status:    "running",
		Endpoints: c.endpoints,
	})
}
