package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/nexus/pkg/ctx"
	"github.com/shashiranjanraj/nexus/pkg/logger"
	"github.com/shashiranjanraj/nexus/pkg/response"
)

// HealthController answers liveness probes.
type HealthController struct {
	ping func(context.Context) error
}

func NewHealthController(ping func(context.Context) error) *HealthController {
	return &HealthController{ping: ping}
}

// Check handles GET /healthz. It fails with 503 when the database does not
// answer within two seconds.
func (hc *HealthController) Check(c *ctx.Context) {
	pctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := hc.ping(pctx); err != nil {
		logger.WithCtx(c.Context()).Warn("health check failed", "error", err)
		response.JSON(c.W, http.StatusServiceUnavailable, response.Fields{"success": false, "status": "unavailable"})
		return
	}
	c.OK(response.Fields{"status": "ok"})
}
