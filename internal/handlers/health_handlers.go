package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports the availability of the optional collaborators.
// Components that are not configured are omitted from the map.
func (h *BatchHandler) HealthCheck(c *gin.Context) {
	services := make(map[string]string)
	if h.cache != nil {
		services["redis"] = h.cache.HealthCheck(c.Request.Context())
	}
	if h.notifier != nil {
		services["rabbitmq"] = h.notifier.HealthCheck()
	}
	if h.store != nil {
		services["supabase"] = h.store.HealthCheck(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now(),
		"services":  services,
	})
}
