package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const rootMessage = "Stock Alpha Analyst v3.1 Engine is running"

// Root godoc
// @Summary      Liveness probe
// @Description  Confirms the analysis engine is up
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": rootMessage})
}

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
