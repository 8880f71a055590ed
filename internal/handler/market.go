package handler

import (
	"net/http"
	"time"

	"stock-alpha-engine/internal/analysis"

	"github.com/gin-gonic/gin"
)

// MarketStatus godoc
// @Summary      Indian market status
// @Description  Reports whether NSE/BSE is open right now (Mon-Fri 9:15 AM - 3:30 PM IST)
// @Tags         market
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/market-status [get]
func (h *Handler) MarketStatus(c *gin.Context) {
	now := h.now()
	c.JSON(http.StatusOK, gin.H{
		"market":     analysis.MarketName,
		"status":     analysis.MarketStatus(now),
		"timezone":   analysis.MarketTimezone,
		"checked_at": now.In(analysis.IST()).Format(time.RFC3339),
	})
}
