package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RefreshWatchlist godoc
// @Summary      Refresh the watchlist
// @Description  Re-analyses every watchlist ticker now and refreshes the cache
// @Tags         watchlist
// @Produce      json
// @Success      200  {object}  domain.WatchlistRunResult
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/watchlist/refresh [post]
func (h *Handler) RefreshWatchlist(c *gin.Context) {
	if h.watchlistRunner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "watchlist runner unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.refresh-watchlist")
	defer span.End()

	result, err := h.watchlistRunner.RunOnce(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	errs := result.Errors
	if errs == nil {
		errs = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"analyzed": result.Analyzed,
		"failed":   result.Failed,
		"errors":   errs,
	})
}
