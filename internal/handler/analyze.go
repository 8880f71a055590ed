package handler

import (
	"errors"
	"net/http"
	"strings"

	"stock-alpha-engine/internal/analysis"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// Analyze godoc
// @Summary      Analyze a stock
// @Description  Scores technicals, fundamentals and news sentiment for a ticker and returns a signal, verdict and rationale
// @Tags         analysis
// @Produce      json
// @Param        ticker  query  string  true  "Ticker symbol (e.g. RELIANCE.NS)"
// @Success      200  {object}  domain.AnalysisResponse
// @Header       200  {string}  X-Cache  "HIT or MISS"
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /analyze [get]
func (h *Handler) Analyze(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.analyze")
	defer span.End()

	raw := strings.TrimSpace(c.Query("ticker"))
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "ticker query parameter is required"})
		return
	}
	span.SetAttributes(attribute.String("ticker", strings.ToUpper(raw)))

	resp, cached, err := h.analyses.Analyze(ctx, raw)
	switch {
	case errors.Is(err, analysis.ErrInvalidTicker):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	case errors.Is(err, analysis.ErrTickerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": analysis.NotFoundMessage(raw)})
		return
	case err != nil:
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	if cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, resp)
}
