package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"stock-alpha-engine/internal/analysis"
	"stock-alpha-engine/internal/domain"
	"stock-alpha-engine/internal/provider"
	"stock-alpha-engine/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetCandles godoc
// @Summary      Get daily OHLCV candles
// @Description  Returns stored daily candles for a ticker, newest first, fetching live history when none are stored
// @Tags         market
// @Produce      json
// @Param        ticker  path   string  true   "Ticker symbol (e.g. TCS.NS)"
// @Param        limit   query  int     false  "Number of candles (default 100, max 500)"  default(100)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/candles/{ticker} [get]
func (h *Handler) GetCandles(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-candles")
	defer span.End()

	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	span.SetAttributes(attribute.String("ticker", ticker))

	candles, err := h.analyses.GetCandles(ctx, ticker, queryInt(c, "limit"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticker":   ticker,
		"interval": domain.IntervalDaily,
		"candles":  candles,
	})
}

// ListAnalyses godoc
// @Summary      List past analyses
// @Description  Returns persisted analysis summaries for a ticker, newest first
// @Tags         analysis
// @Produce      json
// @Param        ticker  path   string  true   "Ticker symbol (e.g. TCS.NS)"
// @Param        limit   query  int     false  "Number of records (default 20, max 100)"  default(20)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/analyses/{ticker} [get]
func (h *Handler) ListAnalyses(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-analyses")
	defer span.End()

	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	span.SetAttributes(attribute.String("ticker", ticker))

	records, err := h.analyses.History(ctx, ticker, queryInt(c, "limit"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker": ticker, "analyses": records})
}

// queryInt returns 0 for a missing or malformed value so the service default applies.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrInvalidTicker):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrTickerNotFound), errors.Is(err, provider.ErrTickerNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrHistoryUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
