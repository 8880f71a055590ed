package mcpserver

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stock-alpha-engine/internal/analysis"
	"stock-alpha-engine/internal/domain"
	"stock-alpha-engine/internal/provider"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serverName = "stock-alpha-engine"

type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*domain.AnalysisResponse, bool, error)
}

type Options struct {
	Version        string
	RequestTimeout time.Duration
	RatePerMinute  int
	AuthToken      string
}

// Server exposes the analysis engine as MCP tools.
type Server struct {
	tracer    trace.Tracer
	analyzer  Analyzer
	mcp       *mcp.Server
	timeout   time.Duration
	limiter   *provider.RateLimiter
	authToken string
	now       func() time.Time
}

type AnalyzeInput struct {
	Ticker string `json:"ticker" jsonschema:"ticker symbol such as RELIANCE.NS, TCS.BO or AAPL"`
}

type MarketStatusInput struct{}

func New(tracer trace.Tracer, analyzer Analyzer, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "3.1.0"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.RatePerMinute <= 0 {
		opts.RatePerMinute = 60
	}

	s := &Server{
		tracer:    tracer,
		analyzer:  analyzer,
		timeout:   opts.RequestTimeout,
		limiter:   provider.NewRateLimiterPerMinute(opts.RatePerMinute),
		authToken: opts.AuthToken,
		now:       time.Now,
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{Name: serverName, Version: opts.Version}, nil)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "analyze_ticker",
		Description: "Analyse a listed equity: technical, fundamental and news sentiment scores, signal, verdict and rationale.",
	}, s.analyzeTicker)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "market_status",
		Description: "Report whether the Indian market (NSE/BSE) is currently open.",
	}, s.marketStatus)
	return s
}

// RunStdio serves a single client over stdin/stdout until ctx is cancelled or the client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns the streamable HTTP transport, guarded by a bearer token when one is configured.
func (s *Server) HTTPHandler() http.Handler {
	h := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
	return BearerAuth(s.authToken, h)
}

func (s *Server) analyzeTicker(ctx context.Context, _ *mcp.CallToolRequest, in AnalyzeInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "mcp.analyze-ticker")
	defer span.End()

	ticker := strings.ToUpper(strings.TrimSpace(in.Ticker))
	span.SetAttributes(attribute.String("ticker", ticker))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.limiter.Wait(ctx); err != nil {
		return toolError("rate limit: %v", err), nil, nil
	}

	resp, _, err := s.analyzer.Analyze(ctx, ticker)
	switch {
	case errors.Is(err, analysis.ErrInvalidTicker):
		return toolError("invalid ticker %q", in.Ticker), nil, nil
	case errors.Is(err, analysis.ErrTickerNotFound):
		return toolError("%s", analysis.NotFoundMessage(ticker)), nil, nil
	case err != nil:
		span.RecordError(err)
		return toolError("analysis failed: %v", err), nil, nil
	}
	return jsonResult(resp)
}

func (s *Server) marketStatus(ctx context.Context, _ *mcp.CallToolRequest, _ MarketStatusInput) (*mcp.CallToolResult, any, error) {
	now := s.now()
	return jsonResult(map[string]string{
		"market":     analysis.MarketName,
		"status":     analysis.MarketStatus(now),
		"timezone":   analysis.MarketTimezone,
		"checked_at": now.In(analysis.IST()).Format(time.RFC3339),
	})
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(b)}}}, nil, nil
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}

// BearerAuth rejects requests without "Authorization: Bearer <token>". An empty token disables the check.
func BearerAuth(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(provided)), []byte(token)) != 1 {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
