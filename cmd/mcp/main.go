package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	ossignal "os/signal"
	"strconv"
	"syscall"
	"time"

	"stock-alpha-engine/internal/app"
	"stock-alpha-engine/internal/cache"
	"stock-alpha-engine/internal/config"
	"stock-alpha-engine/internal/db"
	"stock-alpha-engine/internal/mcpserver"
	"stock-alpha-engine/pkg/tracing"

	"github.com/joho/godotenv"
)

const version = "3.1.0"

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	newAnalysisServiceFunc = app.NewAnalysisService
	runStdioFunc           = func(s *mcpserver.Server, ctx context.Context) error { return s.RunStdio(ctx) }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// stdout carries the stdio protocol, so logs go to stderr only.
	log.SetOutput(os.Stderr)

	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	os.Setenv("REDIS_ENABLED", strconv.FormatBool(cfg.RedisEnabled))
	initPostgresFunc(ctx)
	initRedisFunc(ctx)
	defer db.Close()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	analysisService, err := newAnalysisServiceFunc(ctx, cfg, tracer)
	if err != nil {
		log.Fatalf("failed to build analysis service: %v", err)
	}

	server := mcpserver.New(tracer, analysisService, mcpserver.Options{
		Version:        version,
		RequestTimeout: time.Duration(cfg.MCPRequestTimeoutSecs) * time.Second,
		RatePerMinute:  cfg.MCPRateLimitPerMin,
		AuthToken:      cfg.MCPAuthToken,
	})

	if cfg.MCPTransport != "http" {
		log.Println("MCP server running on stdio")
		if err := runStdioFunc(server, ctx); err != nil {
			log.Printf("MCP stdio session ended: %v", err)
		}
		return
	}

	if cfg.MCPAuthToken == "" {
		log.Println("Warning: MCP_AUTH_TOKEN not set, MCP HTTP endpoint is unauthenticated")
	}
	mux := http.NewServeMux()
	mux.Handle("/mcp", server.HTTPHandler())
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort),
		Handler: mux,
	}

	go func() {
		log.Printf("MCP HTTP server listening on %s/mcp", srv.Addr)
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down MCP server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Printf("MCP server shutdown error: %v", err)
	}
	log.Println("MCP server exited")
}
