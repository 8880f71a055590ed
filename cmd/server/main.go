package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"stock-alpha-engine/internal/app"
	"stock-alpha-engine/internal/bot"
	"stock-alpha-engine/internal/cache"
	"stock-alpha-engine/internal/config"
	"stock-alpha-engine/internal/db"
	"stock-alpha-engine/internal/handler"
	"stock-alpha-engine/internal/job"
	"stock-alpha-engine/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "stock-alpha-engine/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	loadWatchlistFunc      = config.LoadWatchlist
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	newAnalysisServiceFunc = app.NewAnalysisService
	newWatchlistJobFunc    = job.NewWatchlistJob
	startWatchlistJobFunc  = func(j *job.WatchlistJob, ctx context.Context) { go j.Start(ctx) }
	startTelegramBotFunc   = func(token string, analyzer bot.Analyzer) { bot.StartTelegramBot(token, analyzer) }
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Stock Alpha Engine API
// @version         3.1
// @description     Treasure-or-trap equity analysis: technicals, fundamentals, news sentiment and NSE/BSE market status.

// @host      localhost:8000
// @BasePath  /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	os.Setenv("REDIS_ENABLED", strconv.FormatBool(cfg.RedisEnabled))
	initPostgresFunc(ctx)
	initRedisFunc(ctx)
	defer db.Close()

	// Init tracing
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

	// Watchlist warm-up (stopped by ctx cancel)
	tickers, err := loadWatchlistFunc(cfg.Watchlist, cfg.WatchlistFile)
	if err != nil {
		log.Printf("Warning: failed to load watchlist: %v", err)
	}
	watchlistJob := newWatchlistJobFunc(tracer, analysisService, tickers, cfg.WatchlistCron)
	startWatchlistJobFunc(watchlistJob, ctx)

	startTelegramBotFunc(cfg.TelegramBotToken, analysisService)

	// Create handlers and routes
	h := newHandlerFunc(tracer, analysisService)
	h.SetAPIKey(cfg.APIKey)
	if len(tickers) > 0 {
		h.SetWatchlistRunner(watchlistJob)
	}

	r := newRouterFunc()
	r.Use(handler.CORS())
	r.Use(otelgin.Middleware(tracing.ServiceName))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		log.Printf("HTTP server listening on %s", srv.Addr)
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
