package main

import (
	"context"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"strconv"
	"syscall"
	"time"

	"stock-alpha-engine/internal/app"
	"stock-alpha-engine/internal/cache"
	"stock-alpha-engine/internal/config"
	"stock-alpha-engine/internal/db"
	"stock-alpha-engine/internal/tui"
	"stock-alpha-engine/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	gossh "golang.org/x/crypto/ssh"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	newAnalysisServiceFunc = app.NewAnalysisService
	newWishServerFunc      = wish.NewServer
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
)

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

	if len(cfg.SSHAllowedFingerprints) == 0 {
		log.Println("Warning: SSH_ALLOWED_FINGERPRINTS not set, any public key is accepted")
	}
	allowKey := fingerprintAllowList(cfg.SSHAllowedFingerprints)

	// Build Wish SSH server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			fingerprint := gossh.FingerprintSHA256(key)
			if !allowKey(fingerprint) {
				log.Printf("SSH auth denied: user=%s fingerprint=%s", ctx.User(), fingerprint)
				return false
			}
			log.Printf("SSH auth accepted: user=%s fingerprint=%s", ctx.User(), fingerprint)
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				model := tui.NewModel(analysisService, s.User())
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
}

// fingerprintAllowList accepts every key when allowed is empty.
func fingerprintAllowList(allowed []string) func(fingerprint string) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, fp := range allowed {
		set[fp] = struct{}{}
	}
	return func(fingerprint string) bool {
		if len(set) == 0 {
			return true
		}
		_, ok := set[fingerprint]
		return ok
	}
}
