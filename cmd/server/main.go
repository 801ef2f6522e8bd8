package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/config"
	"github.com/stemsi/certify-backend/internal/database"
	"github.com/stemsi/certify-backend/internal/handler"
	"github.com/stemsi/certify-backend/internal/logger"
	"github.com/stemsi/certify-backend/internal/middleware"
	"github.com/stemsi/certify-backend/internal/repository"
	"github.com/stemsi/certify-backend/internal/router"
	"github.com/stemsi/certify-backend/internal/service"
	"github.com/stemsi/certify-backend/internal/validator"
	"github.com/stemsi/certify-backend/internal/worker"
)

// janitorInterval is how often expired sessions and drafts are swept.
const janitorInterval = time.Minute

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Certify Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	certRepo := repository.NewCertificationRepository(pool)
	certCache := repository.NewCertificationCache(rdb, cfg.CacheTTL)
	resultRepo := repository.NewResultRepository(pool)
	resultQueue := repository.NewResultQueue(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	certService := service.NewCertificationService(certRepo, certCache, log)
	draftService := service.NewDraftService(certService, cfg.SessionTTL, log)
	assessmentService := service.NewAssessmentService(certService, cfg.SessionTTL, resultQueue, log)
	exportService := service.NewExportService(certService, resultRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Course:     handler.NewCourseHandler(certService, cfg.MaxUploadBytes, log),
		Draft:      handler.NewDraftHandler(draftService, log),
		Assessment: handler.NewAssessmentHandler(assessmentService, log),
		Export:     handler.NewExportHandler(exportService, log),
		WS:         handler.NewWSHandler(assessmentService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	resultWorker := worker.NewResultWorker(rdb, resultRepo, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		resultWorker.Start(workerCtx)
	}()

	go assessmentService.Sessions().RunJanitor(workerCtx, janitorInterval, func(n int) {
		log.Debug().Int("removed", n).Msg("Expired assessment sessions swept")
	})
	go draftService.Drafts().RunJanitor(workerCtx, janitorInterval, func(n int) {
		log.Debug().Int("removed", n).Msg("Expired drafts swept")
	})

	// ─── Setup Router ──────────────────────────────────────────────────
	uploadLimiter := middleware.NewRateLimiter(workerCtx, cfg.UploadRate, time.Minute)
	r := router.SetupRouter(handlers, uploadLimiter, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the result queue to drain.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
