package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/config"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/infra"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/repository"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/router"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Worker pool and background monitors are wired here (composition root)
	// so they share infrastructure with the HTTP side.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	book := infra.NewExcelBook(cfg.ExcelPath)
	dispatcher := worker.NewDispatcher(rdb)

	productRepo := repository.NewProductRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	handlers := worker.Handlers{
		Excel: worker.NewExcelWorker(book, productRepo, auditRepo, rdb),
		Email: worker.NewEmailWorker(mailer, smtpCB),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	worker.StartLowStockCron(ctx, worker.LowStockCronConfig{
		ProductRepo: productRepo,
		AuditRepo:   auditRepo,
		Dispatcher:  dispatcher,
		AdminEmail:  cfg.AdminEmail,
		Interval:    time.Duration(cfg.LowStockCheckHours) * time.Hour,
	})

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Elshadai Hardware backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
