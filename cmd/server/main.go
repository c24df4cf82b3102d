package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmcstoltze/aplicacion-pos/internal/config"
	"github.com/jmcstoltze/aplicacion-pos/internal/infra"
	"github.com/jmcstoltze/aplicacion-pos/internal/repository"
	"github.com/jmcstoltze/aplicacion-pos/internal/router"
	"github.com/jmcstoltze/aplicacion-pos/internal/worker"

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Async pipeline: documents are emitted synchronously, the SII
	// submission, PDF and email happen in the worker pool.
	siiClient := infra.NewSIIClient(cfg.SIIGatewayURL)
	siiCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	documentoRepo := repository.NewDocumentoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	handlers := worker.WorkerHandlers{
		DTE:   worker.NewDTEWorker(siiClient, documentoRepo, ventaRepo, dispatcher, cfg.PDFStoragePath, cfg.RUTEmisor, cfg.RazonSocial),
		Email: worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	worker.StartRetryCron(ctx, worker.RetryCronConfig{
		DocumentoRepo: documentoRepo,
		SIIClient:     siiClient,
		CB:            siiCB,
		RDB:           rdb,
		RUTEmisor:     cfg.RUTEmisor,
	})

	r := router.New(cfg, db, rdb, siiCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("aplicacion-pos backend listening on :%d", cfg.Port)
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
