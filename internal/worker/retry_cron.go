package worker

// Background goroutine that re-submits documents stuck in estado_sii
// 'pendiente' whose next_retry_at has passed. Goes through the circuit
// breaker so a downed gateway is probed, not hammered.

import (
	"context"
	"fmt"
	"time"

	"github.com/jmcstoltze/aplicacion-pos/internal/infra"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"
	"github.com/jmcstoltze/aplicacion-pos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	// MaxDocumentoRetries is the total submission attempts before a
	// documento lands in the DLQ for manual handling.
	MaxDocumentoRetries = 5
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	DocumentoRepo repository.DocumentoRepository
	SIIClient     *infra.SIIClient
	CB            *infra.CircuitBreaker
	RDB           *redis.Client
	RUTEmisor     string
}

// StartRetryCron launches the retry loop. Respects ctx for shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	docs, err := cfg.DocumentoRepo.ListPendientesSII(ctx, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending documents")
		return
	}
	if len(docs) == 0 {
		return
	}

	log.Info().Int("count", len(docs)).Msg("retry_cron: processing pending documents")

	for i := range docs {
		doc := &docs[i]

		// The breaker may have tripped mid-batch.
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		var siiResp *infra.DTEResponse
		cbErr := cfg.CB.Execute(func() error {
			resp, err := cfg.SIIClient.EnviarDTE(ctx, buildDTEPayload(doc, cfg.RUTEmisor))
			if err != nil {
				return err
			}
			siiResp = resp
			return nil
		})

		if cbErr != nil {
			doc.RetryCount++
			errMsg := cbErr.Error()
			doc.LastError = &errMsg
			next := time.Now().Add(computeRetryBackoff(doc.RetryCount))
			doc.NextRetryAt = &next

			if doc.RetryCount >= MaxDocumentoRetries {
				doc.NextRetryAt = nil
				log.Error().
					Str("documento_id", doc.ID.String()).
					Int("retries", doc.RetryCount).
					Msg("retry_cron: max retries exceeded, moving to DLQ")

				payload := fmt.Sprintf(`{"documento_id":"%s"}`, doc.ID)
				SendToDLQ(ctx, cfg.RDB, QueueDTE, "dte", []byte(payload),
					fmt.Sprintf("max retries (%d) exceeded: %s", MaxDocumentoRetries, errMsg),
					doc.RetryCount)
			} else {
				log.Warn().
					Str("documento_id", doc.ID.String()).
					Int("retry_count", doc.RetryCount).
					Time("next_retry_at", *doc.NextRetryAt).
					Msg("retry_cron: SII retry failed, scheduled next attempt")
			}

			_ = cfg.DocumentoRepo.Update(ctx, doc)
			continue
		}

		if siiResp.Estado == model.EstadoSIIAceptado {
			trackID := siiResp.TrackID
			doc.TrackIDSII = &trackID
			doc.EstadoSII = model.EstadoSIIAceptado
			doc.NextRetryAt = nil
			doc.LastError = nil
			_ = cfg.DocumentoRepo.Update(ctx, doc)
			log.Info().
				Int64("track_id", trackID).
				Str("documento_id", doc.ID.String()).
				Int("total_retries", doc.RetryCount).
				Msg("retry_cron: DTE accepted after retry")
		} else {
			doc.EstadoSII = model.EstadoSIIRechazado
			glosa := siiResp.Glosa
			doc.LastError = &glosa
			doc.NextRetryAt = nil
			_ = cfg.DocumentoRepo.Update(ctx, doc)
			log.Warn().
				Str("glosa", glosa).
				Str("documento_id", doc.ID.String()).
				Msg("retry_cron: SII rejected on retry")
		}
	}
}

// computeRetryBackoff returns the wait before the next cron attempt:
// 1m, 2m, 4m … capped at 30m.
func computeRetryBackoff(retryCount int) time.Duration {
	d := time.Duration(1<<uint(retryCount-1)) * time.Minute
	if d > 30*time.Minute {
		return 30 * time.Minute
	}
	return d
}
