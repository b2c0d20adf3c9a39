package worker

// retry_cron.go
// Background goroutine that periodically re-enqueues failed notification
// deliveries whose next_retry_at is in the past. Respects the SMTP circuit
// breaker: while it is open there is no point re-enqueueing.

import (
	"context"
	"time"

	"camher/internal/infra"
	"camher/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	NotificacionRepo repository.NotificacionRepository
	CB               *infra.CircuitBreaker
	Dispatcher       *Dispatcher
	AppURL           string
}

// StartRetryCron launches a background goroutine that ticks every 30s, queries
// failed notifications due for retry, and re-enqueues them. It respects the
// context for graceful shutdown.
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
	// If CB is open, skip entirely — don't hammer a downed relay
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	now := time.Now()
	pendientes, err := cfg.NotificacionRepo.ListParaReintento(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}

	if len(pendientes) == 0 {
		return
	}

	log.Info().Int("count", len(pendientes)).Msg("retry_cron: re-enqueueing failed notifications")

	for i := range pendientes {
		n := &pendientes[i]

		// Push next_retry_at forward before enqueueing so the next tick does
		// not pick the same row up again while the worker is busy with it.
		next := now.Add(computeRetryBackoff(n.RetryCount + 1))
		n.NextRetryAt = &next
		if err := cfg.NotificacionRepo.Update(ctx, n); err != nil {
			log.Error().Err(err).Str("notificacion_id", n.ID.String()).
				Msg("retry_cron: failed to reschedule, skipping")
			continue
		}

		refID := ""
		if n.RefaccionID != nil {
			refID = n.RefaccionID.String()
		}
		asunto, cuerpo := PlantillaNotificacion(n.Tipo, refID, "", cfg.AppURL)
		payload := NotificacionJobPayload{
			NotificacionID: n.ID.String(),
			RefaccionID:    refID,
			Destinatario:   n.Destinatario,
			Tipo:           n.Tipo,
			Asunto:         asunto,
			Cuerpo:         cuerpo,
		}

		if err := cfg.Dispatcher.EnqueueNotificacion(ctx, payload); err != nil {
			log.Error().Err(err).Str("notificacion_id", n.ID.String()).
				Msg("retry_cron: failed to enqueue retry")
		}
	}
}
