package worker

// notificacion_worker.go
// Processes notification delivery jobs from QueueNotificaciones. Delivery is
// strictly out of band: the transition that emitted the intent already
// committed, so failures here only update the Notificacion row and feed the
// retry cron — they never touch the refacción.

import (
	"context"
	"encoding/json"
	"time"

	"camher/internal/infra"
	"camher/internal/model"
	"camher/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MaxNotificacionRetries bounds delivery attempts before dead-lettering.
const MaxNotificacionRetries = 3

// NotificacionJobPayload is the job envelope sent to QueueNotificaciones.
// NotificacionID is set only on retries, pointing at the existing delivery row.
type NotificacionJobPayload struct {
	NotificacionID string `json:"notificacion_id,omitempty"`
	RefaccionID    string `json:"refaccion_id,omitempty"`
	Destinatario   string `json:"destinatario"`
	Tipo           string `json:"tipo"`
	Asunto         string `json:"asunto"`
	Cuerpo         string `json:"cuerpo"`
}

// NotificacionWorker delivers one notification per job via SMTP, routed
// through the circuit breaker, and records the outcome.
type NotificacionWorker struct {
	mailer           *infra.Mailer
	cb               *infra.CircuitBreaker
	notificacionRepo repository.NotificacionRepository
	refaccionRepo    repository.RefaccionRepository
	rdb              *redis.Client
	pdfStoragePath   string
}

func NewNotificacionWorker(
	mailer *infra.Mailer,
	cb *infra.CircuitBreaker,
	notificacionRepo repository.NotificacionRepository,
	refaccionRepo repository.RefaccionRepository,
	rdb *redis.Client,
	pdfStoragePath string,
) *NotificacionWorker {
	return &NotificacionWorker{
		mailer:           mailer,
		cb:               cb,
		notificacionRepo: notificacionRepo,
		refaccionRepo:    refaccionRepo,
		rdb:              rdb,
		pdfStoragePath:   pdfStoragePath,
	}
}

// Process handles a single notification job:
//  1. Parse the payload
//  2. For provider-review notices, generate the purchase order PDF attachment
//  3. Send through the circuit breaker
//  4. Record the outcome on the Notificacion row (create or update)
func (w *NotificacionWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload NotificacionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: invalid payload")
		return
	}
	if payload.Destinatario == "" {
		log.Warn().Msg("notificacion_worker: empty destinatario — skipping")
		return
	}

	adjunto := ""
	if payload.Tipo == model.NotifRevisionProveedor && payload.RefaccionID != "" {
		if refID, err := uuid.Parse(payload.RefaccionID); err == nil {
			if ref, err := w.refaccionRepo.FindByID(ctx, refID); err == nil {
				pdfPath, pdfErr := infra.GenerarOrdenPDF(ref, w.pdfStoragePath)
				if pdfErr != nil {
					log.Warn().Err(pdfErr).Str("refaccion_id", payload.RefaccionID).
						Msg("notificacion_worker: PDF generation failed, sending without attachment")
				} else {
					adjunto = pdfPath
				}
			}
		}
	}

	sendErr := w.cb.Execute(func() error {
		return w.mailer.Send(payload.Destinatario, payload.Asunto, payload.Cuerpo, adjunto)
	})

	w.registrarResultado(ctx, payload, sendErr, raw)
}

func (w *NotificacionWorker) registrarResultado(ctx context.Context, payload NotificacionJobPayload, sendErr error, raw json.RawMessage) {
	n, nuevo := w.cargarRegistro(ctx, payload)

	if sendErr == nil {
		n.Estado = model.NotifEnviada
		n.Error = nil
		n.NextRetryAt = nil
		w.guardar(ctx, n, nuevo)
		log.Info().Str("to", payload.Destinatario).Str("tipo", payload.Tipo).
			Msg("notificacion_worker: delivered")
		return
	}

	n.Estado = model.NotifFallida
	n.RetryCount++
	errMsg := sendErr.Error()
	n.Error = &errMsg

	if n.RetryCount >= MaxNotificacionRetries {
		n.NextRetryAt = nil
		log.Error().Err(sendErr).Str("to", payload.Destinatario).Int("retries", n.RetryCount).
			Msg("notificacion_worker: max retries exceeded, moving to DLQ")
		SendToDLQ(ctx, w.rdb, QueueNotificaciones, "notificacion", raw, errMsg, n.RetryCount)
	} else {
		next := time.Now().Add(computeRetryBackoff(n.RetryCount))
		n.NextRetryAt = &next
		log.Warn().Err(sendErr).Str("to", payload.Destinatario).Int("retry_count", n.RetryCount).
			Time("next_retry_at", next).
			Msg("notificacion_worker: delivery failed, scheduled retry")
	}
	w.guardar(ctx, n, nuevo)
}

// cargarRegistro resolves the Notificacion row a retry job points to, or
// builds a fresh one for a first attempt.
func (w *NotificacionWorker) cargarRegistro(ctx context.Context, payload NotificacionJobPayload) (*model.Notificacion, bool) {
	if payload.NotificacionID != "" {
		if id, err := uuid.Parse(payload.NotificacionID); err == nil {
			if existente, err := w.notificacionRepo.FindByID(ctx, id); err == nil {
				return existente, false
			}
		}
	}
	n := &model.Notificacion{
		Destinatario: payload.Destinatario,
		Tipo:         payload.Tipo,
	}
	if refID, err := uuid.Parse(payload.RefaccionID); err == nil {
		n.RefaccionID = &refID
	}
	return n, true
}

func (w *NotificacionWorker) guardar(ctx context.Context, n *model.Notificacion, nuevo bool) {
	var err error
	if nuevo {
		err = w.notificacionRepo.Create(ctx, n)
	} else {
		err = w.notificacionRepo.Update(ctx, n)
	}
	if err != nil {
		log.Error().Err(err).Str("to", n.Destinatario).Msg("notificacion_worker: failed to record delivery state")
	}
}

// computeRetryBackoff returns the wait before attempt retryCount+1:
// 1m, 2m, 4m … capped at 30m.
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	d := time.Duration(1<<uint(retryCount-1)) * time.Minute
	if d > 30*time.Minute {
		d = 30 * time.Minute
	}
	return d
}
