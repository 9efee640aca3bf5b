package worker

// email_worker.go
// Processes email jobs from QueueEmail. All mail goes through the circuit
// breaker so a downed SMTP relay trips fast instead of stalling workers.

import (
	"context"
	"encoding/json"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/infra"

	"github.com/rs/zerolog/log"
)

type EmailWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return
	}

	err := w.cb.Execute(func() error {
		if payload.AttachmentPath != "" {
			return w.mailer.SendWithAttachment(payload.ToEmail, payload.Subject, payload.Body, payload.AttachmentPath)
		}
		return w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body)
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: email sent")
}
