package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tallerpro/internal/infra"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Documento kinds an email job can carry.
const (
	TipoInforme = "informe"
	TipoFactura = "factura"
)

var ErrTrabajoInvalido = errors.New("trabajo de correo invalido")

// EmailJob asks the pool to render a document and mail it.
type EmailJob struct {
	Tipo string    `json:"tipo"`
	ID   uuid.UUID `json:"id"`
	Para string    `json:"para"`
}

func (j EmailJob) validar() error {
	if j.Tipo != TipoInforme && j.Tipo != TipoFactura {
		return fmt.Errorf("%w: tipo %q", ErrTrabajoInvalido, j.Tipo)
	}
	if j.ID == uuid.Nil || j.Para == "" {
		return ErrTrabajoInvalido
	}
	return nil
}

// Documentos renders the attachment for a job. It runs without a caller
// scope; access was checked when the job was enqueued.
type Documentos interface {
	Documento(ctx context.Context, tipo string, id uuid.UUID) (infra.Adjunto, string, error)
}

type Enviador interface {
	Enviar(c infra.Correo) error
}

type EmailWorker struct {
	docs   Documentos
	mailer Enviador
}

func NewEmailWorker(docs Documentos, mailer Enviador) *EmailWorker {
	return &EmailWorker{docs: docs, mailer: mailer}
}

// Process renders and sends one document.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var job EmailJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	if err := job.validar(); err != nil {
		return err
	}

	adjunto, asunto, err := w.docs.Documento(ctx, job.Tipo, job.ID)
	if err != nil {
		return fmt.Errorf("email_worker: render %s: %w", job.Tipo, err)
	}
	correo := infra.Correo{
		Para:     job.Para,
		Asunto:   asunto,
		Texto:    "Adjuntamos el documento solicitado.\n",
		Adjuntos: []infra.Adjunto{adjunto},
	}
	if err := w.mailer.Enviar(correo); err != nil {
		return fmt.Errorf("email_worker: send: %w", err)
	}
	log.Info().Str("tipo", job.Tipo).Str("id", job.ID.String()).Str("to", job.Para).Msg("email_worker: documento enviado")
	return nil
}
