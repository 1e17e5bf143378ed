package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"tallerpro/internal/infra"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDocs struct {
	err      error
	pedidos  []string
	adjuntos infra.Adjunto
}

func (s *stubDocs) Documento(_ context.Context, tipo string, id uuid.UUID) (infra.Adjunto, string, error) {
	s.pedidos = append(s.pedidos, tipo+":"+id.String())
	if s.err != nil {
		return infra.Adjunto{}, "", s.err
	}
	return s.adjuntos, "Informe 1234ABC", nil
}

type stubMailer struct {
	err      error
	enviados []infra.Correo
}

func (s *stubMailer) Enviar(c infra.Correo) error {
	if s.err != nil {
		return s.err
	}
	s.enviados = append(s.enviados, c)
	return nil
}

func payload(t *testing.T, job EmailJob) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestEmailWorker_EnviaDocumento(t *testing.T) {
	docs := &stubDocs{adjuntos: infra.Adjunto{Nombre: "valoracion-1234ABC.pdf", ContentType: "application/pdf", Datos: []byte("%PDF")}}
	mailer := &stubMailer{}
	w := NewEmailWorker(docs, mailer)
	id := uuid.New()

	err := w.Process(context.Background(), payload(t, EmailJob{Tipo: TipoInforme, ID: id, Para: "cliente@example.com"}))

	require.NoError(t, err)
	assert.Equal(t, []string{"informe:" + id.String()}, docs.pedidos)
	require.Len(t, mailer.enviados, 1)
	c := mailer.enviados[0]
	assert.Equal(t, "cliente@example.com", c.Para)
	assert.Equal(t, "Informe 1234ABC", c.Asunto)
	require.Len(t, c.Adjuntos, 1)
	assert.Equal(t, "valoracion-1234ABC.pdf", c.Adjuntos[0].Nombre)
}

func TestEmailWorker_PayloadInvalido(t *testing.T) {
	docs := &stubDocs{}
	w := NewEmailWorker(docs, &stubMailer{})

	assert.Error(t, w.Process(context.Background(), json.RawMessage(`{"tipo":`)))

	err := w.Process(context.Background(), payload(t, EmailJob{Tipo: "albaran", ID: uuid.New(), Para: "x@example.com"}))
	assert.ErrorIs(t, err, ErrTrabajoInvalido)

	err = w.Process(context.Background(), payload(t, EmailJob{Tipo: TipoFactura, Para: "x@example.com"}))
	assert.ErrorIs(t, err, ErrTrabajoInvalido)
	assert.Empty(t, docs.pedidos)
}

func TestEmailWorker_ErrorAlRenderizarNoEnvia(t *testing.T) {
	boom := errors.New("documento borrado")
	mailer := &stubMailer{}
	w := NewEmailWorker(&stubDocs{err: boom}, mailer)

	err := w.Process(context.Background(), payload(t, EmailJob{Tipo: TipoFactura, ID: uuid.New(), Para: "x@example.com"}))

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, mailer.enviados)
}

func TestEmailWorker_ErrorSMTP(t *testing.T) {
	w := NewEmailWorker(&stubDocs{}, &stubMailer{err: infra.ErrCircuitOpen})

	err := w.Process(context.Background(), payload(t, EmailJob{Tipo: TipoInforme, ID: uuid.New(), Para: "x@example.com"}))

	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
}

func TestDispatcher_RechazaTrabajoInvalido(t *testing.T) {
	// validation happens before Redis is touched
	d := NewDispatcher(nil)

	err := d.EnqueueEmail(context.Background(), EmailJob{Tipo: TipoInforme, ID: uuid.New()})

	assert.ErrorIs(t, err, ErrTrabajoInvalido)
}
