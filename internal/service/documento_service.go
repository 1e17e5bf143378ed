package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tallerpro/internal/infra"
	"tallerpro/internal/model"
	"tallerpro/internal/repository"
	"tallerpro/internal/scope"
	"tallerpro/internal/viewmodel"
	"tallerpro/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ColaCorreo is satisfied by worker.Dispatcher.
type ColaCorreo interface {
	EnqueueEmail(ctx context.Context, job worker.EmailJob) error
}

// DocumentoService renders valuation reports and invoices as PDF and queues
// them for email delivery.
type DocumentoService interface {
	InformePDF(ctx context.Context, auth scope.AuthContext, valoracionID uuid.UUID) (infra.Adjunto, error)
	FacturaPDF(ctx context.Context, auth scope.AuthContext, facturaID uuid.UUID) (infra.Adjunto, error)
	EnviarInforme(ctx context.Context, auth scope.AuthContext, valoracionID uuid.UUID, email string) error
	EnviarFactura(ctx context.Context, auth scope.AuthContext, facturaID uuid.UUID, email string) error
	// Documento renders without scope checks; only the email worker calls it.
	Documento(ctx context.Context, tipo string, id uuid.UUID) (infra.Adjunto, string, error)
}

type documentoService struct {
	acceso
	valoraciones repository.ValoracionRepository
	informes     repository.InformeRepository
	facturas     repository.FacturaRepository
	cola         ColaCorreo
	empresa      string
	now          func() time.Time
}

func NewDocumentoService(
	valoraciones repository.ValoracionRepository,
	informes repository.InformeRepository,
	facturas repository.FacturaRepository,
	talleres repository.TallerRepository,
	cola ColaCorreo,
	empresa string,
) DocumentoService {
	return &documentoService{
		acceso:       acceso{talleres: talleres},
		valoraciones: valoraciones,
		informes:     informes,
		facturas:     facturas,
		cola:         cola,
		empresa:      empresa,
		now:          time.Now,
	}
}

func nombreArchivo(prefijo, ref string) string {
	ref = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return -1
	}, ref)
	return prefijo + "-" + ref + ".pdf"
}

func (s *documentoService) renderInforme(ctx context.Context, v *model.Valoracion) (infra.Adjunto, error) {
	i, err := s.informes.FindByValoracion(ctx, v.ID)
	if err != nil {
		return infra.Adjunto{}, err
	}
	d := infra.InformePDF{
		Empresa:    s.empresa,
		Valoracion: *v,
		Generado:   s.now(),
	}
	if v.Taller != nil {
		d.Taller = v.Taller.Nombre
	}
	if i != nil {
		d.Parrafos = infra.ParrafosHTML(i.CuerpoHTML)
		d.Danos = viewmodel.Danos(*i)
		d.Observaciones = i.Observaciones
	}
	pdf, err := infra.GenerateInformePDF(d)
	if err != nil {
		return infra.Adjunto{}, fmt.Errorf("informe pdf: %w", err)
	}
	return infra.Adjunto{Nombre: nombreArchivo("valoracion", v.Matricula), ContentType: "application/pdf", Datos: pdf}, nil
}

func (s *documentoService) renderFactura(ctx context.Context, f *model.Factura) (infra.Adjunto, error) {
	taller, err := s.talleres.FindByID(ctx, f.TallerID)
	if err != nil {
		log.Warn().Err(err).Str("taller_id", f.TallerID.String()).Msg("factura pdf sin datos del taller")
		taller = nil
	}
	pdf, err := infra.GenerateFacturaPDF(s.empresa, *f, taller)
	if err != nil {
		return infra.Adjunto{}, fmt.Errorf("factura pdf: %w", err)
	}
	return infra.Adjunto{Nombre: nombreArchivo("factura", f.Numero), ContentType: "application/pdf", Datos: pdf}, nil
}

func (s *documentoService) factura(ctx context.Context, sc scope.Scope, id uuid.UUID) (*model.Factura, error) {
	if sc.Vacio() {
		return nil, ErrSinPermiso
	}
	f, err := s.facturas.FindByID(ctx, sc, id)
	if err != nil {
		return nil, noEncontrado(err, "factura")
	}
	return f, nil
}

func (s *documentoService) InformePDF(ctx context.Context, auth scope.AuthContext, valoracionID uuid.UUID) (infra.Adjunto, error) {
	v, err := s.valoracionVisible(ctx, s.valoraciones, auth, valoracionID)
	if err != nil {
		return infra.Adjunto{}, err
	}
	return s.renderInforme(ctx, v)
}

func (s *documentoService) FacturaPDF(ctx context.Context, auth scope.AuthContext, facturaID uuid.UUID) (infra.Adjunto, error) {
	sc, err := s.scope(ctx, auth)
	if err != nil {
		return infra.Adjunto{}, err
	}
	f, err := s.factura(ctx, sc, facturaID)
	if err != nil {
		return infra.Adjunto{}, err
	}
	return s.renderFactura(ctx, f)
}

func (s *documentoService) EnviarInforme(ctx context.Context, auth scope.AuthContext, valoracionID uuid.UUID, email string) error {
	if _, err := s.valoracionVisible(ctx, s.valoraciones, auth, valoracionID); err != nil {
		return err
	}
	return s.encolar(ctx, worker.EmailJob{Tipo: worker.TipoInforme, ID: valoracionID, Para: email})
}

func (s *documentoService) EnviarFactura(ctx context.Context, auth scope.AuthContext, facturaID uuid.UUID, email string) error {
	sc, err := s.scope(ctx, auth)
	if err != nil {
		return err
	}
	if _, err := s.factura(ctx, sc, facturaID); err != nil {
		return err
	}
	return s.encolar(ctx, worker.EmailJob{Tipo: worker.TipoFactura, ID: facturaID, Para: email})
}

func (s *documentoService) encolar(ctx context.Context, job worker.EmailJob) error {
	job.Para = strings.TrimSpace(job.Para)
	if job.Para == "" {
		return validacion("email", "Email requerido")
	}
	if err := s.cola.EnqueueEmail(ctx, job); err != nil {
		return err
	}
	log.Info().Str("tipo", job.Tipo).Str("id", job.ID.String()).Msg("envio de documento encolado")
	return nil
}

func (s *documentoService) Documento(ctx context.Context, tipo string, id uuid.UUID) (infra.Adjunto, string, error) {
	switch tipo {
	case worker.TipoInforme:
		v, err := s.valoraciones.FindByID(ctx, scope.Sin(), id)
		if err != nil {
			return infra.Adjunto{}, "", noEncontrado(err, "valoracion")
		}
		a, err := s.renderInforme(ctx, v)
		return a, fmt.Sprintf("Informe de valoracion %s", v.Matricula), err
	case worker.TipoFactura:
		f, err := s.factura(ctx, scope.Sin(), id)
		if err != nil {
			return infra.Adjunto{}, "", err
		}
		a, err := s.renderFactura(ctx, f)
		return a, fmt.Sprintf("Factura %s", f.Numero), err
	}
	return infra.Adjunto{}, "", fmt.Errorf("%w: tipo %q", worker.ErrTrabajoInvalido, tipo)
}
