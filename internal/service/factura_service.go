package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tallerpro/internal/dto"
	"tallerpro/internal/facturacion"
	"tallerpro/internal/model"
	"tallerpro/internal/repository"
	"tallerpro/internal/scope"
	"tallerpro/internal/viewmodel"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type FacturaService interface {
	Crear(ctx context.Context, auth scope.AuthContext, req dto.GuardarFacturaRequest) (*dto.FacturaResponse, error)
	Obtener(ctx context.Context, auth scope.AuthContext, id uuid.UUID) (*dto.FacturaResponse, error)
	Listar(ctx context.Context, auth scope.AuthContext, filter dto.FacturaFilter) (*dto.FacturaListResponse, error)
	Actualizar(ctx context.Context, auth scope.AuthContext, id uuid.UUID, req dto.GuardarFacturaRequest) (*dto.FacturaResponse, error)
	MarcarPagada(ctx context.Context, auth scope.AuthContext, id uuid.UUID, pagada bool) error
	Calcular(req dto.CalcularFacturaRequest) dto.TotalesFacturaResponse
}

type facturaService struct {
	acceso
	repo     repository.FacturaRepository
	clientes repository.ClienteRepository
	now      func() time.Time
}

func NewFacturaService(repo repository.FacturaRepository, clientes repository.ClienteRepository, talleres repository.TallerRepository) FacturaService {
	return &facturaService{acceso: acceso{talleres: talleres}, repo: repo, clientes: clientes, now: time.Now}
}

func validarBorrador(req dto.GuardarFacturaRequest, requiereTaller bool) error {
	b := facturacion.Borrador{ClienteID: req.ClienteID, TallerID: req.TallerID, MetodoPago: req.MetodoPago}
	for _, l := range req.Lineas {
		b.Descripciones = append(b.Descripciones, l.Descripcion)
	}
	if errs := facturacion.Validar(b, requiereTaller); len(errs) > 0 {
		return &ValidacionError{Fields: errs}
	}
	return nil
}

// lineasDesde builds the rows to store and the header total.
func lineasDesde(in []dto.LineaFacturaInput) ([]model.LineaFactura, facturacion.Totales) {
	ls := make([]model.LineaFactura, 0, len(in))
	calc := make([]facturacion.Linea, 0, len(in))
	for i, l := range in {
		c := viewmodel.LineaDesdeInput(l)
		calc = append(calc, c)
		ls = append(ls, model.LineaFactura{
			Tipo:           l.Tipo,
			Descripcion:    strings.TrimSpace(l.Descripcion),
			PrecioUnitario: l.PrecioUnitario,
			Cantidad:       l.Cantidad,
			Descuento:      l.Descuento,
			TipoIVA:        l.TipoIVA,
			Total:          facturacion.CalcularLinea(c).Total.Round(2),
			Posicion:       i,
		})
	}
	return ls, facturacion.CalcularTotales(calc)
}

func (s *facturaService) clienteDelTaller(ctx context.Context, raw string, tallerID uuid.UUID) (*model.Cliente, error) {
	cid, err := uuid.Parse(raw)
	if err != nil {
		return nil, validacion("cliente_id", "Cliente invalido")
	}
	c, err := s.clientes.FindByID(ctx, scope.Talleres(tallerID), cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validacion("cliente_id", "El cliente no pertenece al taller")
		}
		return nil, err
	}
	return c, nil
}

// siguienteNumero returns FAC-YYYY-NNNN, counting per workshop and year.
func (s *facturaService) siguienteNumero(ctx context.Context, tallerID uuid.UUID, fecha time.Time) (string, error) {
	prefijo := fmt.Sprintf("FAC-%d-", fecha.Year())
	ultimo, err := s.repo.UltimoNumero(ctx, tallerID, prefijo)
	if err != nil {
		return "", err
	}
	n := 0
	if ultimo != "" {
		n, _ = strconv.Atoi(strings.TrimPrefix(ultimo, prefijo))
	}
	return fmt.Sprintf("%s%04d", prefijo, n+1), nil
}

func (s *facturaService) Crear(ctx context.Context, auth scope.AuthContext, req dto.GuardarFacturaRequest) (*dto.FacturaResponse, error) {
	if err := validarBorrador(req, auth.RequiereSeleccionTaller()); err != nil {
		return nil, err
	}
	sc, err := s.scope(ctx, auth)
	if err != nil {
		return nil, err
	}
	pedido := &req.TallerID
	tallerID, err := s.tallerDestino(ctx, auth, sc, pedido)
	if err != nil {
		return nil, err
	}
	cliente, err := s.clienteDelTaller(ctx, req.ClienteID, tallerID)
	if err != nil {
		return nil, err
	}

	fecha := s.now()
	if req.FechaEmision != nil && !req.FechaEmision.IsZero() {
		fecha = *req.FechaEmision
	}
	numero, err := s.siguienteNumero(ctx, tallerID, fecha)
	if err != nil {
		return nil, err
	}

	lineas, tot := lineasDesde(req.Lineas)
	f := &model.Factura{
		Numero:       numero,
		FechaEmision: fecha,
		ClienteID:    cliente.ID,
		TallerID:     tallerID,
		MetodoPago:   req.MetodoPago,
		Notas:        strings.TrimSpace(req.Notas),
		Pagada:       req.Pagada,
		Total:        tot.Total.Round(2),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceLineas(ctx, f.ID, lineas); err != nil {
		// header without lines must not survive
		if derr := s.repo.Delete(ctx, f.ID); derr != nil {
			log.Error().Err(derr).Str("factura_id", f.ID.String()).Msg("compensacion fallida: factura sin lineas")
		}
		return nil, err
	}
	log.Info().Str("factura_id", f.ID.String()).Str("numero", numero).Msg("factura creada")

	f.Lineas = lineas
	f.Cliente = cliente
	resp := viewmodel.Factura(*f)
	return &resp, nil
}

func (s *facturaService) cargar(ctx context.Context, auth scope.AuthContext, id uuid.UUID) (*model.Factura, error) {
	sc, err := s.scope(ctx, auth)
	if err != nil {
		return nil, err
	}
	if sc.Vacio() {
		return nil, ErrSinPermiso
	}
	f, err := s.repo.FindByID(ctx, sc, id)
	if err != nil {
		return nil, noEncontrado(err, "factura")
	}
	return f, nil
}

func (s *facturaService) Obtener(ctx context.Context, auth scope.AuthContext, id uuid.UUID) (*dto.FacturaResponse, error) {
	f, err := s.cargar(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	resp := viewmodel.Factura(*f)
	return &resp, nil
}

func (s *facturaService) Listar(ctx context.Context, auth scope.AuthContext, filter dto.FacturaFilter) (*dto.FacturaListResponse, error) {
	page, limit, offset := paginar(filter.Page, filter.Limit)
	sc, err := s.scope(ctx, auth)
	if err != nil {
		return nil, err
	}
	if sc, err = filtrarTaller(sc, filter.TallerID); err != nil {
		return nil, err
	}
	if sc.Vacio() {
		return &dto.FacturaListResponse{Data: []dto.FacturaResponse{}, Page: page, Limit: limit}, nil
	}

	q := repository.FacturaQuery{Pagada: filter.Pagada, Offset: offset, Limit: limit}
	if filter.ClienteID != "" {
		cid, err := uuid.Parse(filter.ClienteID)
		if err != nil {
			return nil, validacion("cliente_id", "Cliente invalido")
		}
		q.ClienteID = &cid
	}
	if filter.Desde != "" {
		d, err := viewmodel.ParseFecha(filter.Desde)
		if err != nil {
			return nil, validacion("desde", "Fecha invalida")
		}
		q.Desde = &d
	}
	if filter.Hasta != "" {
		h, err := viewmodel.ParseFecha(filter.Hasta)
		if err != nil {
			return nil, validacion("hasta", "Fecha invalida")
		}
		h = h.AddDate(0, 0, 1)
		q.Hasta = &h
	}

	fs, total, err := s.repo.List(ctx, sc, q)
	if err != nil {
		return nil, err
	}
	data := make([]dto.FacturaResponse, 0, len(fs))
	for _, f := range fs {
		data = append(data, viewmodel.Factura(f))
	}
	return &dto.FacturaListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// Actualizar replaces header fields and lines. The workshop and number are
// fixed once issued.
func (s *facturaService) Actualizar(ctx context.Context, auth scope.AuthContext, id uuid.UUID, req dto.GuardarFacturaRequest) (*dto.FacturaResponse, error) {
	if err := validarBorrador(req, false); err != nil {
		return nil, err
	}
	f, err := s.cargar(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	if req.TallerID != "" && req.TallerID != f.TallerID.String() {
		return nil, validacion("taller_id", "No se puede cambiar el taller de una factura")
	}
	cliente, err := s.clienteDelTaller(ctx, req.ClienteID, f.TallerID)
	if err != nil {
		return nil, err
	}

	anterior := *f
	anterior.Lineas = append([]model.LineaFactura(nil), f.Lineas...)
	anterior.Cliente = nil

	lineas, tot := lineasDesde(req.Lineas)
	f.ClienteID = cliente.ID
	f.MetodoPago = req.MetodoPago
	f.Notas = strings.TrimSpace(req.Notas)
	f.Pagada = req.Pagada
	if req.FechaEmision != nil && !req.FechaEmision.IsZero() {
		f.FechaEmision = *req.FechaEmision
	}
	f.Total = tot.Total.Round(2)
	f.Cliente = nil
	f.Lineas = nil

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceLineas(ctx, f.ID, lineas); err != nil {
		s.restaurar(ctx, &anterior)
		return nil, err
	}

	f.Lineas = lineas
	f.Cliente = cliente
	resp := viewmodel.Factura(*f)
	return &resp, nil
}

func (s *facturaService) restaurar(ctx context.Context, f *model.Factura) {
	ls := f.Lineas
	for i := range ls {
		ls[i].ID = uuid.Nil
	}
	f.Lineas = nil
	if err := s.repo.Update(ctx, f); err != nil {
		log.Error().Err(err).Str("factura_id", f.ID.String()).Msg("compensacion fallida: cabecera de factura")
	}
	if err := s.repo.ReplaceLineas(ctx, f.ID, ls); err != nil {
		log.Error().Err(err).Str("factura_id", f.ID.String()).Msg("compensacion fallida: lineas de factura")
	}
}

func (s *facturaService) MarcarPagada(ctx context.Context, auth scope.AuthContext, id uuid.UUID, pagada bool) error {
	sc, err := s.scope(ctx, auth)
	if err != nil {
		return err
	}
	if sc.Vacio() {
		return ErrSinPermiso
	}
	if err := s.repo.SetPagada(ctx, sc, id, pagada); err != nil {
		return noEncontrado(err, "factura")
	}
	return nil
}

func (s *facturaService) Calcular(req dto.CalcularFacturaRequest) dto.TotalesFacturaResponse {
	return viewmodel.Totales(req.Lineas)
}
