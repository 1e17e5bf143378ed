package service

import (
	"context"
	"strings"

	"tallerpro/internal/dto"
	"tallerpro/internal/model"
	"tallerpro/internal/repository"
	"tallerpro/internal/scope"
	"tallerpro/internal/viewmodel"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ClienteService interface {
	Crear(ctx context.Context, auth scope.AuthContext, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, auth scope.AuthContext, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, auth scope.AuthContext, filter dto.ClienteFilter) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, auth scope.AuthContext, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Desactivar(ctx context.Context, auth scope.AuthContext, id uuid.UUID) error
	Reactivar(ctx context.Context, auth scope.AuthContext, id uuid.UUID) error
}

type clienteService struct {
	acceso
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository, talleres repository.TallerRepository) ClienteService {
	return &clienteService{acceso: acceso{talleres: talleres}, repo: repo}
}

func vehiculosDesde(in []dto.VehiculoInput) []model.VehiculoCliente {
	out := make([]model.VehiculoCliente, 0, len(in))
	for _, v := range in {
		out = append(out, model.VehiculoCliente{
			Matricula: normalizarMatricula(v.Matricula),
			Bastidor:  strings.ToUpper(strings.TrimSpace(v.Bastidor)),
			Marca:     strings.TrimSpace(v.Marca),
			Modelo:    strings.TrimSpace(v.Modelo),
		})
	}
	return out
}

func (s *clienteService) Crear(ctx context.Context, auth scope.AuthContext, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	sc, err := s.scope(ctx, auth)
	if err != nil {
		return nil, err
	}
	tallerID, err := s.tallerDestino(ctx, auth, sc, req.TallerID)
	if err != nil {
		return nil, err
	}

	c := &model.Cliente{
		TallerID:  tallerID,
		Nombre:    strings.TrimSpace(req.Nombre),
		Empresa:   req.Empresa,
		NIF:       strings.ToUpper(strings.TrimSpace(req.NIF)),
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Activo:    true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	vs := vehiculosDesde(req.Vehiculos)
	if err := s.repo.ReplaceVehiculos(ctx, c.ID, vs); err != nil {
		// no transaction spans both writes; undo the client row
		if derr := s.repo.Delete(ctx, c.ID); derr != nil {
			log.Error().Err(derr).Str("cliente_id", c.ID.String()).Msg("compensacion fallida: cliente sin vehiculos")
		}
		return nil, err
	}
	c.Vehiculos = vs

	resp := viewmodel.Cliente(*c)
	return &resp, nil
}

func (s *clienteService) cargar(ctx context.Context, auth scope.AuthContext, id uuid.UUID) (*model.Cliente, scope.Scope, error) {
	sc, err := s.scope(ctx, auth)
	if err != nil {
		return nil, sc, err
	}
	if sc.Vacio() {
		return nil, sc, ErrSinPermiso
	}
	c, err := s.repo.FindByID(ctx, sc, id)
	if err != nil {
		return nil, sc, noEncontrado(err, "cliente")
	}
	return c, sc, nil
}

func (s *clienteService) Obtener(ctx context.Context, auth scope.AuthContext, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, _, err := s.cargar(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	resp := viewmodel.Cliente(*c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, auth scope.AuthContext, filter dto.ClienteFilter) ([]dto.ClienteResponse, error) {
	sc, err := s.scope(ctx, auth)
	if err != nil {
		return nil, err
	}
	if sc, err = filtrarTaller(sc, filter.TallerID); err != nil {
		return nil, err
	}
	if sc.Vacio() {
		return []dto.ClienteResponse{}, nil
	}
	cs, err := s.repo.List(ctx, sc, repository.ClienteQuery{Buscar: filter.Buscar, IncluirInactivos: filter.IncluirInactivos})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClienteResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, viewmodel.Cliente(c))
	}
	return out, nil
}

// Actualizar saves the client and replaces its vehicles. If the vehicles
// cannot be written the previous client row and vehicle list are restored.
func (s *clienteService) Actualizar(ctx context.Context, auth scope.AuthContext, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, _, err := s.cargar(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	anterior := *c
	anterior.Vehiculos = append([]model.VehiculoCliente(nil), c.Vehiculos...)

	c.Nombre = strings.TrimSpace(req.Nombre)
	c.Empresa = req.Empresa
	c.NIF = strings.ToUpper(strings.TrimSpace(req.NIF))
	c.Direccion = req.Direccion
	c.Telefono = req.Telefono
	c.Email = req.Email
	c.Vehiculos = nil
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	vs := vehiculosDesde(req.Vehiculos)
	if err := s.repo.ReplaceVehiculos(ctx, c.ID, vs); err != nil {
		s.restaurar(ctx, &anterior)
		return nil, err
	}
	c.Vehiculos = vs

	resp := viewmodel.Cliente(*c)
	return &resp, nil
}

func (s *clienteService) restaurar(ctx context.Context, c *model.Cliente) {
	vs := c.Vehiculos
	for i := range vs {
		vs[i].ID = uuid.Nil
	}
	c.Vehiculos = nil
	if err := s.repo.Update(ctx, c); err != nil {
		log.Error().Err(err).Str("cliente_id", c.ID.String()).Msg("compensacion fallida: datos del cliente")
	}
	if err := s.repo.ReplaceVehiculos(ctx, c.ID, vs); err != nil {
		log.Error().Err(err).Str("cliente_id", c.ID.String()).Msg("compensacion fallida: vehiculos del cliente")
	}
}

func (s *clienteService) Desactivar(ctx context.Context, auth scope.AuthContext, id uuid.UUID) error {
	return s.setActivo(ctx, auth, id, false)
}

func (s *clienteService) Reactivar(ctx context.Context, auth scope.AuthContext, id uuid.UUID) error {
	return s.setActivo(ctx, auth, id, true)
}

func (s *clienteService) setActivo(ctx context.Context, auth scope.AuthContext, id uuid.UUID, activo bool) error {
	sc, err := s.scope(ctx, auth)
	if err != nil {
		return err
	}
	if sc.Vacio() {
		return ErrSinPermiso
	}
	if err := s.repo.SetActivo(ctx, sc, id, activo); err != nil {
		return noEncontrado(err, "cliente")
	}
	return nil
}
