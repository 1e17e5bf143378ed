package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tallerpro/internal/dto"
	"tallerpro/internal/model"
	"tallerpro/internal/repository"
	"tallerpro/internal/scope"
	"tallerpro/internal/viewmodel"
	"tallerpro/internal/workflow"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ValoracionService interface {
	Crear(ctx context.Context, auth scope.AuthContext, req dto.CrearValoracionRequest) (*dto.ValoracionResponse, error)
	Obtener(ctx context.Context, auth scope.AuthContext, id uuid.UUID) (*dto.ValoracionResponse, error)
	Listar(ctx context.Context, auth scope.AuthContext, filter dto.ValoracionFilter) (*dto.ValoracionListResponse, error)
	Tablero(ctx context.Context, auth scope.AuthContext) (*dto.TableroResponse, error)
	Actualizar(ctx context.Context, auth scope.AuthContext, id uuid.UUID, req dto.ActualizarValoracionRequest) (*dto.ValoracionResponse, error)
	// Transicionar applies a workflow action and persists the result. When
	// the write fails the previous record is returned along with the error.
	Transicionar(ctx context.Context, auth scope.AuthContext, id uuid.UUID, accion workflow.Accion) (*dto.TransicionResponse, error)
	ListarComentarios(ctx context.Context, auth scope.AuthContext, id uuid.UUID) ([]dto.ComentarioResponse, error)
	Comentar(ctx context.Context, auth scope.AuthContext, id uuid.UUID, texto string, sistema bool) (*dto.ComentarioResponse, error)
}

type valoracionService struct {
	acceso
	repo        repository.ValoracionRepository
	comentarios repository.ComentarioRepository
	usuarios    repository.UsuarioRepository
	clientes    repository.ClienteRepository
	now         func() time.Time
}

func NewValoracionService(
	repo repository.ValoracionRepository,
	comentarios repository.ComentarioRepository,
	usuarios repository.UsuarioRepository,
	clientes repository.ClienteRepository,
	talleres repository.TallerRepository,
) ValoracionService {
	return &valoracionService{
		acceso:      acceso{talleres: talleres},
		repo:        repo,
		comentarios: comentarios,
		usuarios:    usuarios,
		clientes:    clientes,
		now:         time.Now,
	}
}

// cargar returns the valuation if it is inside the caller's scope.
func (s *valoracionService) cargar(ctx context.Context, auth scope.AuthContext, id uuid.UUID) (*model.Valoracion, error) {
	return s.valoracionVisible(ctx, s.repo, auth, id)
}

func (s *valoracionService) Crear(ctx context.Context, auth scope.AuthContext, req dto.CrearValoracionRequest) (*dto.ValoracionResponse, error) {
	sc, err := s.scope(ctx, auth)
	if err != nil {
		return nil, err
	}
	tallerID, err := s.tallerDestino(ctx, auth, sc, req.TallerID)
	if err != nil {
		return nil, err
	}

	v := &model.Valoracion{
		TallerID:        tallerID,
		Matricula:       normalizarMatricula(req.Matricula),
		Bastidor:        strings.ToUpper(strings.TrimSpace(req.Bastidor)),
		Motor:           strings.TrimSpace(req.Motor),
		Marca:           strings.TrimSpace(req.Marca),
		Modelo:          strings.TrimSpace(req.Modelo),
		TipoPoliza:      strings.TrimSpace(req.TipoPoliza),
		Aseguradora:     strings.TrimSpace(req.Aseguradora),
		NumeroSiniestro: strings.TrimSpace(req.NumeroSiniestro),
		Estado:          string(workflow.Pendiente),
	}
	if req.FechaMatriculacion != "" {
		f, err := viewmodel.ParseFecha(req.FechaMatriculacion)
		if err != nil {
			return nil, validacion("fecha_matriculacion", "Fecha de matriculacion invalida")
		}
		v.FechaMatriculacion = &f
	}
	if req.ClienteID != nil && *req.ClienteID != "" {
		cid, err := s.clienteDelTaller(ctx, *req.ClienteID, tallerID)
		if err != nil {
			return nil, err
		}
		v.ClienteID = &cid
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	log.Info().Str("valoracion_id", v.ID.String()).Str("taller_id", tallerID.String()).Msg("valoracion creada")
	resp := viewmodel.Valoracion(*v)
	return &resp, nil
}

// clienteDelTaller checks that the client exists in the valuation's workshop.
func (s *valoracionService) clienteDelTaller(ctx context.Context, raw string, tallerID uuid.UUID) (uuid.UUID, error) {
	cid, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, validacion("cliente_id", "Cliente invalido")
	}
	if _, err := s.clientes.FindByID(ctx, scope.Talleres(tallerID), cid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, validacion("cliente_id", "El cliente no pertenece al taller")
		}
		return uuid.Nil, err
	}
	return cid, nil
}

func (s *valoracionService) Obtener(ctx context.Context, auth scope.AuthContext, id uuid.UUID) (*dto.ValoracionResponse, error) {
	v, err := s.cargar(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	resp := viewmodel.Valoracion(*v)
	return &resp, nil
}

func (s *valoracionService) Listar(ctx context.Context, auth scope.AuthContext, filter dto.ValoracionFilter) (*dto.ValoracionListResponse, error) {
	page, limit, offset := paginar(filter.Page, filter.Limit)
	vacio := &dto.ValoracionListResponse{Data: []dto.ValoracionResponse{}, Page: page, Limit: limit}

	sc, err := s.scope(ctx, auth)
	if err != nil {
		return nil, err
	}
	if sc, err = filtrarTaller(sc, filter.TallerID); err != nil {
		return nil, err
	}
	if sc.Vacio() {
		return vacio, nil
	}

	q := repository.ValoracionQuery{Matricula: filter.Matricula, Offset: offset, Limit: limit}
	if filter.Estado != "" {
		q.Estado = string(workflow.Normalizar(filter.Estado))
	}
	vs, total, err := s.repo.List(ctx, sc, q)
	if err != nil {
		return nil, err
	}
	return &dto.ValoracionListResponse{Data: viewmodel.Valoraciones(vs), Total: total, Page: page, Limit: limit}, nil
}

func (s *valoracionService) Tablero(ctx context.Context, auth scope.AuthContext) (*dto.TableroResponse, error) {
	sc, err := s.scope(ctx, auth)
	if err != nil {
		return nil, err
	}
	if sc.Vacio() {
		t := viewmodel.Tablero(nil)
		return &t, nil
	}
	vs, err := s.repo.ListAll(ctx, sc)
	if err != nil {
		return nil, err
	}
	t := viewmodel.Tablero(vs)
	return &t, nil
}

func (s *valoracionService) Actualizar(ctx context.Context, auth scope.AuthContext, id uuid.UUID, req dto.ActualizarValoracionRequest) (*dto.ValoracionResponse, error) {
	v, err := s.cargar(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	if req.Matricula != nil {
		v.Matricula = normalizarMatricula(*req.Matricula)
	}
	if req.Bastidor != nil {
		v.Bastidor = strings.ToUpper(strings.TrimSpace(*req.Bastidor))
	}
	if req.Motor != nil {
		v.Motor = strings.TrimSpace(*req.Motor)
	}
	if req.Marca != nil {
		v.Marca = strings.TrimSpace(*req.Marca)
	}
	if req.Modelo != nil {
		v.Modelo = strings.TrimSpace(*req.Modelo)
	}
	if req.TipoPoliza != nil {
		v.TipoPoliza = strings.TrimSpace(*req.TipoPoliza)
	}
	if req.Aseguradora != nil {
		v.Aseguradora = strings.TrimSpace(*req.Aseguradora)
	}
	if req.NumeroSiniestro != nil {
		v.NumeroSiniestro = strings.TrimSpace(*req.NumeroSiniestro)
	}
	if req.FechaMatriculacion != nil {
		if *req.FechaMatriculacion == "" {
			v.FechaMatriculacion = nil
		} else {
			f, err := viewmodel.ParseFecha(*req.FechaMatriculacion)
			if err != nil {
				return nil, validacion("fecha_matriculacion", "Fecha de matriculacion invalida")
			}
			v.FechaMatriculacion = &f
		}
	}
	if req.ClienteID != nil {
		if *req.ClienteID == "" {
			v.ClienteID = nil
		} else {
			cid, err := s.clienteDelTaller(ctx, *req.ClienteID, v.TallerID)
			if err != nil {
				return nil, err
			}
			v.ClienteID = &cid
		}
	}
	// rows written with a legacy label are stored canonically from now on
	v.Estado = string(workflow.Normalizar(v.Estado))

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	resp := viewmodel.Valoracion(*v)
	return &resp, nil
}

func (s *valoracionService) Transicionar(ctx context.Context, auth scope.AuthContext, id uuid.UUID, accion workflow.Accion) (*dto.TransicionResponse, error) {
	actual, err := s.cargar(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	previa := viewmodel.Valoracion(*actual)

	if accion.Tipo == workflow.AccionAsignar {
		if err := s.validarValorador(ctx, accion.ValoradorID); err != nil {
			return nil, err
		}
	}

	siguiente, cambio, err := workflow.Apply(*actual, accion, s.now())
	if err != nil {
		return nil, validacion("accion", err.Error())
	}
	if !cambio {
		return &dto.TransicionResponse{Valoracion: previa, Cambio: false}, nil
	}

	siguiente.UpdatedAt = s.now()
	if err := s.repo.UpdateWorkflow(ctx, &siguiente); err != nil {
		log.Error().Err(err).Str("valoracion_id", id.String()).Msg("transicion no guardada")
		return &dto.TransicionResponse{Valoracion: previa, Cambio: false}, noEncontrado(err, "guardar transicion")
	}
	return &dto.TransicionResponse{Valoracion: viewmodel.Valoracion(siguiente), Cambio: true}, nil
}

func (s *valoracionService) validarValorador(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return validacion("valorador_id", "Debe indicar un valorador")
	}
	u, err := s.usuarios.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validacion("valorador_id", "Valorador no encontrado")
		}
		return err
	}
	if !u.Activo {
		return validacion("valorador_id", "El valorador esta inactivo")
	}
	return nil
}

func (s *valoracionService) ListarComentarios(ctx context.Context, auth scope.AuthContext, id uuid.UUID) ([]dto.ComentarioResponse, error) {
	if _, err := s.cargar(ctx, auth, id); err != nil {
		return nil, err
	}
	cs, err := s.comentarios.ListByValoracion(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ComentarioResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, viewmodel.Comentario(c))
	}
	return out, nil
}

func (s *valoracionService) Comentar(ctx context.Context, auth scope.AuthContext, id uuid.UUID, texto string, sistema bool) (*dto.ComentarioResponse, error) {
	texto = strings.TrimSpace(texto)
	if texto == "" {
		return nil, validacion("texto", "El comentario no puede estar vacio")
	}
	if _, err := s.cargar(ctx, auth, id); err != nil {
		return nil, err
	}
	uid := auth.UserID
	c := &model.ComentarioValoracion{ValoracionID: id, UsuarioID: &uid, Texto: texto, Sistema: sistema}
	if err := s.comentarios.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := viewmodel.Comentario(*c)
	return &resp, nil
}

func normalizarMatricula(m string) string {
	m = strings.ToUpper(strings.TrimSpace(m))
	return strings.NewReplacer(" ", "", "-", "").Replace(m)
}
