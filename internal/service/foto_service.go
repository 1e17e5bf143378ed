package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"tallerpro/internal/dto"
	"tallerpro/internal/infra"
	"tallerpro/internal/model"
	"tallerpro/internal/repository"
	"tallerpro/internal/scope"
	"tallerpro/internal/viewmodel"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AlmacenArchivos is satisfied by infra.Almacen.
type AlmacenArchivos interface {
	Guardar(key string, r io.Reader) (int64, error)
	Abrir(key string) (io.ReadSeekCloser, error)
	Borrar(key string) error
}

// FirmadorURLs is satisfied by infra.FirmadorURL.
type FirmadorURLs interface {
	Firmar(key string, now time.Time) (string, error)
	Verificar(token string) (string, error)
}

// CacheURLs is satisfied by infra.URLCache.
type CacheURLs interface {
	Get(ctx context.Context, valoracionID string) (map[string]string, bool, error)
	Set(ctx context.Context, valoracionID string, urls map[string]string) error
	Invalidar(ctx context.Context, valoracionID string) error
}

var tiposPermitidos = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/heic":      ".heic",
	"application/pdf": ".pdf",
}

// Archivo is an opened stored file ready to be served.
type Archivo struct {
	Nombre    string
	Contenido io.ReadSeekCloser
}

type FotoService interface {
	Listar(ctx context.Context, auth scope.AuthContext, valoracionID uuid.UUID) ([]dto.FotoResponse, error)
	Subir(ctx context.Context, auth scope.AuthContext, valoracionID uuid.UUID, nombre, contentType string, r io.Reader) (*dto.FotoResponse, error)
	Borrar(ctx context.Context, auth scope.AuthContext, valoracionID, fotoID uuid.UUID) error
	// Descargar opens the file behind a signed token. The token is the only
	// credential.
	Descargar(token string) (*Archivo, error)
}

type fotoService struct {
	acceso
	repo         repository.FotoRepository
	valoraciones repository.ValoracionRepository
	almacen      AlmacenArchivos
	firmador     FirmadorURLs
	cache        CacheURLs
	now          func() time.Time
}

func NewFotoService(
	repo repository.FotoRepository,
	valoraciones repository.ValoracionRepository,
	talleres repository.TallerRepository,
	almacen AlmacenArchivos,
	firmador FirmadorURLs,
	cache CacheURLs,
) FotoService {
	return &fotoService{
		acceso:       acceso{talleres: talleres},
		repo:         repo,
		valoraciones: valoraciones,
		almacen:      almacen,
		firmador:     firmador,
		cache:        cache,
		now:          time.Now,
	}
}

// valoracionVisible loads a valuation inside the caller's scope.
func (a acceso) valoracionVisible(ctx context.Context, repo repository.ValoracionRepository, auth scope.AuthContext, id uuid.UUID) (*model.Valoracion, error) {
	sc, err := a.scope(ctx, auth)
	if err != nil {
		return nil, err
	}
	if sc.Vacio() {
		return nil, ErrSinPermiso
	}
	v, err := repo.FindByID(ctx, sc, id)
	if err != nil {
		return nil, noEncontrado(err, "valoracion")
	}
	return v, nil
}

func (s *fotoService) Listar(ctx context.Context, auth scope.AuthContext, valoracionID uuid.UUID) ([]dto.FotoResponse, error) {
	if _, err := s.valoracionVisible(ctx, s.valoraciones, auth, valoracionID); err != nil {
		return nil, err
	}
	fotos, err := s.repo.ListByValoracion(ctx, valoracionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FotoResponse, 0, len(fotos))
	if len(fotos) == 0 {
		return out, nil
	}

	clave := valoracionID.String()
	urls, ok, err := s.cache.Get(ctx, clave)
	if err != nil {
		log.Warn().Err(err).Str("valoracion_id", clave).Msg("cache de fotos no disponible")
	}
	if !ok || urls == nil {
		urls = make(map[string]string, len(fotos))
	}

	faltaban := false
	now := s.now()
	for _, f := range fotos {
		id := f.ID.String()
		u, hay := urls[id]
		if !hay {
			u, err = s.firmador.Firmar(f.Ruta, now)
			if err != nil {
				return nil, err
			}
			urls[id] = u
			faltaban = true
		}
		out = append(out, viewmodel.Foto(f, u))
	}
	if faltaban {
		if err := s.cache.Set(ctx, clave, urls); err != nil {
			log.Warn().Err(err).Str("valoracion_id", clave).Msg("no se pudo cachear urls de fotos")
		}
	}
	return out, nil
}

func extension(nombre, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(nombre)); ext != "" && len(ext) <= 6 {
		return ext
	}
	return tiposPermitidos[contentType]
}

func (s *fotoService) Subir(ctx context.Context, auth scope.AuthContext, valoracionID uuid.UUID, nombre, contentType string, r io.Reader) (*dto.FotoResponse, error) {
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if _, ok := tiposPermitidos[contentType]; !ok {
		return nil, validacion("archivo", "Tipo de archivo no permitido")
	}
	if _, err := s.valoracionVisible(ctx, s.valoraciones, auth, valoracionID); err != nil {
		return nil, err
	}

	key := path.Join("valoraciones", valoracionID.String(), uuid.NewString()+extension(nombre, contentType))
	n, err := s.almacen.Guardar(key, r)
	if err != nil {
		return nil, err
	}
	f := &model.FotoValoracion{
		ValoracionID:   valoracionID,
		Ruta:           key,
		NombreOriginal: filepath.Base(nombre),
		ContentType:    contentType,
		Bytes:          n,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		if berr := s.almacen.Borrar(key); berr != nil {
			log.Error().Err(berr).Str("ruta", key).Msg("compensacion fallida: archivo huerfano")
		}
		return nil, err
	}
	s.invalidar(ctx, valoracionID)

	u, err := s.firmador.Firmar(key, s.now())
	if err != nil {
		return nil, err
	}
	resp := viewmodel.Foto(*f, u)
	return &resp, nil
}

func (s *fotoService) Borrar(ctx context.Context, auth scope.AuthContext, valoracionID, fotoID uuid.UUID) error {
	if _, err := s.valoracionVisible(ctx, s.valoraciones, auth, valoracionID); err != nil {
		return err
	}
	f, err := s.repo.FindByID(ctx, valoracionID, fotoID)
	if err != nil {
		return noEncontrado(err, "foto")
	}
	if err := s.repo.Delete(ctx, f.ID); err != nil {
		return err
	}
	if err := s.almacen.Borrar(f.Ruta); err != nil {
		log.Error().Err(err).Str("ruta", f.Ruta).Msg("no se pudo borrar el archivo de la foto")
	}
	s.invalidar(ctx, valoracionID)
	return nil
}

func (s *fotoService) invalidar(ctx context.Context, valoracionID uuid.UUID) {
	if err := s.cache.Invalidar(ctx, valoracionID.String()); err != nil {
		log.Warn().Err(err).Str("valoracion_id", valoracionID.String()).Msg("no se pudo invalidar la cache de fotos")
	}
}

func (s *fotoService) Descargar(token string) (*Archivo, error) {
	key, err := s.firmador.Verificar(token)
	if err != nil {
		return nil, ErrSinPermiso
	}
	rc, err := s.almacen.Abrir(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, infra.ErrRutaInvalida) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	return &Archivo{Nombre: path.Base(key), Contenido: rc}, nil
}
