package service

import (
	"context"
	"errors"

	"tallerpro/internal/repository"
	"tallerpro/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// acceso resolves scopes and target workshops; every scoped service embeds it.
type acceso struct {
	talleres repository.TallerRepository
}

func (a acceso) scope(ctx context.Context, auth scope.AuthContext) (scope.Scope, error) {
	return scope.Resolve(ctx, auth, a.talleres.IDsPorRed)
}

// filtrarTaller narrows sc to one workshop requested in a list filter.
// A workshop outside sc yields a closed scope.
func filtrarTaller(sc scope.Scope, raw string) (scope.Scope, error) {
	if raw == "" {
		return sc, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return scope.Scope{}, validacion("taller_id", "Taller invalido")
	}
	if !sc.Permite(id) {
		return scope.Scope{}, nil
	}
	return scope.Talleres(id), nil
}

// tallerDestino picks the workshop a new record belongs to. GESTOR_TALLER
// always writes to their own workshop; other roles must name one they can see.
func (a acceso) tallerDestino(ctx context.Context, auth scope.AuthContext, sc scope.Scope, pedido *string) (uuid.UUID, error) {
	if !auth.RequiereSeleccionTaller() {
		if auth.TallerID == nil {
			return uuid.Nil, ErrSinPermiso
		}
		return *auth.TallerID, nil
	}
	if pedido == nil || *pedido == "" {
		return uuid.Nil, validacion("taller_id", "Debe seleccionar un taller")
	}
	id, err := uuid.Parse(*pedido)
	if err != nil {
		return uuid.Nil, validacion("taller_id", "Taller invalido")
	}
	if !sc.Permite(id) {
		return uuid.Nil, ErrSinPermiso
	}
	if _, err := a.talleres.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, validacion("taller_id", "Taller no encontrado")
		}
		return uuid.Nil, err
	}
	return id, nil
}

func paginar(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit, (page - 1) * limit
}
