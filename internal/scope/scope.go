// Package scope resolves which workshops a user may see and turns that into
// a query predicate. Every rule takes an explicit AuthContext; nothing here
// reads session state.
package scope

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Rol string

const (
	SuperAdmin   Rol = "SUPER_ADMIN"
	GestorRed    Rol = "GESTOR_RED"
	GestorTaller Rol = "GESTOR_TALLER"
)

// ParseRol accepts any casing and surrounding whitespace. Unknown values
// return ok=false and must be treated as having no visibility.
func ParseRol(s string) (Rol, bool) {
	switch Rol(strings.ToUpper(strings.TrimSpace(s))) {
	case SuperAdmin:
		return SuperAdmin, true
	case GestorRed:
		return GestorRed, true
	case GestorTaller:
		return GestorTaller, true
	}
	return "", false
}

// AuthContext is the caller identity threaded through services.
type AuthContext struct {
	UserID   uuid.UUID
	Rol      Rol
	TallerID *uuid.UUID
	RedID    *uuid.UUID
}

// RequiereSeleccionTaller reports whether forms submitted by this role must
// name the target workshop explicitly.
func (a AuthContext) RequiereSeleccionTaller() bool {
	return a.Rol != GestorTaller
}

// TalleresDeRed lists the workshop ids that belong to a network.
type TalleresDeRed func(ctx context.Context, redID uuid.UUID) ([]uuid.UUID, error)

// Scope is the resolved row restriction. The zero value is closed.
type Scope struct {
	todos    bool
	talleres []uuid.UUID
}

// Sin returns the unrestricted scope.
func Sin() Scope { return Scope{todos: true} }

// Talleres returns a scope limited to the given workshops.
func Talleres(ids ...uuid.UUID) Scope {
	return Scope{talleres: append([]uuid.UUID(nil), ids...)}
}

func (s Scope) Todos() bool { return s.todos }

// Vacio is true when the scope cannot match any row.
func (s Scope) Vacio() bool { return !s.todos && len(s.talleres) == 0 }

func (s Scope) IDs() []uuid.UUID { return append([]uuid.UUID(nil), s.talleres...) }

// Permite reports whether a record owned by tallerID is visible.
func (s Scope) Permite(tallerID uuid.UUID) bool {
	if s.todos {
		return true
	}
	for _, id := range s.talleres {
		if id == tallerID {
			return true
		}
	}
	return false
}

// Aplicar adds the restriction on column (e.g. "taller_id") to q.
// A closed scope yields a predicate that matches nothing.
func (s Scope) Aplicar(q *gorm.DB, column string) *gorm.DB {
	switch {
	case s.todos:
		return q
	case len(s.talleres) == 0:
		return q.Where("1 = 0")
	case len(s.talleres) == 1:
		return q.Where(column+" = ?", s.talleres[0])
	default:
		return q.Where(column+" IN ?", s.talleres)
	}
}

// Resolve builds the Scope for auth. A missing workshop or network id gives
// a closed scope rather than an error; only a failed lookup returns an error.
func Resolve(ctx context.Context, auth AuthContext, lookup TalleresDeRed) (Scope, error) {
	switch auth.Rol {
	case GestorTaller:
		if auth.TallerID == nil {
			return Scope{}, nil
		}
		return Talleres(*auth.TallerID), nil
	case GestorRed:
		return porRed(ctx, auth.RedID, lookup)
	case SuperAdmin:
		if auth.RedID != nil {
			// A super admin carrying a network id only sees that network.
			log.Debug().
				Str("user_id", auth.UserID.String()).
				Str("red_id", auth.RedID.String()).
				Msg("scope: super admin restricted to network")
			return porRed(ctx, auth.RedID, lookup)
		}
		return Sin(), nil
	}
	return Scope{}, nil
}

func porRed(ctx context.Context, redID *uuid.UUID, lookup TalleresDeRed) (Scope, error) {
	if redID == nil || lookup == nil {
		return Scope{}, nil
	}
	ids, err := lookup(ctx, *redID)
	if err != nil {
		return Scope{}, fmt.Errorf("scope: talleres de red %s: %w", redID, err)
	}
	return Talleres(ids...), nil
}
