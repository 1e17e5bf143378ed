// Package workflow holds the valuation state machine. Apply is the only
// place where Estado, ValoradorID, SiniestroTotal and FinalizadaAt change.
package workflow

import (
	"errors"
	"time"

	"tallerpro/internal/model"

	"github.com/google/uuid"
)

var (
	ErrEstadoInvalido = errors.New("estado de valoracion invalido")
	ErrAccionInvalida = errors.New("accion de valoracion invalida")
)

type TipoAccion int

const (
	AccionAsignar TipoAccion = iota + 1
	AccionDesasignar
	AccionCambiarEstado
	AccionSiniestroTotal
)

// Accion is one requested change on a valuation.
type Accion struct {
	Tipo        TipoAccion
	ValoradorID uuid.UUID
	Estado      Estado
}

func Asignar(valoradorID uuid.UUID) Accion {
	return Accion{Tipo: AccionAsignar, ValoradorID: valoradorID}
}

func Desasignar() Accion { return Accion{Tipo: AccionDesasignar} }

func CambiarEstado(e Estado) Accion { return Accion{Tipo: AccionCambiarEstado, Estado: e} }

func MarcarSiniestroTotal() Accion { return Accion{Tipo: AccionSiniestroTotal} }

// Apply returns the record that results from applying a to v, and whether
// anything changed. v is not modified. The stored Estado of v is read
// through Normalizar, so legacy values are accepted as input.
func Apply(v model.Valoracion, a Accion, now time.Time) (model.Valoracion, bool, error) {
	next := v
	actual := Normalizar(v.Estado)
	next.Estado = string(actual)

	switch a.Tipo {
	case AccionAsignar:
		if a.ValoradorID == uuid.Nil {
			return v, false, ErrAccionInvalida
		}
		if v.ValoradorID != nil {
			return v, false, nil
		}
		id := a.ValoradorID
		next.ValoradorID = &id
		setEstado(&next, EnCurso, now)

	case AccionDesasignar:
		next.ValoradorID = nil
		if actual == EnCurso {
			setEstado(&next, Pendiente, now)
		}

	case AccionCambiarEstado:
		if !a.Estado.Valido() {
			return v, false, ErrEstadoInvalido
		}
		if a.Estado == Pendiente {
			next.ValoradorID = nil
		}
		setEstado(&next, a.Estado, now)

	case AccionSiniestroTotal:
		if v.SiniestroTotal {
			return v, false, nil
		}
		next.SiniestroTotal = true

	default:
		return v, false, ErrAccionInvalida
	}

	return next, cambio(v, next), nil
}

func setEstado(v *model.Valoracion, e Estado, now time.Time) {
	if e == Finalizado {
		if Normalizar(v.Estado) != Finalizado || v.FinalizadaAt == nil {
			t := now
			v.FinalizadaAt = &t
		}
	} else {
		v.FinalizadaAt = nil
	}
	v.Estado = string(e)
}

func cambio(a, b model.Valoracion) bool {
	if a.Estado != b.Estado || a.SiniestroTotal != b.SiniestroTotal {
		return true
	}
	if (a.ValoradorID == nil) != (b.ValoradorID == nil) {
		return true
	}
	if a.ValoradorID != nil && *a.ValoradorID != *b.ValoradorID {
		return true
	}
	if (a.FinalizadaAt == nil) != (b.FinalizadaAt == nil) {
		return true
	}
	return false
}

// Descripcion is the audit line a caller appends after a successful change.
func Descripcion(a Accion, nombreUsuario string) string {
	switch a.Tipo {
	case AccionAsignar:
		return "Valorador asignado por " + nombreUsuario + ". Estado: en curso"
	case AccionDesasignar:
		return "Valorador desasignado por " + nombreUsuario
	case AccionCambiarEstado:
		return "Estado cambiado a " + Etiqueta(a.Estado) + " por " + nombreUsuario
	case AccionSiniestroTotal:
		return "Marcada como siniestro total por " + nombreUsuario
	}
	return ""
}

// Etiqueta is the human label used in comments and PDFs.
func Etiqueta(e Estado) string {
	switch e {
	case EnCurso:
		return "en curso"
	case Finalizado:
		return "finalizado"
	}
	return "pendiente"
}
