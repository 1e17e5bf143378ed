package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNoEncontrado = errors.New("registro no encontrado")
	ErrSinPermiso   = errors.New("no tiene permiso para esta operacion")
)

// ValidacionError carries one message per invalid field. Nothing has been
// written when a service returns it.
type ValidacionError struct {
	Fields map[string]string
}

func (e *ValidacionError) Error() string {
	return fmt.Sprintf("validacion: %d campo(s) invalido(s)", len(e.Fields))
}

func validacion(campo, msg string) error {
	return &ValidacionError{Fields: map[string]string{campo: msg}}
}

// noEncontrado maps gorm's not-found to ErrNoEncontrado and wraps the rest.
func noEncontrado(err error, que string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoEncontrado
	}
	return fmt.Errorf("%s: %w", que, err)
}
