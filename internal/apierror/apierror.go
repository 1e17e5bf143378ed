// Package apierror holds the JSON envelopes every 4xx/5xx response uses.
// Messages are Spanish and never carry internal details.
package apierror

import (
	"fmt"
	"net/http"
)

// APIError is the envelope for every error response without field details.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func (e *APIError) Error() string { return e.Detail }

// ValidationError lists one message per invalid field.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (%d campos)", e.Detail, len(e.Fields))
}

// Generic messages for statuses whose cause must stay in the log.
var mensajes = map[int]string{
	http.StatusUnauthorized:        "Autenticacion requerida",
	http.StatusForbidden:           "No tiene permiso para esta operacion",
	http.StatusNotFound:            "Recurso no encontrado",
	http.StatusTooManyRequests:     "Demasiadas solicitudes, intente mas tarde",
	http.StatusInternalServerError: "Error interno del servidor",
	http.StatusServiceUnavailable:  "Servicio no disponible",
}

// Status returns the generic envelope for code.
func Status(code int) *APIError {
	if m, ok := mensajes[code]; ok {
		return New(m)
	}
	return New(http.StatusText(code))
}

// MensajeCampo turns a validator tag into a user-facing message.
func MensajeCampo(tag, param string) string {
	switch tag {
	case "required":
		return "Campo obligatorio"
	case "email":
		return "Email invalido"
	case "uuid":
		return "Identificador invalido"
	case "min":
		return "Debe tener al menos " + param
	case "max":
		return "No puede superar " + param
	case "oneof":
		return "Valor no permitido, use uno de: " + param
	case "gt":
		return "Debe ser mayor que " + param
	case "gte":
		return "Debe ser mayor o igual que " + param
	}
	return "Valor invalido (" + tag + ")"
}
