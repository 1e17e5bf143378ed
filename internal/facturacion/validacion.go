package facturacion

import (
	"fmt"
	"strings"
)

// Borrador is what a form submits before saving an invoice.
type Borrador struct {
	ClienteID     string
	TallerID      string
	MetodoPago    string
	Descripciones []string
}

// Validar returns one message per invalid field; an empty map means the
// invoice can be saved. requiereTaller is true for roles that must pick
// the workshop explicitly.
func Validar(b Borrador, requiereTaller bool) map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(b.ClienteID) == "" {
		errs["cliente_id"] = "Debe seleccionar un cliente"
	}
	if strings.TrimSpace(b.MetodoPago) == "" {
		errs["metodo_pago"] = "Debe seleccionar un metodo de pago"
	}
	if requiereTaller && strings.TrimSpace(b.TallerID) == "" {
		errs["taller_id"] = "Debe seleccionar un taller"
	}
	if len(b.Descripciones) == 0 {
		errs["lineas"] = "La factura debe tener al menos una linea"
	}
	for i, d := range b.Descripciones {
		if strings.TrimSpace(d) == "" {
			errs[fmt.Sprintf("lineas[%d].descripcion", i)] = "Todas las lineas deben tener descripcion"
		}
	}
	return errs
}
