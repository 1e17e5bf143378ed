// Package facturacion computes invoice line and header amounts.
// Percentages are taken literally: discounts or VAT rates outside [0,100]
// are not clamped.
package facturacion

import (
	"sort"

	"github.com/shopspring/decimal"
)

var cien = decimal.NewFromInt(100)

// Linea is the input of one invoice line.
type Linea struct {
	PrecioUnitario decimal.Decimal
	Cantidad       decimal.Decimal
	Descuento      decimal.Decimal // %
	TipoIVA        decimal.Decimal // %
}

type ResultadoLinea struct {
	Base  decimal.Decimal
	IVA   decimal.Decimal
	Total decimal.Decimal
}

// DesgloseIVA is the base and VAT amount accumulated for one VAT rate.
type DesgloseIVA struct {
	Tipo  decimal.Decimal
	Base  decimal.Decimal
	Cuota decimal.Decimal
}

type Totales struct {
	Base    decimal.Decimal
	IVA     decimal.Decimal
	Total   decimal.Decimal
	PorTipo []DesgloseIVA // sorted by Tipo, highest first
}

// CalcularLinea: base = precio*cantidad*(1-descuento/100), iva = base*tipo/100.
func CalcularLinea(l Linea) ResultadoLinea {
	factor := decimal.NewFromInt(1).Sub(l.Descuento.Div(cien))
	base := l.PrecioUnitario.Mul(l.Cantidad).Mul(factor)
	iva := base.Mul(l.TipoIVA).Div(cien)
	return ResultadoLinea{Base: base, IVA: iva, Total: base.Add(iva)}
}

// CalcularTotales sums every line and groups base and VAT by rate.
func CalcularTotales(lineas []Linea) Totales {
	t := Totales{Base: decimal.Zero, IVA: decimal.Zero}
	porTipo := make(map[string]*DesgloseIVA)

	for _, l := range lineas {
		r := CalcularLinea(l)
		t.Base = t.Base.Add(r.Base)
		t.IVA = t.IVA.Add(r.IVA)

		// decimal values are not comparable map keys; normalize through String
		key := l.TipoIVA.String()
		d, ok := porTipo[key]
		if !ok {
			d = &DesgloseIVA{Tipo: l.TipoIVA, Base: decimal.Zero, Cuota: decimal.Zero}
			porTipo[key] = d
		}
		d.Base = d.Base.Add(r.Base)
		d.Cuota = d.Cuota.Add(r.IVA)
	}
	t.Total = t.Base.Add(t.IVA)

	t.PorTipo = make([]DesgloseIVA, 0, len(porTipo))
	for _, d := range porTipo {
		t.PorTipo = append(t.PorTipo, *d)
	}
	sort.Slice(t.PorTipo, func(i, j int) bool {
		return t.PorTipo[i].Tipo.GreaterThan(t.PorTipo[j].Tipo)
	})
	return t
}

// Cuota returns the VAT accumulated for rate, or zero when no line uses it.
func (t Totales) Cuota(tipo decimal.Decimal) decimal.Decimal {
	for _, d := range t.PorTipo {
		if d.Tipo.Equal(tipo) {
			return d.Cuota
		}
	}
	return decimal.Zero
}
