package viewmodel

import (
	"tallerpro/internal/dto"
	"tallerpro/internal/facturacion"
	"tallerpro/internal/model"
)

const decimales = 2

func LineaDesdeModelo(l model.LineaFactura) facturacion.Linea {
	return facturacion.Linea{
		PrecioUnitario: l.PrecioUnitario,
		Cantidad:       l.Cantidad,
		Descuento:      l.Descuento,
		TipoIVA:        l.TipoIVA,
	}
}

func LineaDesdeInput(l dto.LineaFacturaInput) facturacion.Linea {
	return facturacion.Linea{
		PrecioUnitario: l.PrecioUnitario,
		Cantidad:       l.Cantidad,
		Descuento:      l.Descuento,
		TipoIVA:        l.TipoIVA,
	}
}

// Factura maps an invoice and recomputes every amount from its lines; the
// stored header total is ignored.
func Factura(f model.Factura) dto.FacturaResponse {
	calc := make([]facturacion.Linea, 0, len(f.Lineas))
	lineas := make([]dto.LineaFacturaResponse, 0, len(f.Lineas))
	for _, l := range f.Lineas {
		in := LineaDesdeModelo(l)
		calc = append(calc, in)
		lineas = append(lineas, lineaResponse(l.ID.String(), l.Tipo, l.Descripcion, in))
	}
	tot := facturacion.CalcularTotales(calc)

	r := dto.FacturaResponse{
		ID:            f.ID.String(),
		Numero:        f.Numero,
		FechaEmision:  f.FechaEmision,
		ClienteID:     f.ClienteID.String(),
		TallerID:      f.TallerID.String(),
		MetodoPago:    f.MetodoPago,
		Notas:         f.Notas,
		Pagada:        f.Pagada,
		Lineas:        lineas,
		BaseImponible: tot.Base.Round(decimales),
		TotalIVA:      tot.IVA.Round(decimales),
		Total:         tot.Total.Round(decimales),
		DesgloseIVA:   desglose(tot),
	}
	if f.Cliente != nil {
		r.ClienteNombre = f.Cliente.Nombre
	}
	return r
}

// Totales previews the amounts of unsaved lines.
func Totales(in []dto.LineaFacturaInput) dto.TotalesFacturaResponse {
	calc := make([]facturacion.Linea, 0, len(in))
	lineas := make([]dto.LineaFacturaResponse, 0, len(in))
	for _, l := range in {
		c := LineaDesdeInput(l)
		calc = append(calc, c)
		lineas = append(lineas, lineaResponse("", l.Tipo, l.Descripcion, c))
	}
	tot := facturacion.CalcularTotales(calc)
	return dto.TotalesFacturaResponse{
		Lineas:        lineas,
		BaseImponible: tot.Base.Round(decimales),
		TotalIVA:      tot.IVA.Round(decimales),
		Total:         tot.Total.Round(decimales),
		DesgloseIVA:   desglose(tot),
	}
}

func lineaResponse(id, tipo, descripcion string, l facturacion.Linea) dto.LineaFacturaResponse {
	r := facturacion.CalcularLinea(l)
	return dto.LineaFacturaResponse{
		ID:             id,
		Tipo:           tipo,
		Descripcion:    descripcion,
		PrecioUnitario: l.PrecioUnitario,
		Cantidad:       l.Cantidad,
		Descuento:      l.Descuento,
		TipoIVA:        l.TipoIVA,
		Base:           r.Base.Round(decimales),
		IVA:            r.IVA.Round(decimales),
		Total:          r.Total.Round(decimales),
	}
}

func desglose(t facturacion.Totales) []dto.DesgloseIVAResponse {
	out := make([]dto.DesgloseIVAResponse, 0, len(t.PorTipo))
	for _, d := range t.PorTipo {
		out = append(out, dto.DesgloseIVAResponse{
			TipoIVA: d.Tipo,
			Base:    d.Base.Round(decimales),
			Cuota:   d.Cuota.Round(decimales),
		})
	}
	return out
}
