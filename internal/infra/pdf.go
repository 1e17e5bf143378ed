package infra

// pdf.go: valuation report and invoice PDFs rendered with go-pdf/fpdf.
// Both return the document bytes; callers stream them or attach them to mail.

import (
	"bytes"
	"fmt"
	"time"

	"tallerpro/internal/facturacion"
	"tallerpro/internal/model"
	"tallerpro/internal/workflow"

	"github.com/go-pdf/fpdf"
)

// InformePDF is everything the valuation report layout needs.
type InformePDF struct {
	Empresa       string
	Taller        string
	Valoracion    model.Valoracion
	Parrafos      []string
	Danos         []model.DanoInforme
	Observaciones string
	Generado      time.Time
}

func nuevoA4() (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	// core fonts are cp1252; accents and ñ need translation
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	return pdf, tr
}

func pie(pdf *fpdf.Fpdf, tr func(string) string, texto string) {
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("%s - Página %d", texto, pdf.PageNo())), "", 0, "C", false, 0, "")
	})
}

// GenerateInformePDF renders header, vehicle info, optional damage table,
// report body and observations, and footer.
func GenerateInformePDF(d InformePDF) ([]byte, error) {
	pdf, tr := nuevoA4()
	pie(pdf, tr, d.Empresa+" - Informe de valoración")
	pdf.AddPage()
	contentW, _ := pdf.GetPageSize()
	contentW -= 30
	v := d.Valoracion

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(d.Empresa), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Informe de valoración"), "", 1, "L", false, 0, "")
	if d.Taller != "" {
		pdf.CellFormat(contentW, 5, tr("Taller: "+d.Taller), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "Fecha: "+d.Generado.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	estado := workflow.Etiqueta(workflow.Normalizar(v.Estado))
	if v.SiniestroTotal {
		estado += " - SINIESTRO TOTAL"
	}
	pdf.CellFormat(contentW, 5, tr("Estado: "+estado), "", 1, "L", false, 0, "")
	pdf.Ln(3)
	pdf.Line(15, pdf.GetY(), 15+contentW, pdf.GetY())
	pdf.Ln(3)

	// ── Vehiculo ─────────────────────────────────────────────────────────────
	seccion(pdf, tr, contentW, "Datos del vehículo")
	fecha := ""
	if v.FechaMatriculacion != nil {
		fecha = v.FechaMatriculacion.Format("02/01/2006")
	}
	filas := [][2]string{
		{"Matrícula", v.Matricula},
		{"Bastidor", v.Bastidor},
		{"Marca / modelo", v.Marca + " " + v.Modelo},
		{"Motor", v.Motor},
		{"Primera matriculación", fecha},
		{"Aseguradora", v.Aseguradora},
		{"Tipo de póliza", v.TipoPoliza},
		{"N. siniestro", v.NumeroSiniestro},
	}
	for _, f := range filas {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(50, 6, tr(f[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW-50, 6, tr(f[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Danos (optional) ─────────────────────────────────────────────────────
	if len(d.Danos) > 0 {
		seccion(pdf, tr, contentW, "Daños")
		c1, c2, c3, c4 := contentW*0.45, contentW*0.25, contentW*0.12, contentW*0.18
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(c1, 6, "Pieza", "B", 0, "L", false, 0, "")
		pdf.CellFormat(c2, 6, tr("Operación"), "B", 0, "L", false, 0, "")
		pdf.CellFormat(c3, 6, "Horas", "B", 0, "R", false, 0, "")
		pdf.CellFormat(c4, 6, "Importe", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		var total float64
		for _, dn := range d.Danos {
			pdf.CellFormat(c1, 6, tr(dn.Pieza), "", 0, "L", false, 0, "")
			pdf.CellFormat(c2, 6, tr(dn.Operacion), "", 0, "L", false, 0, "")
			pdf.CellFormat(c3, 6, fmt.Sprintf("%.2f", dn.Horas), "", 0, "R", false, 0, "")
			pdf.CellFormat(c4, 6, tr(fmt.Sprintf("%.2f €", dn.Importe)), "", 1, "R", false, 0, "")
			total += dn.Importe
		}
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(c1+c2+c3, 6, "Total", "T", 0, "R", false, 0, "")
		pdf.CellFormat(c4, 6, tr(fmt.Sprintf("%.2f €", total)), "T", 1, "R", false, 0, "")
		pdf.Ln(3)
	}

	// ── Informe ──────────────────────────────────────────────────────────────
	if len(d.Parrafos) > 0 {
		seccion(pdf, tr, contentW, "Informe")
		pdf.SetFont("Helvetica", "", 10)
		for _, p := range d.Parrafos {
			pdf.MultiCell(contentW, 5, tr(p), "", "L", false)
			pdf.Ln(1)
		}
		pdf.Ln(2)
	}

	if d.Observaciones != "" {
		seccion(pdf, tr, contentW, "Observaciones")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(contentW, 5, tr(d.Observaciones), "", "L", false)
	}

	return salida(pdf)
}

// GenerateFacturaPDF renders an invoice with amounts recomputed from its lines.
func GenerateFacturaPDF(empresa string, f model.Factura, taller *model.Taller) ([]byte, error) {
	pdf, tr := nuevoA4()
	pie(pdf, tr, empresa+" - Factura "+f.Numero)
	pdf.AddPage()
	contentW, _ := pdf.GetPageSize()
	contentW -= 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	nombre := empresa
	if taller != nil {
		nombre = taller.Nombre
	}
	pdf.CellFormat(contentW/2, 9, tr(nombre), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 9, "FACTURA", "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if taller != nil && taller.CIF != "" {
		pdf.CellFormat(contentW/2, 5, "CIF: "+taller.CIF, "", 0, "L", false, 0, "")
	} else {
		pdf.CellFormat(contentW/2, 5, "", "", 0, "L", false, 0, "")
	}
	pdf.CellFormat(contentW/2, 5, tr("N. "+f.Numero), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW, 5, "Fecha: "+f.FechaEmision.Format("02/01/2006"), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	if f.Cliente != nil {
		seccion(pdf, tr, contentW, "Cliente")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW, 5, tr(f.Cliente.Nombre), "", 1, "L", false, 0, "")
		if f.Cliente.Empresa != nil && *f.Cliente.Empresa != "" {
			pdf.CellFormat(contentW, 5, tr(*f.Cliente.Empresa), "", 1, "L", false, 0, "")
		}
		pdf.CellFormat(contentW, 5, "NIF: "+f.Cliente.NIF, "", 1, "L", false, 0, "")
		if f.Cliente.Direccion != nil {
			pdf.CellFormat(contentW, 5, tr(*f.Cliente.Direccion), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	// ── Lineas ───────────────────────────────────────────────────────────────
	c1, c2, c3, c4, c5, c6 := contentW*0.40, contentW*0.10, contentW*0.14, contentW*0.10, contentW*0.10, contentW*0.16
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(c1, 6, tr("Descripción"), "B", 0, "L", false, 0, "")
	pdf.CellFormat(c2, 6, "Cant.", "B", 0, "R", false, 0, "")
	pdf.CellFormat(c3, 6, "Precio", "B", 0, "R", false, 0, "")
	pdf.CellFormat(c4, 6, "Dto %", "B", 0, "R", false, 0, "")
	pdf.CellFormat(c5, 6, "IVA %", "B", 0, "R", false, 0, "")
	pdf.CellFormat(c6, 6, "Base", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	lineas := make([]facturacion.Linea, 0, len(f.Lineas))
	for _, l := range f.Lineas {
		in := facturacion.Linea{PrecioUnitario: l.PrecioUnitario, Cantidad: l.Cantidad, Descuento: l.Descuento, TipoIVA: l.TipoIVA}
		lineas = append(lineas, in)
		r := facturacion.CalcularLinea(in)
		pdf.CellFormat(c1, 6, tr(l.Descripcion), "", 0, "L", false, 0, "")
		pdf.CellFormat(c2, 6, l.Cantidad.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(c3, 6, l.PrecioUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(c4, 6, l.Descuento.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(c5, 6, l.TipoIVA.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(c6, 6, r.Base.StringFixed(2), "", 1, "R", false, 0, "")
	}
	tot := facturacion.CalcularTotales(lineas)

	// ── Totales ──────────────────────────────────────────────────────────────
	pdf.Ln(2)
	etiqueta := contentW - c6
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(etiqueta, 6, "Base imponible", "T", 0, "R", false, 0, "")
	pdf.CellFormat(c6, 6, tr(tot.Base.StringFixed(2)+" €"), "T", 1, "R", false, 0, "")
	for _, d := range tot.PorTipo {
		pdf.CellFormat(etiqueta, 6, fmt.Sprintf("IVA %s%% sobre %s", d.Tipo.String(), d.Base.StringFixed(2)), "", 0, "R", false, 0, "")
		pdf.CellFormat(c6, 6, tr(d.Cuota.StringFixed(2)+" €"), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(etiqueta, 7, "TOTAL", "", 0, "R", false, 0, "")
	pdf.CellFormat(c6, 7, tr(tot.Total.StringFixed(2)+" €"), "", 1, "R", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 9)
	pago := "Forma de pago: " + f.MetodoPago
	if f.Pagada {
		pago += " (pagada)"
	}
	pdf.CellFormat(contentW, 5, tr(pago), "", 1, "L", false, 0, "")
	if f.Notas != "" {
		pdf.Ln(2)
		pdf.MultiCell(contentW, 5, tr(f.Notas), "", "L", false)
	}

	return salida(pdf)
}

func seccion(pdf *fpdf.Fpdf, tr func(string) string, w float64, titulo string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(w, 7, tr(titulo), "", 1, "L", true, 0, "")
	pdf.Ln(1)
}

func salida(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}
