package viewmodel

import (
	"encoding/json"

	"tallerpro/internal/dto"
	"tallerpro/internal/model"
	"tallerpro/internal/workflow"
)

// Valoracion maps a stored valuation. Estado goes through workflow.Normalizar
// so rows written with legacy labels still land in a canonical column.
func Valoracion(v model.Valoracion) dto.ValoracionResponse {
	estado := workflow.Normalizar(v.Estado)
	r := dto.ValoracionResponse{
		ID:                 v.ID.String(),
		TallerID:           v.TallerID.String(),
		ClienteID:          idPtr(v.ClienteID),
		Matricula:          v.Matricula,
		Bastidor:           v.Bastidor,
		Motor:              v.Motor,
		Marca:              v.Marca,
		Modelo:             v.Modelo,
		FechaMatriculacion: Fecha(v.FechaMatriculacion),
		TipoPoliza:         v.TipoPoliza,
		Aseguradora:        v.Aseguradora,
		NumeroSiniestro:    v.NumeroSiniestro,
		Estado:             string(estado),
		EstadoEtiqueta:     workflow.Etiqueta(estado),
		ValoradorID:        idPtr(v.ValoradorID),
		SiniestroTotal:     v.SiniestroTotal,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
		FinalizadaAt:       v.FinalizadaAt,
	}
	if v.Taller != nil {
		r.TallerNombre = v.Taller.Nombre
	}
	return r
}

func Valoraciones(vs []model.Valoracion) []dto.ValoracionResponse {
	out := make([]dto.ValoracionResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, Valoracion(v))
	}
	return out
}

var columnas = []workflow.Estado{workflow.Pendiente, workflow.EnCurso, workflow.Finalizado}

// Tablero groups valuations into the three kanban columns, always in
// workflow order and always present even when empty.
func Tablero(vs []model.Valoracion) dto.TableroResponse {
	porEstado := make(map[workflow.Estado][]dto.ValoracionResponse, len(columnas))
	for _, v := range vs {
		r := Valoracion(v)
		e := workflow.Estado(r.Estado)
		porEstado[e] = append(porEstado[e], r)
	}

	t := dto.TableroResponse{Columnas: make([]dto.ColumnaTablero, 0, len(columnas))}
	for _, e := range columnas {
		items := porEstado[e]
		if items == nil {
			items = []dto.ValoracionResponse{}
		}
		t.Columnas = append(t.Columnas, dto.ColumnaTablero{
			Estado:       string(e),
			Etiqueta:     workflow.Etiqueta(e),
			Total:        len(items),
			Valoraciones: items,
		})
	}
	return t
}

func Comentario(c model.ComentarioValoracion) dto.ComentarioResponse {
	return dto.ComentarioResponse{
		ID:        c.ID.String(),
		UsuarioID: idPtr(c.UsuarioID),
		Texto:     c.Texto,
		Sistema:   c.Sistema,
		CreatedAt: c.CreatedAt,
	}
}

// Foto maps photo metadata; url is the signed download link.
func Foto(f model.FotoValoracion, url string) dto.FotoResponse {
	return dto.FotoResponse{
		ID:             f.ID.String(),
		NombreOriginal: f.NombreOriginal,
		ContentType:    f.ContentType,
		Bytes:          f.Bytes,
		URL:            url,
		CreatedAt:      f.CreatedAt,
	}
}

// Informe maps a stored report. A damage column that fails to decode is
// shown as an empty table.
func Informe(i model.InformeValoracion) dto.InformeResponse {
	r := dto.InformeResponse{
		ValoracionID:  i.ValoracionID.String(),
		CuerpoHTML:    i.CuerpoHTML,
		Observaciones: i.Observaciones,
		UpdatedAt:     i.UpdatedAt,
		Danos:         []dto.DanoInput{},
	}
	for _, d := range Danos(i) {
		r.Danos = append(r.Danos, dto.DanoInput(d))
	}
	return r
}

// Danos decodes the jsonb damage table.
func Danos(i model.InformeValoracion) []model.DanoInforme {
	if len(i.Danos) == 0 {
		return nil
	}
	var danos []model.DanoInforme
	if err := json.Unmarshal(i.Danos, &danos); err != nil {
		return nil
	}
	return danos
}
