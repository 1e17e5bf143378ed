package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearValoracionRequest: TallerID is ignored for GESTOR_TALLER, who always
// creates in their own workshop.
type CrearValoracionRequest struct {
	TallerID           *string `json:"taller_id"           validate:"omitempty,uuid"`
	ClienteID          *string `json:"cliente_id"          validate:"omitempty,uuid"`
	Matricula          string  `json:"matricula"           validate:"required,min=1,max=20"`
	Bastidor           string  `json:"bastidor"            validate:"omitempty,max=32"`
	Motor              string  `json:"motor"               validate:"omitempty,max=100"`
	Marca              string  `json:"marca"               validate:"omitempty,max=60"`
	Modelo             string  `json:"modelo"              validate:"omitempty,max=60"`
	FechaMatriculacion string  `json:"fecha_matriculacion"`
	TipoPoliza         string  `json:"tipo_poliza"         validate:"omitempty,max=60"`
	Aseguradora        string  `json:"aseguradora"         validate:"omitempty,max=100"`
	NumeroSiniestro    string  `json:"numero_siniestro"    validate:"omitempty,max=60"`
}

// ActualizarValoracionRequest edits the descriptive fields only; workflow
// fields change through the estado/valorador/siniestro-total endpoints.
type ActualizarValoracionRequest struct {
	ClienteID          *string `json:"cliente_id"          validate:"omitempty,uuid"`
	Matricula          *string `json:"matricula"           validate:"omitempty,min=1,max=20"`
	Bastidor           *string `json:"bastidor"            validate:"omitempty,max=32"`
	Motor              *string `json:"motor"               validate:"omitempty,max=100"`
	Marca              *string `json:"marca"               validate:"omitempty,max=60"`
	Modelo             *string `json:"modelo"              validate:"omitempty,max=60"`
	FechaMatriculacion *string `json:"fecha_matriculacion"`
	TipoPoliza         *string `json:"tipo_poliza"         validate:"omitempty,max=60"`
	Aseguradora        *string `json:"aseguradora"         validate:"omitempty,max=100"`
	NumeroSiniestro    *string `json:"numero_siniestro"    validate:"omitempty,max=60"`
}

type CambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=pendiente en_curso finalizado"`
}

type AsignarValoradorRequest struct {
	ValoradorID string `json:"valorador_id" validate:"required,uuid"`
}

type ValoracionFilter struct {
	Estado    string `form:"estado"`
	Matricula string `form:"matricula"`
	TallerID  string `form:"taller_id"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

type CrearComentarioRequest struct {
	Texto string `json:"texto" validate:"required,min=1,max=2000"`
}

type DanoInput struct {
	Pieza     string  `json:"pieza"     validate:"required,max=120"`
	Operacion string  `json:"operacion" validate:"omitempty,max=60"`
	Horas     float64 `json:"horas"     validate:"min=0"`
	Importe   float64 `json:"importe"`
}

type GuardarInformeRequest struct {
	CuerpoHTML    string      `json:"cuerpo_html"`
	Danos         []DanoInput `json:"danos"         validate:"dive"`
	Observaciones string      `json:"observaciones" validate:"omitempty,max=10000"`
}

type EnviarInformeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ValoracionResponse struct {
	ID                 string     `json:"id"`
	TallerID           string     `json:"taller_id"`
	TallerNombre       string     `json:"taller_nombre"`
	ClienteID          *string    `json:"cliente_id"`
	Matricula          string     `json:"matricula"`
	Bastidor           string     `json:"bastidor"`
	Motor              string     `json:"motor"`
	Marca              string     `json:"marca"`
	Modelo             string     `json:"modelo"`
	FechaMatriculacion string     `json:"fecha_matriculacion"` // YYYY-MM-DD or ""
	TipoPoliza         string     `json:"tipo_poliza"`
	Aseguradora        string     `json:"aseguradora"`
	NumeroSiniestro    string     `json:"numero_siniestro"`
	Estado             string     `json:"estado"`
	EstadoEtiqueta     string     `json:"estado_etiqueta"`
	ValoradorID        *string    `json:"valorador_id"`
	SiniestroTotal     bool       `json:"siniestro_total"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	FinalizadaAt       *time.Time `json:"finalizada_at"`
}

type ValoracionListResponse struct {
	Data  []ValoracionResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type ColumnaTablero struct {
	Estado       string               `json:"estado"`
	Etiqueta     string               `json:"etiqueta"`
	Total        int                  `json:"total"`
	Valoraciones []ValoracionResponse `json:"valoraciones"`
}

type TableroResponse struct {
	Columnas []ColumnaTablero `json:"columnas"`
}

// TransicionResponse is returned by every workflow endpoint. Cambio=false
// means the action was a no-op (e.g. reviewer already assigned).
type TransicionResponse struct {
	Valoracion ValoracionResponse `json:"valoracion"`
	Cambio     bool               `json:"cambio"`
}

type ComentarioResponse struct {
	ID        string    `json:"id"`
	UsuarioID *string   `json:"usuario_id"`
	Texto     string    `json:"texto"`
	Sistema   bool      `json:"sistema"`
	CreatedAt time.Time `json:"created_at"`
}

type FotoResponse struct {
	ID             string    `json:"id"`
	NombreOriginal string    `json:"nombre_original"`
	ContentType    string    `json:"content_type"`
	Bytes          int64     `json:"bytes"`
	URL            string    `json:"url"`
	CreatedAt      time.Time `json:"created_at"`
}

type InformeResponse struct {
	ValoracionID  string      `json:"valoracion_id"`
	CuerpoHTML    string      `json:"cuerpo_html"`
	Danos         []DanoInput `json:"danos"`
	Observaciones string      `json:"observaciones"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
