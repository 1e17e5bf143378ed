package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LineaFacturaInput: Descuento and TipoIVA are percentages taken as given.
// Empty descriptions are reported by the invoice validation, per line.
type LineaFacturaInput struct {
	Tipo           string          `json:"tipo"            validate:"required,oneof=mano_obra recambio pintura otros"`
	Descripcion    string          `json:"descripcion"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	Descuento      decimal.Decimal `json:"descuento"`
	TipoIVA        decimal.Decimal `json:"tipo_iva"`
}

// GuardarFacturaRequest is used for both create and full update.
// Required fields are checked together so every problem is reported at once.
type GuardarFacturaRequest struct {
	ClienteID    string              `json:"cliente_id"  validate:"omitempty,uuid"`
	TallerID     string              `json:"taller_id"   validate:"omitempty,uuid"`
	MetodoPago   string              `json:"metodo_pago" validate:"omitempty,oneof=efectivo tarjeta transferencia bizum aseguradora"`
	FechaEmision *time.Time          `json:"fecha_emision"`
	Notas        string              `json:"notas"       validate:"omitempty,max=2000"`
	Pagada       bool                `json:"pagada"`
	Lineas       []LineaFacturaInput `json:"lineas"      validate:"dive"`
}

type MarcarPagadaRequest struct {
	Pagada bool `json:"pagada"`
}

type CalcularFacturaRequest struct {
	Lineas []LineaFacturaInput `json:"lineas" validate:"dive"`
}

type FacturaFilter struct {
	ClienteID string `form:"cliente_id"`
	TallerID  string `form:"taller_id"`
	Pagada    *bool  `form:"pagada"`
	Desde     string `form:"desde"` // YYYY-MM-DD
	Hasta     string `form:"hasta"` // YYYY-MM-DD
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaFacturaResponse struct {
	ID             string          `json:"id,omitempty"`
	Tipo           string          `json:"tipo"`
	Descripcion    string          `json:"descripcion"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	Descuento      decimal.Decimal `json:"descuento"`
	TipoIVA        decimal.Decimal `json:"tipo_iva"`
	Base           decimal.Decimal `json:"base"`
	IVA            decimal.Decimal `json:"iva"`
	Total          decimal.Decimal `json:"total"`
}

type DesgloseIVAResponse struct {
	TipoIVA decimal.Decimal `json:"tipo_iva"`
	Base    decimal.Decimal `json:"base"`
	Cuota   decimal.Decimal `json:"cuota"`
}

type TotalesFacturaResponse struct {
	Lineas        []LineaFacturaResponse `json:"lineas"`
	BaseImponible decimal.Decimal        `json:"base_imponible"`
	TotalIVA      decimal.Decimal        `json:"total_iva"`
	Total         decimal.Decimal        `json:"total"`
	DesgloseIVA   []DesgloseIVAResponse  `json:"desglose_iva"`
}

type FacturaResponse struct {
	ID            string                 `json:"id"`
	Numero        string                 `json:"numero"`
	FechaEmision  time.Time              `json:"fecha_emision"`
	ClienteID     string                 `json:"cliente_id"`
	ClienteNombre string                 `json:"cliente_nombre"`
	TallerID      string                 `json:"taller_id"`
	MetodoPago    string                 `json:"metodo_pago"`
	Notas         string                 `json:"notas"`
	Pagada        bool                   `json:"pagada"`
	Lineas        []LineaFacturaResponse `json:"lineas"`
	BaseImponible decimal.Decimal        `json:"base_imponible"`
	TotalIVA      decimal.Decimal        `json:"total_iva"`
	Total         decimal.Decimal        `json:"total"`
	DesgloseIVA   []DesgloseIVAResponse  `json:"desglose_iva"`
}

type FacturaListResponse struct {
	Data  []FacturaResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
