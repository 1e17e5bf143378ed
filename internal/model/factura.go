package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Factura is an invoice header; Numero is unique per workshop. Total is the
// value computed at save time, reads always recompute it from Lineas.
// MetodoPago: "efectivo" | "tarjeta" | "transferencia" | "bizum" | "aseguradora"
type Factura struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero       string          `gorm:"type:varchar(30);not null;uniqueIndex:idx_facturas_taller_numero,priority:2"`
	FechaEmision time.Time       `gorm:"not null"`
	ClienteID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	TallerID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_facturas_taller_numero,priority:1"`
	MetodoPago   string          `gorm:"type:varchar(20);not null"`
	Notas        string          `gorm:"type:text"`
	Pagada       bool            `gorm:"not null;default:false"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Cliente *Cliente       `gorm:"foreignKey:ClienteID"`
	Lineas  []LineaFactura `gorm:"foreignKey:FacturaID"`
}

func (Factura) TableName() string { return "facturas" }

// LineaFactura stores the inputs of one invoice line plus its computed total.
// Descuento and TipoIVA are percentages.
type LineaFactura struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo           string          `gorm:"type:varchar(20);not null"`
	Descripcion    string          `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	TipoIVA        decimal.Decimal `gorm:"column:tipo_iva;type:decimal(5,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Posicion       int             `gorm:"not null;default:0"`
}

func (LineaFactura) TableName() string { return "lineas_factura" }
