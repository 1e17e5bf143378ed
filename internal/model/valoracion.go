package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Valoracion is an insurance valuation of a vehicle handled by a workshop.
// Estado: "pendiente" | "en_curso" | "finalizado". Transitions go through
// workflow.Apply; repositories persist whatever it returns.
type Valoracion struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TallerID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClienteID *uuid.UUID `gorm:"type:uuid;index"`

	// Vehiculo
	Matricula          string `gorm:"type:varchar(20);index;not null"`
	Bastidor           string `gorm:"type:varchar(32)"`
	Motor              string
	Marca              string
	Modelo             string
	FechaMatriculacion *time.Time `gorm:"type:date"`

	// Seguro
	TipoPoliza      string
	Aseguradora     string
	NumeroSiniestro string

	Estado         string     `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	ValoradorID    *uuid.UUID `gorm:"type:uuid;index"`
	SiniestroTotal bool       `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	FinalizadaAt   *time.Time

	Taller *Taller `gorm:"foreignKey:TallerID"`
}

func (Valoracion) TableName() string { return "valoraciones" }

// ComentarioValoracion is one line of the valuation activity log.
// Sistema=true marks lines written by the API after a transition.
type ComentarioValoracion struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ValoracionID uuid.UUID  `gorm:"type:uuid;not null;index"`
	UsuarioID    *uuid.UUID `gorm:"type:uuid"`
	Texto        string     `gorm:"type:text;not null"`
	Sistema      bool       `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

func (ComentarioValoracion) TableName() string { return "comentarios_valoracion" }

// FotoValoracion is the metadata of a file kept in the storage directory.
// Ruta is the storage key, never an absolute path.
type FotoValoracion struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ValoracionID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Ruta           string    `gorm:"not null"`
	NombreOriginal string
	ContentType    string `gorm:"type:varchar(100)"`
	Bytes          int64
	CreatedAt      time.Time
}

func (FotoValoracion) TableName() string { return "fotos_valoracion" }

// InformeValoracion holds the report body rendered into the valuation PDF.
// Danos is a jsonb array of DanoInforme rows; empty means no damage table.
type InformeValoracion struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ValoracionID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	CuerpoHTML    string         `gorm:"type:text"`
	Danos         datatypes.JSON `gorm:"type:jsonb"`
	Observaciones string         `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (InformeValoracion) TableName() string { return "informes_valoracion" }

// DanoInforme is one row of the optional damage table.
type DanoInforme struct {
	Pieza     string  `json:"pieza"`
	Operacion string  `json:"operacion"`
	Horas     float64 `json:"horas"`
	Importe   float64 `json:"importe"`
}
