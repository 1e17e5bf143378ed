package model

import (
	"time"

	"github.com/google/uuid"
)

// Red groups workshops under one manager.
type Red struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

func (Red) TableName() string { return "redes" }

// Taller is the tenant unit owning clients, valuations and invoices.
type Taller struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string     `gorm:"not null"`
	RedID     *uuid.UUID `gorm:"type:uuid;index"`
	CIF       string     `gorm:"column:cif;type:varchar(20)"`
	Direccion *string
	Telefono  *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Taller) TableName() string { return "talleres" }
