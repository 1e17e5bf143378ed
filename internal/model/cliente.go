package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente belongs to exactly one workshop. Vehiculos are saved as a whole.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TallerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre    string    `gorm:"not null;index"`
	Empresa   *string
	NIF       string `gorm:"column:nif;type:varchar(20);index"`
	Direccion *string
	Telefono  *string
	Email     *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Vehiculos []VehiculoCliente `gorm:"foreignKey:ClienteID"`
}

func (Cliente) TableName() string { return "clientes" }

type VehiculoCliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID uuid.UUID `gorm:"type:uuid;not null;index"`
	Matricula string    `gorm:"type:varchar(20);index"`
	Bastidor  string    `gorm:"type:varchar(32)"`
	Marca     string
	Modelo    string
	CreatedAt time.Time
}

func (VehiculoCliente) TableName() string { return "vehiculos_cliente" }
