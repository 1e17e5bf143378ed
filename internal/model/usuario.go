package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores system users with role-based access.
// Rol: "SUPER_ADMIN" | "GESTOR_RED" | "GESTOR_TALLER"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          string    `gorm:"type:varchar(20);not null"`
	// TallerID scopes a GESTOR_TALLER; RedID scopes a GESTOR_RED
	TallerID  *uuid.UUID `gorm:"type:uuid;index"`
	RedID     *uuid.UUID `gorm:"type:uuid;index"`
	Activo    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
