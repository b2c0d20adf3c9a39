package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles del sistema.
const (
	RolTaller    = "taller"
	RolAdmin     = "admin"
	RolProveedor = "proveedor"
	RolContador  = "contador"
)

// RolValido reports whether r is a known role.
func RolValido(r string) bool {
	switch r {
	case RolTaller, RolAdmin, RolProveedor, RolContador:
		return true
	}
	return false
}

// Perfil stores system users with role-based access. Aprobado gates every
// engine operation: a newly registered account (notably a provider's) cannot
// act until an administrator approves it, regardless of whether a Proveedor
// business record already exists.
type Perfil struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          string    `gorm:"type:varchar(20);not null"`
	Aprobado     bool      `gorm:"not null;default:false"`
	Activo       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Perfil) TableName() string { return "perfiles" }
