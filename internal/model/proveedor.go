package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor represents an external vendor that quotes and invoices parts.
// The approval flag of a provider's user account lives on Perfil, not here:
// a Proveedor business record can exist before anyone can act on its behalf.
type Proveedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Proveedor) TableName() string { return "proveedores" }
