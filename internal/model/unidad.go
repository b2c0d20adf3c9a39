package model

import (
	"time"

	"github.com/google/uuid"
)

// Unidad is a vehicle/unit of the fleet a refacción is requested for.
type Unidad struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

func (Unidad) TableName() string { return "unidades" }
