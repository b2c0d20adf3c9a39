package model

import (
	"time"

	"github.com/google/uuid"
)

// HistorialEstatus es el registro inmutable de cada transición de estatus.
// Los registros nunca se modifican ni eliminan; la secuencia ordenada por
// ChangedAt es la pista de auditoría y alimenta la barra de progreso del UI.
type HistorialEstatus struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RefaccionID     uuid.UUID `gorm:"type:uuid;not null;index"`
	EstatusAnterior int       `gorm:"not null"`
	EstatusNuevo    int       `gorm:"not null"`
	ChangedAt       time.Time `gorm:"not null;index"`
}

func (HistorialEstatus) TableName() string { return "historial_estatus" }
