package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de notificación emitidos por el motor.
const (
	NotifRevisionAdmin     = "admin_review"
	NotifRevisionProveedor = "provider_review"
	NotifContrarecibo      = "contador_receipt"
	NotifVerificacion      = "verification"
)

// Estados de entrega.
const (
	NotifEnviada = "enviada"
	NotifFallida = "fallida"
)

// Notificacion logs each delivery attempt. Delivery is out of band: a failed
// row is re-attempted by the retry cron until MaxNotificacionRetries, then
// dead-lettered. Failures here never roll back the transition that emitted
// the intent.
type Notificacion struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RefaccionID  *uuid.UUID `gorm:"type:uuid;index"`
	Destinatario string     `gorm:"not null"`
	Tipo         string     `gorm:"type:varchar(32);not null"`
	Estado       string     `gorm:"type:varchar(16);not null;index"`
	Error        *string
	RetryCount   int `gorm:"not null;default:0"`
	NextRetryAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Notificacion) TableName() string { return "notificaciones" }
