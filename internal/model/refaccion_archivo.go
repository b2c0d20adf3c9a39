package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de archivo adjuntos a una refacción. El motor solo registra que un
// documento de cada tipo existe; los bytes viven en un blob store externo
// direccionado por Ruta.
const (
	TipoArchivoIncidente    = "proof_of_incident"
	TipoArchivoFactura      = "invoice"
	TipoArchivoContrarecibo = "counter_receipt"
)

// TipoArchivoValido reports whether t is one of the known document kinds.
func TipoArchivoValido(t string) bool {
	switch t {
	case TipoArchivoIncidente, TipoArchivoFactura, TipoArchivoContrarecibo:
		return true
	}
	return false
}

// RefaccionArchivo records one attached document. At most one active record
// per (refaccion, tipo): re-uploading replaces the prior record for that kind.
type RefaccionArchivo struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RefaccionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_refaccion_tipo"`
	Tipo        string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_refaccion_tipo"`
	Ruta        string    `gorm:"not null"`
	CreatedAt   time.Time
}

func (RefaccionArchivo) TableName() string { return "refaccion_archivos" }
