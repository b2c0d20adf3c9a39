package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estatus del ciclo de vida de una refacción. El conjunto es cerrado: ningún
// otro valor se persiste jamás.
const (
	EstatusCancelada            = -1 // terminal
	EstatusBorrador             = 0  // devuelta al taller para edición
	EstatusCreada               = 1
	EstatusRevisionAdmin        = 2
	EstatusRevisionProveedor    = 3
	EstatusEsperandoFactura     = 4
	EstatusEsperandoContrarecibo = 5
	EstatusCompletada           = 6 // terminal
)

// ReporteFalla describes the failure that motivated the request.
type ReporteFalla struct {
	UbicacionProblema string `json:"ubicacion_problema"`
	Operador          string `json:"operador"`
	Descripcion       string `json:"descripcion"`
}

// OrdenTrabajo describes the repair job the part is for.
type OrdenTrabajo struct {
	Trabajo       string `json:"trabajo"`
	Responsable   string `json:"responsable"`
	Refaccion     string `json:"refaccion"`
	Observaciones string `json:"observaciones"`
}

// RevisionMecanico records which mechanic signed off the request.
type RevisionMecanico struct {
	Mecanico string `json:"mecanico"`
}

// DatosFactura holds the invoice metadata the provider reports when uploading.
type DatosFactura struct {
	SubTotal decimal.Decimal `json:"sub_total"`
	Fecha    string          `json:"fecha"`
	Numero   string          `json:"numero"`
}

// Refaccion is a replacement-part purchase request. Status is a property of
// the whole request; Version backs the optimistic concurrency check on every
// write (two concurrent writers → exactly one wins, the other gets a conflict).
type Refaccion struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UnidadID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProveedorID   *uuid.UUID `gorm:"type:uuid;index"`
	SolicitanteID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Estatus       int        `gorm:"not null;default:1;index"`
	Version       int        `gorm:"not null;default:1"`
	// Precio se mantiene como la suma de precio_unitario*cantidad de los
	// renglones; el invariante se verifica en cada edición.
	Precio           decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	EsEfectivo       bool             `gorm:"not null;default:false"`
	EsImportante     bool             `gorm:"not null;default:false"`
	LugarDisposicion string           `gorm:"not null"`
	ReporteFalla     ReporteFalla     `gorm:"type:jsonb;serializer:json"`
	OrdenTrabajo     OrdenTrabajo     `gorm:"type:jsonb;serializer:json"`
	RevisionMecanico RevisionMecanico `gorm:"type:jsonb;serializer:json"`
	DatosFactura     DatosFactura     `gorm:"type:jsonb;serializer:json"`
	FechaRequerida   *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Renglones []RefaccionRenglon `gorm:"foreignKey:RefaccionID;constraint:OnDelete:CASCADE"`
	Unidad    *Unidad            `gorm:"foreignKey:UnidadID"`
	Proveedor *Proveedor         `gorm:"foreignKey:ProveedorID"`
}

func (Refaccion) TableName() string { return "refacciones" }

// EsTerminal reports whether no further transition is legal from e.
func EsTerminal(e int) bool { return e == EstatusCancelada || e == EstatusCompletada }

// EsEditable reports whether the taller may still edit or delete the part.
func EsEditable(e int) bool { return e == EstatusBorrador || e == EstatusCreada }

// RefaccionRenglon is one line item. The ordered set of renglones is owned
// exclusively by its Refaccion and replaced wholesale on every edit.
type RefaccionRenglon struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RefaccionID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Orden          int             `gorm:"not null"`
	Descripcion    string          `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cantidad       int             `gorm:"not null"`
}

func (RefaccionRenglon) TableName() string { return "refaccion_renglones" }
