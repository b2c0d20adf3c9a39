package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RenglonRequest struct {
	Descripcion    string          `json:"descripcion"     validate:"required"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
}

type ReporteFallaRequest struct {
	UbicacionProblema string `json:"ubicacion_problema" validate:"required"`
	Operador          string `json:"operador"           validate:"required"`
	Descripcion       string `json:"descripcion"        validate:"required"`
}

type OrdenTrabajoRequest struct {
	Trabajo       string `json:"trabajo"       validate:"required"`
	Responsable   string `json:"responsable"   validate:"required"`
	Refaccion     string `json:"refaccion"`
	Observaciones string `json:"observaciones"`
}

type RevisionMecanicoRequest struct {
	Mecanico string `json:"mecanico"`
}

// GuardarRefaccionRequest is shared by POST (create) and PUT (edit). Precio is
// optional; when present it must equal the renglón sum exactly.
type GuardarRefaccionRequest struct {
	UnidadID         string                  `json:"unidad_id"         validate:"required,uuid"`
	ProveedorID      string                  `json:"proveedor_id"      validate:"omitempty,uuid"`
	Renglones        []RenglonRequest        `json:"renglones"         validate:"required,min=1,dive"`
	Precio           *decimal.Decimal        `json:"precio"            validate:"omitempty"`
	EsEfectivo       bool                    `json:"es_efectivo"`
	EsImportante     bool                    `json:"es_importante"`
	LugarDisposicion string                  `json:"lugar_disposicion" validate:"required"`
	ReporteFalla     ReporteFallaRequest     `json:"reporte_falla"     validate:"required"`
	OrdenTrabajo     OrdenTrabajoRequest     `json:"orden_trabajo"     validate:"required"`
	RevisionMecanico RevisionMecanicoRequest `json:"revision_mecanico"`
	FechaRequerida   *string                 `json:"fecha_requerida"   validate:"omitempty,datetime=2006-01-02"`
}

// SubirFacturaRequest registers the provider's invoice document. Ruta is the
// blob-store path where the UI already uploaded the bytes; the engine never
// inspects file contents.
type SubirFacturaRequest struct {
	Ruta     string           `json:"ruta"      validate:"required"`
	SubTotal *decimal.Decimal `json:"sub_total" validate:"omitempty"`
	Fecha    string           `json:"fecha"     validate:"omitempty,datetime=2006-01-02"`
	Numero   string           `json:"numero"`
}

type SubirContrareciboRequest struct {
	Ruta string `json:"ruta" validate:"required"`
}

type SubirIncidenteRequest struct {
	Ruta string `json:"ruta" validate:"required"`
}

// RefaccionFilter is bound from the query string of GET /v1/refacciones.
type RefaccionFilter struct {
	Estatus *int `form:"estatus" validate:"omitempty,min=-1,max=6"`
	Page    int  `form:"page,default=1"   validate:"min=1"`
	Limit   int  `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RenglonResponse struct {
	Descripcion    string          `json:"descripcion"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Cantidad       int             `json:"cantidad"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type ArchivoResponse struct {
	Tipo      string `json:"tipo"`
	Ruta      string `json:"ruta"`
	CreatedAt string `json:"created_at"`
}

type RefaccionResponse struct {
	ID               string            `json:"id"`
	UnidadID         string            `json:"unidad_id"`
	Unidad           string            `json:"unidad,omitempty"`
	ProveedorID      *string           `json:"proveedor_id"`
	Proveedor        string            `json:"proveedor,omitempty"`
	SolicitanteID    string            `json:"solicitante_id"`
	Estatus          int               `json:"estatus"`
	Etiqueta         string            `json:"etiqueta"`
	Version          int               `json:"version"`
	Precio           decimal.Decimal   `json:"precio"`
	EsEfectivo       bool              `json:"es_efectivo"`
	EsImportante     bool              `json:"es_importante"`
	LugarDisposicion string            `json:"lugar_disposicion"`
	Renglones        []RenglonResponse `json:"renglones"`
	Archivos         []ArchivoResponse `json:"archivos,omitempty"`
	FechaRequerida   *string           `json:"fecha_requerida,omitempty"`
	CreatedAt        string            `json:"created_at"`
}

type RefaccionListResponse struct {
	Data  []RefaccionResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

// HistorialItemResponse is one audit-trail entry for the progress view.
type HistorialItemResponse struct {
	EstatusAnterior int    `json:"estatus_anterior"`
	EstatusNuevo    int    `json:"estatus_nuevo"`
	Etiqueta        string `json:"etiqueta"`
	ChangedAt       string `json:"changed_at"`
}

// EstatusInfoResponse exposes the engine's status metadata table read-only so
// presentation collaborators stop duplicating status-to-text mappings.
type EstatusInfoResponse struct {
	Estatus            int      `json:"estatus"`
	Etiqueta           string   `json:"etiqueta"`
	Terminal           bool     `json:"terminal"`
	ActuaSiguiente     string   `json:"actua_siguiente,omitempty"`
	ArchivosRequeridos []string `json:"archivos_requeridos,omitempty"`
	RolesVista         []string `json:"roles_vista"`
}
