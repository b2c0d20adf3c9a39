package service

import (
	"camher/internal/dto"
	"camher/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstatusInfo is the single source of truth for per-status metadata. Handlers
// and notification templates read from this table instead of re-deriving
// labels or role visibility on their own.
type EstatusInfo struct {
	Estatus            int
	Etiqueta           string
	Terminal           bool
	ActuaSiguiente     string   // rol al que le toca mover la refacción
	ArchivosRequeridos []string // tipos de archivo que exige la siguiente acción
	RolesVista         []string
}

var tablaEstatus = map[int]EstatusInfo{
	model.EstatusCancelada: {
		Estatus:    model.EstatusCancelada,
		Etiqueta:   "Cancelada",
		Terminal:   true,
		RolesVista: []string{model.RolTaller, model.RolAdmin},
	},
	model.EstatusBorrador: {
		Estatus:        model.EstatusBorrador,
		Etiqueta:       "Devuelta al taller",
		ActuaSiguiente: model.RolTaller,
		RolesVista:     []string{model.RolTaller, model.RolAdmin},
	},
	model.EstatusCreada: {
		Estatus:        model.EstatusCreada,
		Etiqueta:       "Creada",
		ActuaSiguiente: model.RolTaller,
		RolesVista:     []string{model.RolTaller, model.RolAdmin},
	},
	model.EstatusRevisionAdmin: {
		Estatus:        model.EstatusRevisionAdmin,
		Etiqueta:       "Revisión de administración",
		ActuaSiguiente: model.RolAdmin,
		RolesVista:     []string{model.RolTaller, model.RolAdmin},
	},
	model.EstatusRevisionProveedor: {
		Estatus:        model.EstatusRevisionProveedor,
		Etiqueta:       "Revisión de proveedor",
		ActuaSiguiente: model.RolProveedor,
		RolesVista:     []string{model.RolTaller, model.RolAdmin, model.RolProveedor},
	},
	model.EstatusEsperandoFactura: {
		Estatus:            model.EstatusEsperandoFactura,
		Etiqueta:           "Esperando factura",
		ActuaSiguiente:     model.RolProveedor,
		ArchivosRequeridos: []string{model.TipoArchivoFactura},
		RolesVista:         []string{model.RolTaller, model.RolAdmin, model.RolProveedor, model.RolContador},
	},
	model.EstatusEsperandoContrarecibo: {
		Estatus:            model.EstatusEsperandoContrarecibo,
		Etiqueta:           "Esperando contrarecibo",
		ActuaSiguiente:     model.RolContador,
		ArchivosRequeridos: []string{model.TipoArchivoContrarecibo},
		RolesVista:         []string{model.RolTaller, model.RolAdmin, model.RolProveedor, model.RolContador},
	},
	model.EstatusCompletada: {
		Estatus:    model.EstatusCompletada,
		Etiqueta:   "Completada",
		Terminal:   true,
		RolesVista: []string{model.RolTaller, model.RolAdmin, model.RolProveedor, model.RolContador},
	},
}

// InfoEstatus looks up the metadata for a status. ok is false for values
// outside the closed set.
func InfoEstatus(estatus int) (EstatusInfo, bool) {
	info, ok := tablaEstatus[estatus]
	return info, ok
}

// EtiquetaEstatus returns the display label, or "Desconocido" for a value the
// table does not know.
func EtiquetaEstatus(estatus int) string {
	if info, ok := tablaEstatus[estatus]; ok {
		return info.Etiqueta
	}
	return "Desconocido"
}

// ListarEstatus returns the whole table ordered by status value.
func ListarEstatus() []dto.EstatusInfoResponse {
	out := make([]dto.EstatusInfoResponse, 0, len(tablaEstatus))
	for _, e := range []int{
		model.EstatusCancelada, model.EstatusBorrador, model.EstatusCreada,
		model.EstatusRevisionAdmin, model.EstatusRevisionProveedor,
		model.EstatusEsperandoFactura, model.EstatusEsperandoContrarecibo,
		model.EstatusCompletada,
	} {
		info := tablaEstatus[e]
		out = append(out, dto.EstatusInfoResponse{
			Estatus:            info.Estatus,
			Etiqueta:           info.Etiqueta,
			Terminal:           info.Terminal,
			ActuaSiguiente:     info.ActuaSiguiente,
			ArchivosRequeridos: info.ArchivosRequeridos,
			RolesVista:         info.RolesVista,
		})
	}
	return out
}

// EdicionPropuesta carries the routing-relevant fields of an edit. Precio is
// the already-validated renglón sum.
type EdicionPropuesta struct {
	ProveedorID *uuid.UUID
	Precio      decimal.Decimal
	EsEfectivo  bool
}

// ResolverEstatusEdicion computes the status an accepted edit lands on. Pure:
// it reads previo and propuesto and touches nothing else. Rule order matters:
// a provider change outranks a price change, so editing both in one request
// always routes to admin review.
func ResolverEstatusEdicion(previo *model.Refaccion, propuesto EdicionPropuesta, politica PoliticaPrecios) int {
	switch {
	case propuesto.ProveedorID == nil:
		// Sin proveedor asignado la refacción permanece recién creada.
		return model.EstatusCreada
	case previo.ProveedorID == nil || *previo.ProveedorID != *propuesto.ProveedorID:
		// Proveedor nuevo o distinto: siempre pasa por administración.
		return model.EstatusRevisionAdmin
	case !propuesto.Precio.Equal(previo.Precio) || propuesto.EsEfectivo != previo.EsEfectivo:
		if politica.RequiereRevisionAdmin(propuesto.Precio, propuesto.EsEfectivo) {
			return model.EstatusRevisionAdmin
		}
		return model.EstatusRevisionProveedor
	default:
		// Proveedor presente y sin cambios relevantes.
		return model.EstatusRevisionProveedor
	}
}
