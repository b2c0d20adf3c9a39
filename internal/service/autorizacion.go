package service

import (
	"context"
	"errors"
	"fmt"

	"camher/internal/apierror"
	"camher/internal/model"
	"camher/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the explicit caller context threaded into every engine call. There
// is no ambient "current user" anywhere below the handlers.
type Actor struct {
	PerfilID uuid.UUID
	Email    string
	Rol      string
	Aprobado bool
}

// Acciones sobre una refacción.
const (
	AccionEditar            = "editar"
	AccionEliminar          = "eliminar"
	AccionAprobarAdmin      = "aprobar_admin"
	AccionRechazarAdmin     = "rechazar_admin"
	AccionAceptarProveedor  = "aceptar_proveedor"
	AccionRechazarProveedor = "rechazar_proveedor"
	AccionSubirFactura      = "subir_factura"
	AccionSubirContrarecibo = "subir_contrarecibo"
	AccionSubirIncidente    = "subir_incidente"
	AccionCancelar          = "cancelar"
)

// GuardiaRoles decides whether an actor may perform an action on a refacción.
// A denial guarantees no write happened: the engine consults the guard before
// opening any transaction.
type GuardiaRoles interface {
	Autorizar(ctx context.Context, actor Actor, ref *model.Refaccion, accion string) error
	// ProveedorDe resolves the Proveedor record an actor acts for, by exact
	// email match against the provider catalog. Nil when none matches.
	ProveedorDe(ctx context.Context, actor Actor) (*model.Proveedor, error)
	PuedeVer(ctx context.Context, actor Actor, ref *model.Refaccion) (bool, error)
}

type guardiaRoles struct {
	proveedores repository.ProveedorRepository
}

func NewGuardiaRoles(proveedores repository.ProveedorRepository) GuardiaRoles {
	return &guardiaRoles{proveedores: proveedores}
}

func (g *guardiaRoles) ProveedorDe(ctx context.Context, actor Actor) (*model.Proveedor, error) {
	p, err := g.proveedores.FindByEmail(ctx, actor.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apierror.Dependencia("no se pudo resolver el proveedor del usuario", err)
	}
	return p, nil
}

// esDueno reports whether the actor's provider record matches the refacción's
// assigned provider.
func (g *guardiaRoles) esDueno(ctx context.Context, actor Actor, ref *model.Refaccion) (bool, error) {
	if ref.ProveedorID == nil {
		return false, nil
	}
	p, err := g.ProveedorDe(ctx, actor)
	if err != nil {
		return false, err
	}
	return p != nil && p.ID == *ref.ProveedorID, nil
}

func (g *guardiaRoles) Autorizar(ctx context.Context, actor Actor, ref *model.Refaccion, accion string) error {
	if !actor.Aprobado {
		return apierror.Autorizacion("la cuenta aún no ha sido aprobada por un administrador")
	}

	switch accion {
	case AccionEditar, AccionEliminar:
		if actor.Rol != model.RolTaller {
			return apierror.Autorizacion("solo el taller puede editar o eliminar refacciones")
		}
		if ref.SolicitanteID != actor.PerfilID {
			return apierror.Autorizacion("la refacción pertenece a otro solicitante")
		}
		if !model.EsEditable(ref.Estatus) {
			return apierror.Autorizacion(fmt.Sprintf("la refacción no es editable en estatus %d", ref.Estatus))
		}
		return nil

	case AccionAprobarAdmin, AccionRechazarAdmin:
		if actor.Rol != model.RolAdmin {
			return apierror.Autorizacion("solo administración puede aprobar o rechazar")
		}
		if ref.Estatus != model.EstatusRevisionAdmin {
			return apierror.Autorizacion("la refacción no está en revisión de administración")
		}
		return nil

	case AccionAceptarProveedor, AccionRechazarProveedor:
		if actor.Rol != model.RolProveedor {
			return apierror.Autorizacion("solo el proveedor asignado puede responder la solicitud")
		}
		if ref.Estatus != model.EstatusRevisionProveedor {
			return apierror.Autorizacion("la refacción no está en revisión de proveedor")
		}
		return g.exigirDueno(ctx, actor, ref)

	case AccionSubirFactura:
		if actor.Rol != model.RolProveedor {
			return apierror.Autorizacion("solo el proveedor asignado puede subir la factura")
		}
		if ref.Estatus != model.EstatusEsperandoFactura {
			return apierror.Autorizacion("la refacción no está esperando factura")
		}
		return g.exigirDueno(ctx, actor, ref)

	case AccionSubirContrarecibo:
		if actor.Rol != model.RolContador {
			return apierror.Autorizacion("solo contabilidad puede subir el contrarecibo")
		}
		if ref.Estatus != model.EstatusEsperandoContrarecibo {
			return apierror.Autorizacion("la refacción no está esperando contrarecibo")
		}
		return nil

	case AccionSubirIncidente:
		if actor.Rol != model.RolTaller || ref.SolicitanteID != actor.PerfilID {
			return apierror.Autorizacion("solo el taller solicitante puede adjuntar evidencia del incidente")
		}
		if model.EsTerminal(ref.Estatus) {
			return apierror.Autorizacion("la refacción ya está cerrada")
		}
		return nil

	case AccionCancelar:
		if model.EsTerminal(ref.Estatus) {
			return apierror.Autorizacion("la refacción ya está en un estatus terminal")
		}
		if actor.Rol == model.RolAdmin {
			return nil
		}
		if actor.Rol == model.RolTaller && ref.SolicitanteID == actor.PerfilID {
			return nil
		}
		return apierror.Autorizacion("solo administración o el taller solicitante pueden cancelar")

	default:
		return apierror.Autorizacion("acción desconocida: " + accion)
	}
}

func (g *guardiaRoles) exigirDueno(ctx context.Context, actor Actor, ref *model.Refaccion) error {
	ok, err := g.esDueno(ctx, actor, ref)
	if err != nil {
		return err
	}
	if !ok {
		return apierror.Autorizacion("la refacción está asignada a otro proveedor")
	}
	return nil
}

// PuedeVer applies per-status visibility. Administrators see everything;
// talleres see their own requests; providers see requests assigned to them at
// statuses a provider participates in; contadores see the invoicing tail.
func (g *guardiaRoles) PuedeVer(ctx context.Context, actor Actor, ref *model.Refaccion) (bool, error) {
	if !actor.Aprobado {
		return false, nil
	}
	switch actor.Rol {
	case model.RolAdmin:
		return true, nil
	case model.RolTaller:
		return ref.SolicitanteID == actor.PerfilID, nil
	case model.RolProveedor:
		info, ok := InfoEstatus(ref.Estatus)
		if !ok || !contiene(info.RolesVista, model.RolProveedor) {
			return false, nil
		}
		return g.esDueno(ctx, actor, ref)
	case model.RolContador:
		info, ok := InfoEstatus(ref.Estatus)
		return ok && contiene(info.RolesVista, model.RolContador), nil
	}
	return false, nil
}

func contiene(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
