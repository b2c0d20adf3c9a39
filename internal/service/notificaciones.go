package service

import (
	"context"

	"camher/internal/model"
	"camher/internal/repository"
	"camher/internal/worker"

	"github.com/rs/zerolog/log"
)

// colaNotificaciones is the slice of worker.Dispatcher this package needs.
type colaNotificaciones interface {
	EnqueueNotificacion(ctx context.Context, payload worker.NotificacionJobPayload) error
}

// Notificador emits notification intents for committed transitions. Strictly
// fire-and-forget: the methods return nothing and the engine never learns about
// delivery problems — a lost email must not reverse a state change.
type Notificador interface {
	NotificarTransicion(ctx context.Context, ref *model.Refaccion, anterior, nuevo int)
	NotificarVerificacion(ctx context.Context, email string)
}

type despachadorNotificaciones struct {
	perfiles    repository.PerfilRepository
	proveedores repository.ProveedorRepository
	cola        colaNotificaciones
	appURL      string
}

func NewDespachadorNotificaciones(
	perfiles repository.PerfilRepository,
	proveedores repository.ProveedorRepository,
	cola colaNotificaciones,
	appURL string,
) Notificador {
	return &despachadorNotificaciones{
		perfiles:    perfiles,
		proveedores: proveedores,
		cola:        cola,
		appURL:      appURL,
	}
}

// NotificarTransicion shapes one intent per transition: the new status decides
// the recipient set. Statuses without an interested party emit nothing, and
// old==new emits nothing.
func (d *despachadorNotificaciones) NotificarTransicion(ctx context.Context, ref *model.Refaccion, anterior, nuevo int) {
	if anterior == nuevo {
		return
	}

	var tipo string
	var destinatarios []string

	switch nuevo {
	case model.EstatusRevisionAdmin:
		tipo = model.NotifRevisionAdmin
		emails, err := d.perfiles.EmailsPorRol(ctx, model.RolAdmin)
		if err != nil {
			log.Error().Err(err).Str("refaccion_id", ref.ID.String()).
				Msg("notificaciones: failed to resolve admin recipients")
			return
		}
		destinatarios = emails

	case model.EstatusRevisionProveedor:
		tipo = model.NotifRevisionProveedor
		email := d.emailProveedor(ctx, ref)
		if email == "" {
			log.Warn().Str("refaccion_id", ref.ID.String()).
				Msg("notificaciones: provider review without resolvable provider email")
			return
		}
		destinatarios = []string{email}

	case model.EstatusEsperandoContrarecibo:
		tipo = model.NotifContrarecibo
		emails, err := d.perfiles.EmailsPorRol(ctx, model.RolContador)
		if err != nil {
			log.Error().Err(err).Str("refaccion_id", ref.ID.String()).
				Msg("notificaciones: failed to resolve contador recipients")
			return
		}
		destinatarios = emails

	default:
		return
	}

	unidad := ""
	if ref.Unidad != nil {
		unidad = ref.Unidad.Nombre
	}
	asunto, cuerpo := worker.PlantillaNotificacion(tipo, ref.ID.String(), unidad, d.appURL)

	for _, dest := range destinatarios {
		payload := worker.NotificacionJobPayload{
			RefaccionID:  ref.ID.String(),
			Destinatario: dest,
			Tipo:         tipo,
			Asunto:       asunto,
			Cuerpo:       cuerpo,
		}
		if err := d.cola.EnqueueNotificacion(ctx, payload); err != nil {
			log.Error().Err(err).Str("to", dest).Str("tipo", tipo).
				Str("refaccion_id", ref.ID.String()).
				Msg("notificaciones: failed to enqueue")
		}
	}
}

// NotificarVerificacion welcomes a freshly registered account.
func (d *despachadorNotificaciones) NotificarVerificacion(ctx context.Context, email string) {
	asunto, cuerpo := worker.PlantillaNotificacion(model.NotifVerificacion, "", "", d.appURL)
	payload := worker.NotificacionJobPayload{
		Destinatario: email,
		Tipo:         model.NotifVerificacion,
		Asunto:       asunto,
		Cuerpo:       cuerpo,
	}
	if err := d.cola.EnqueueNotificacion(ctx, payload); err != nil {
		log.Error().Err(err).Str("to", email).Msg("notificaciones: failed to enqueue verification")
	}
}

func (d *despachadorNotificaciones) emailProveedor(ctx context.Context, ref *model.Refaccion) string {
	if ref.Proveedor != nil {
		return ref.Proveedor.Email
	}
	if ref.ProveedorID == nil {
		return ""
	}
	p, err := d.proveedores.FindByID(ctx, *ref.ProveedorID)
	if err != nil {
		log.Error().Err(err).Str("proveedor_id", ref.ProveedorID.String()).
			Msg("notificaciones: failed to load proveedor")
		return ""
	}
	return p.Email
}
