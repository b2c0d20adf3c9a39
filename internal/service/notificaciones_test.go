package service

import (
	"context"
	"testing"

	"camher/internal/model"
	"camher/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCola captures enqueued notification payloads.
type stubCola struct {
	payloads []worker.NotificacionJobPayload
}

func (c *stubCola) EnqueueNotificacion(_ context.Context, p worker.NotificacionJobPayload) error {
	c.payloads = append(c.payloads, p)
	return nil
}

func armarDespachador(t *testing.T) (Notificador, *stubPerfilRepo, *stubProveedorRepo, *stubCola) {
	t.Helper()
	perfiles := newStubPerfilRepo()
	proveedores := newStubProveedorRepo()
	cola := &stubCola{}
	return NewDespachadorNotificaciones(perfiles, proveedores, cola, "https://app.camher.mx"), perfiles, proveedores, cola
}

func TestNotificarTransicion_RevisionAdminFanout(t *testing.T) {
	d, perfiles, _, cola := armarDespachador(t)
	seedPerfil(t, perfiles, "admin1@camher.mx", "x", model.RolAdmin, true)
	seedPerfil(t, perfiles, "admin2@camher.mx", "x", model.RolAdmin, true)
	// Sin aprobar o inactivo no recibe.
	seedPerfil(t, perfiles, "pendiente@camher.mx", "x", model.RolAdmin, false)

	ref := &model.Refaccion{ID: uuid.New()}
	d.NotificarTransicion(context.Background(), ref, model.EstatusCreada, model.EstatusRevisionAdmin)

	require.Len(t, cola.payloads, 2)
	for _, p := range cola.payloads {
		assert.Equal(t, model.NotifRevisionAdmin, p.Tipo)
		assert.Equal(t, ref.ID.String(), p.RefaccionID)
		assert.NotEmpty(t, p.Asunto)
		assert.Contains(t, p.Cuerpo, ref.ID.String())
	}
}

func TestNotificarTransicion_RevisionProveedorAlAsignado(t *testing.T) {
	d, _, proveedores, cola := armarDespachador(t)
	prov := &model.Proveedor{ID: uuid.New(), Nombre: "Llantas MX", Email: "llantas@prov.mx", Activo: true}
	require.NoError(t, proveedores.Create(context.Background(), prov))

	ref := &model.Refaccion{ID: uuid.New(), ProveedorID: &prov.ID}
	d.NotificarTransicion(context.Background(), ref, model.EstatusRevisionAdmin, model.EstatusRevisionProveedor)

	require.Len(t, cola.payloads, 1)
	assert.Equal(t, "llantas@prov.mx", cola.payloads[0].Destinatario)
	assert.Equal(t, model.NotifRevisionProveedor, cola.payloads[0].Tipo)
}

func TestNotificarTransicion_ContrareciboAContadores(t *testing.T) {
	d, perfiles, _, cola := armarDespachador(t)
	seedPerfil(t, perfiles, "conta@camher.mx", "x", model.RolContador, true)

	ref := &model.Refaccion{ID: uuid.New()}
	d.NotificarTransicion(context.Background(), ref, model.EstatusEsperandoFactura, model.EstatusEsperandoContrarecibo)

	require.Len(t, cola.payloads, 1)
	assert.Equal(t, "conta@camher.mx", cola.payloads[0].Destinatario)
	assert.Equal(t, model.NotifContrarecibo, cola.payloads[0].Tipo)
}

func TestNotificarTransicion_EstatusSinInteresadosNoEmite(t *testing.T) {
	d, perfiles, _, cola := armarDespachador(t)
	seedPerfil(t, perfiles, "admin@camher.mx", "x", model.RolAdmin, true)

	ref := &model.Refaccion{ID: uuid.New()}
	// Ni Borrador, ni Creada, ni EsperandoFactura, ni terminales generan correo.
	for _, nuevo := range []int{
		model.EstatusCancelada, model.EstatusBorrador, model.EstatusCreada,
		model.EstatusEsperandoFactura, model.EstatusCompletada,
	} {
		d.NotificarTransicion(context.Background(), ref, 99, nuevo)
	}
	assert.Empty(t, cola.payloads)
}

func TestNotificarTransicion_MismoEstatusNoEmite(t *testing.T) {
	d, perfiles, _, cola := armarDespachador(t)
	seedPerfil(t, perfiles, "admin@camher.mx", "x", model.RolAdmin, true)

	ref := &model.Refaccion{ID: uuid.New()}
	d.NotificarTransicion(context.Background(), ref, model.EstatusRevisionAdmin, model.EstatusRevisionAdmin)
	assert.Empty(t, cola.payloads)
}

func TestNotificarTransicion_ProveedorSinResolverNoEmite(t *testing.T) {
	d, _, _, cola := armarDespachador(t)

	// Refacción en revisión de proveedor sin proveedor resoluble: se omite en
	// lugar de fallar.
	ref := &model.Refaccion{ID: uuid.New()}
	d.NotificarTransicion(context.Background(), ref, model.EstatusRevisionAdmin, model.EstatusRevisionProveedor)
	assert.Empty(t, cola.payloads)
}

func TestNotificarVerificacion(t *testing.T) {
	d, _, _, cola := armarDespachador(t)
	d.NotificarVerificacion(context.Background(), "nuevo@prov.mx")

	require.Len(t, cola.payloads, 1)
	assert.Equal(t, model.NotifVerificacion, cola.payloads[0].Tipo)
	assert.Equal(t, "nuevo@prov.mx", cola.payloads[0].Destinatario)
}
