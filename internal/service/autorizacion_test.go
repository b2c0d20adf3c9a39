package service

import (
	"context"
	"testing"

	"camher/internal/apierror"
	"camher/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actorTaller(id uuid.UUID) Actor {
	return Actor{PerfilID: id, Email: "taller@camher.mx", Rol: model.RolTaller, Aprobado: true}
}

func actorAdmin() Actor {
	return Actor{PerfilID: uuid.New(), Email: "admin@camher.mx", Rol: model.RolAdmin, Aprobado: true}
}

func TestAutorizar_CuentaSinAprobar(t *testing.T) {
	g := NewGuardiaRoles(newStubProveedorRepo())
	actor := Actor{PerfilID: uuid.New(), Rol: model.RolAdmin, Aprobado: false}
	ref := &model.Refaccion{Estatus: model.EstatusRevisionAdmin}

	for _, accion := range []string{
		AccionEditar, AccionAprobarAdmin, AccionAceptarProveedor,
		AccionSubirFactura, AccionSubirContrarecibo, AccionCancelar,
	} {
		err := g.Autorizar(context.Background(), actor, ref, accion)
		assert.True(t, apierror.EsKind(err, apierror.KindAutorizacion), "acción %s", accion)
	}
}

func TestAutorizar_EditarSoloDuenoYEditable(t *testing.T) {
	g := NewGuardiaRoles(newStubProveedorRepo())
	solicitante := uuid.New()
	ref := &model.Refaccion{SolicitanteID: solicitante, Estatus: model.EstatusCreada}

	// Dueño en estatus editable: permitido.
	require.NoError(t, g.Autorizar(context.Background(), actorTaller(solicitante), ref, AccionEditar))

	// Otro taller: denegado.
	err := g.Autorizar(context.Background(), actorTaller(uuid.New()), ref, AccionEditar)
	assert.True(t, apierror.EsKind(err, apierror.KindAutorizacion))

	// Dueño pero ya en revisión de proveedor: denegado.
	ref.Estatus = model.EstatusRevisionProveedor
	err = g.Autorizar(context.Background(), actorTaller(solicitante), ref, AccionEditar)
	assert.True(t, apierror.EsKind(err, apierror.KindAutorizacion))
}

func TestAutorizar_AprobarAdminExigeEstatus(t *testing.T) {
	g := NewGuardiaRoles(newStubProveedorRepo())
	ref := &model.Refaccion{Estatus: model.EstatusCreada}

	err := g.Autorizar(context.Background(), actorAdmin(), ref, AccionAprobarAdmin)
	assert.True(t, apierror.EsKind(err, apierror.KindAutorizacion))

	ref.Estatus = model.EstatusRevisionAdmin
	assert.NoError(t, g.Autorizar(context.Background(), actorAdmin(), ref, AccionAprobarAdmin))

	// Un taller nunca aprueba.
	err = g.Autorizar(context.Background(), actorTaller(uuid.New()), ref, AccionAprobarAdmin)
	assert.True(t, apierror.EsKind(err, apierror.KindAutorizacion))
}

func TestAutorizar_ProveedorSoloElAsignado(t *testing.T) {
	proveedores := newStubProveedorRepo()
	asignado := &model.Proveedor{ID: uuid.New(), Nombre: "Refacciones del Norte", Email: "norte@prov.mx", Activo: true}
	ajeno := &model.Proveedor{ID: uuid.New(), Nombre: "Otro", Email: "otro@prov.mx", Activo: true}
	_ = proveedores.Create(context.Background(), asignado)
	_ = proveedores.Create(context.Background(), ajeno)

	g := NewGuardiaRoles(proveedores)
	ref := &model.Refaccion{Estatus: model.EstatusRevisionProveedor, ProveedorID: &asignado.ID}

	dueno := Actor{PerfilID: uuid.New(), Email: asignado.Email, Rol: model.RolProveedor, Aprobado: true}
	assert.NoError(t, g.Autorizar(context.Background(), dueno, ref, AccionAceptarProveedor))

	// Proveedor con cuenta válida pero no asignado a esta refacción.
	intruso := Actor{PerfilID: uuid.New(), Email: ajeno.Email, Rol: model.RolProveedor, Aprobado: true}
	err := g.Autorizar(context.Background(), intruso, ref, AccionAceptarProveedor)
	assert.True(t, apierror.EsKind(err, apierror.KindAutorizacion))

	// Cuenta de proveedor sin registro en el catálogo.
	sinRegistro := Actor{PerfilID: uuid.New(), Email: "nadie@prov.mx", Rol: model.RolProveedor, Aprobado: true}
	err = g.Autorizar(context.Background(), sinRegistro, ref, AccionAceptarProveedor)
	assert.True(t, apierror.EsKind(err, apierror.KindAutorizacion))
}

func TestAutorizar_ContrareciboSoloContador(t *testing.T) {
	g := NewGuardiaRoles(newStubProveedorRepo())
	ref := &model.Refaccion{Estatus: model.EstatusEsperandoContrarecibo}

	contador := Actor{PerfilID: uuid.New(), Rol: model.RolContador, Aprobado: true}
	assert.NoError(t, g.Autorizar(context.Background(), contador, ref, AccionSubirContrarecibo))

	err := g.Autorizar(context.Background(), actorAdmin(), ref, AccionSubirContrarecibo)
	assert.True(t, apierror.EsKind(err, apierror.KindAutorizacion))
}

func TestAutorizar_CancelarNoTerminal(t *testing.T) {
	g := NewGuardiaRoles(newStubProveedorRepo())
	solicitante := uuid.New()
	ref := &model.Refaccion{SolicitanteID: solicitante, Estatus: model.EstatusEsperandoFactura}

	// Admin y taller dueño pueden cancelar en cualquier estatus no terminal.
	assert.NoError(t, g.Autorizar(context.Background(), actorAdmin(), ref, AccionCancelar))
	assert.NoError(t, g.Autorizar(context.Background(), actorTaller(solicitante), ref, AccionCancelar))

	// Taller ajeno no.
	err := g.Autorizar(context.Background(), actorTaller(uuid.New()), ref, AccionCancelar)
	assert.True(t, apierror.EsKind(err, apierror.KindAutorizacion))

	// Terminal: nadie.
	ref.Estatus = model.EstatusCompletada
	err = g.Autorizar(context.Background(), actorAdmin(), ref, AccionCancelar)
	assert.True(t, apierror.EsKind(err, apierror.KindAutorizacion))
}

func TestPuedeVer_PorRol(t *testing.T) {
	proveedores := newStubProveedorRepo()
	prov := &model.Proveedor{ID: uuid.New(), Nombre: "Frenos SA", Email: "frenos@prov.mx", Activo: true}
	_ = proveedores.Create(context.Background(), prov)
	g := NewGuardiaRoles(proveedores)

	solicitante := uuid.New()
	ref := &model.Refaccion{SolicitanteID: solicitante, ProveedorID: &prov.ID, Estatus: model.EstatusCreada}

	// Admin siempre; taller solo lo propio.
	ok, _ := g.PuedeVer(context.Background(), actorAdmin(), ref)
	assert.True(t, ok)
	ok, _ = g.PuedeVer(context.Background(), actorTaller(solicitante), ref)
	assert.True(t, ok)
	ok, _ = g.PuedeVer(context.Background(), actorTaller(uuid.New()), ref)
	assert.False(t, ok)

	// Proveedor asignado: invisible en Creada, visible desde revisión de proveedor.
	duenoProv := Actor{PerfilID: uuid.New(), Email: prov.Email, Rol: model.RolProveedor, Aprobado: true}
	ok, _ = g.PuedeVer(context.Background(), duenoProv, ref)
	assert.False(t, ok)
	ref.Estatus = model.EstatusRevisionProveedor
	ok, _ = g.PuedeVer(context.Background(), duenoProv, ref)
	assert.True(t, ok)

	// Contador: solo la cola de facturación.
	contador := Actor{PerfilID: uuid.New(), Rol: model.RolContador, Aprobado: true}
	ok, _ = g.PuedeVer(context.Background(), contador, ref)
	assert.False(t, ok)
	ref.Estatus = model.EstatusEsperandoFactura
	ok, _ = g.PuedeVer(context.Background(), contador, ref)
	assert.True(t, ok)
}
