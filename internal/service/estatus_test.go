package service

import (
	"testing"

	"camher/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func politicaDefecto() PoliticaPrecios {
	return PoliticaPrecios{
		UmbralEfectivo:      decimal.NewFromInt(500),
		UmbralTransferencia: decimal.NewFromInt(10000),
	}
}

func TestResolverEstatusEdicion_SinProveedor(t *testing.T) {
	previo := &model.Refaccion{Estatus: model.EstatusCreada, Precio: decimal.NewFromInt(100)}

	nuevo := ResolverEstatusEdicion(previo, EdicionPropuesta{
		ProveedorID: nil,
		Precio:      decimal.NewFromInt(999999), // el precio no importa sin proveedor
		EsEfectivo:  true,
	}, politicaDefecto())

	assert.Equal(t, model.EstatusCreada, nuevo)
}

func TestResolverEstatusEdicion_ProveedorNuevo(t *testing.T) {
	pid := uuid.New()
	previo := &model.Refaccion{Estatus: model.EstatusCreada, Precio: decimal.NewFromInt(100)}

	nuevo := ResolverEstatusEdicion(previo, EdicionPropuesta{
		ProveedorID: &pid,
		Precio:      decimal.NewFromInt(100),
	}, politicaDefecto())

	assert.Equal(t, model.EstatusRevisionAdmin, nuevo)
}

func TestResolverEstatusEdicion_ProveedorDistinto(t *testing.T) {
	anterior := uuid.New()
	distinto := uuid.New()
	previo := &model.Refaccion{
		Estatus:     model.EstatusBorrador,
		ProveedorID: &anterior,
		Precio:      decimal.NewFromInt(100),
	}

	// Cambiar de proveedor pasa por administración aunque el precio baje.
	nuevo := ResolverEstatusEdicion(previo, EdicionPropuesta{
		ProveedorID: &distinto,
		Precio:      decimal.NewFromInt(50),
	}, politicaDefecto())

	assert.Equal(t, model.EstatusRevisionAdmin, nuevo)
}

func TestResolverEstatusEdicion_CambioProveedorGanaAlPrecio(t *testing.T) {
	// Proveedor y precio cambian en la misma edición: el cambio de proveedor
	// manda, aun cuando el precio por sí solo iría directo al proveedor.
	anterior := uuid.New()
	distinto := uuid.New()
	previo := &model.Refaccion{
		Estatus:     model.EstatusBorrador,
		ProveedorID: &anterior,
		Precio:      decimal.NewFromInt(9000),
	}

	nuevo := ResolverEstatusEdicion(previo, EdicionPropuesta{
		ProveedorID: &distinto,
		Precio:      decimal.NewFromInt(100), // bajo ambos umbrales
	}, politicaDefecto())

	assert.Equal(t, model.EstatusRevisionAdmin, nuevo)
}

func TestResolverEstatusEdicion_CambioPrecioBajoUmbral(t *testing.T) {
	pid := uuid.New()
	previo := &model.Refaccion{
		Estatus:     model.EstatusBorrador,
		ProveedorID: &pid,
		Precio:      decimal.NewFromInt(100),
	}

	nuevo := ResolverEstatusEdicion(previo, EdicionPropuesta{
		ProveedorID: &pid,
		Precio:      decimal.NewFromInt(400), // efectivo ≤ 500
		EsEfectivo:  true,
	}, politicaDefecto())

	assert.Equal(t, model.EstatusRevisionProveedor, nuevo)
}

func TestResolverEstatusEdicion_CambioPrecioSobreUmbral(t *testing.T) {
	pid := uuid.New()
	previo := &model.Refaccion{
		Estatus:     model.EstatusBorrador,
		ProveedorID: &pid,
		Precio:      decimal.NewFromInt(100),
	}

	nuevo := ResolverEstatusEdicion(previo, EdicionPropuesta{
		ProveedorID: &pid,
		Precio:      decimal.NewFromFloat(500.01), // efectivo > 500
		EsEfectivo:  true,
	}, politicaDefecto())

	assert.Equal(t, model.EstatusRevisionAdmin, nuevo)
}

func TestResolverEstatusEdicion_CambioMetodoPago(t *testing.T) {
	// Mismo precio pero pasa de transferencia a efectivo: cuenta como cambio y
	// se evalúa contra el umbral de efectivo.
	pid := uuid.New()
	previo := &model.Refaccion{
		Estatus:     model.EstatusBorrador,
		ProveedorID: &pid,
		Precio:      decimal.NewFromInt(800),
		EsEfectivo:  false,
	}

	nuevo := ResolverEstatusEdicion(previo, EdicionPropuesta{
		ProveedorID: &pid,
		Precio:      decimal.NewFromInt(800),
		EsEfectivo:  true, // 800 > 500 en efectivo
	}, politicaDefecto())

	assert.Equal(t, model.EstatusRevisionAdmin, nuevo)
}

func TestResolverEstatusEdicion_SinCambios(t *testing.T) {
	pid := uuid.New()
	previo := &model.Refaccion{
		Estatus:     model.EstatusBorrador,
		ProveedorID: &pid,
		Precio:      decimal.NewFromInt(20000), // sobre umbral, pero no cambió
		EsEfectivo:  false,
	}

	nuevo := ResolverEstatusEdicion(previo, EdicionPropuesta{
		ProveedorID: &pid,
		Precio:      decimal.NewFromInt(20000),
		EsEfectivo:  false,
	}, politicaDefecto())

	assert.Equal(t, model.EstatusRevisionProveedor, nuevo)
}

func TestResolverEstatusEdicion_Determinista(t *testing.T) {
	pid := uuid.New()
	previo := &model.Refaccion{
		Estatus:     model.EstatusCreada,
		ProveedorID: &pid,
		Precio:      decimal.NewFromInt(300),
	}
	propuesto := EdicionPropuesta{ProveedorID: &pid, Precio: decimal.NewFromInt(450), EsEfectivo: true}

	primero := ResolverEstatusEdicion(previo, propuesto, politicaDefecto())
	for i := 0; i < 10; i++ {
		assert.Equal(t, primero, ResolverEstatusEdicion(previo, propuesto, politicaDefecto()))
	}
}

func TestTablaEstatus_Completa(t *testing.T) {
	for _, e := range []int{-1, 0, 1, 2, 3, 4, 5, 6} {
		info, ok := InfoEstatus(e)
		assert.True(t, ok, "estatus %d sin metadatos", e)
		assert.NotEmpty(t, info.Etiqueta)
	}
	_, ok := InfoEstatus(7)
	assert.False(t, ok)
	assert.Equal(t, "Desconocido", EtiquetaEstatus(42))
}

func TestListarEstatus_OrdenYTerminales(t *testing.T) {
	lista := ListarEstatus()
	assert.Len(t, lista, 8)
	assert.Equal(t, model.EstatusCancelada, lista[0].Estatus)
	assert.Equal(t, model.EstatusCompletada, lista[len(lista)-1].Estatus)

	for _, e := range lista {
		switch e.Estatus {
		case model.EstatusCancelada, model.EstatusCompletada:
			assert.True(t, e.Terminal)
			assert.Empty(t, e.ActuaSiguiente)
		default:
			assert.False(t, e.Terminal)
			assert.NotEmpty(t, e.ActuaSiguiente)
		}
	}
}

func TestListarEstatus_VisibilidadContador(t *testing.T) {
	for _, e := range ListarEstatus() {
		visible := contiene(e.RolesVista, model.RolContador)
		esperado := e.Estatus == model.EstatusEsperandoFactura ||
			e.Estatus == model.EstatusEsperandoContrarecibo ||
			e.Estatus == model.EstatusCompletada
		assert.Equal(t, esperado, visible, "estatus %d", e.Estatus)
	}
}
