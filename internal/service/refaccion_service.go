package service

import (
	"context"
	"time"

	"camher/internal/apierror"
	"camher/internal/dto"
	"camher/internal/model"
	"camher/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RefaccionService is the lifecycle engine: it owns every status transition a
// refacción can take, from creation through invoicing to completion or
// cancellation. All callers pass an explicit Actor; authorization runs before
// any transaction is opened, so a denial guarantees nothing was written.
type RefaccionService interface {
	Crear(ctx context.Context, actor Actor, req dto.GuardarRefaccionRequest) (*dto.RefaccionResponse, error)
	Editar(ctx context.Context, actor Actor, id uuid.UUID, req dto.GuardarRefaccionRequest) (*dto.RefaccionResponse, error)
	Eliminar(ctx context.Context, actor Actor, id uuid.UUID) error

	AprobarAdmin(ctx context.Context, actor Actor, id uuid.UUID) (*dto.RefaccionResponse, error)
	RechazarAdmin(ctx context.Context, actor Actor, id uuid.UUID) (*dto.RefaccionResponse, error)
	AceptarProveedor(ctx context.Context, actor Actor, id uuid.UUID) (*dto.RefaccionResponse, error)
	RechazarProveedor(ctx context.Context, actor Actor, id uuid.UUID) (*dto.RefaccionResponse, error)
	SubirFactura(ctx context.Context, actor Actor, id uuid.UUID, req dto.SubirFacturaRequest) (*dto.RefaccionResponse, error)
	SubirContrarecibo(ctx context.Context, actor Actor, id uuid.UUID, req dto.SubirContrareciboRequest) (*dto.RefaccionResponse, error)
	SubirIncidente(ctx context.Context, actor Actor, id uuid.UUID, req dto.SubirIncidenteRequest) error
	Cancelar(ctx context.Context, actor Actor, id uuid.UUID) (*dto.RefaccionResponse, error)

	ObtenerDetalle(ctx context.Context, actor Actor, id uuid.UUID) (*dto.RefaccionResponse, error)
	Historial(ctx context.Context, actor Actor, id uuid.UUID) ([]dto.HistorialItemResponse, error)
	Listar(ctx context.Context, actor Actor, f dto.RefaccionFilter) (*dto.RefaccionListResponse, error)
}

type refaccionService struct {
	refacciones repository.RefaccionRepository
	unidades    repository.UnidadRepository
	proveedores repository.ProveedorRepository
	guardia     GuardiaRoles
	adjuntos    LibroAdjuntos
	notificador Notificador
	politica    PoliticaPrecios
}

func NewRefaccionService(
	refacciones repository.RefaccionRepository,
	unidades repository.UnidadRepository,
	proveedores repository.ProveedorRepository,
	guardia GuardiaRoles,
	adjuntos LibroAdjuntos,
	notificador Notificador,
	politica PoliticaPrecios,
) RefaccionService {
	return &refaccionService{
		refacciones: refacciones,
		unidades:    unidades,
		proveedores: proveedores,
		guardia:     guardia,
		adjuntos:    adjuntos,
		notificador: notificador,
		politica:    politica,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// datosRefaccion is the validated, parsed form of GuardarRefaccionRequest.
type datosRefaccion struct {
	unidadID       uuid.UUID
	proveedorID    *uuid.UUID
	renglones      []model.RefaccionRenglon
	precio         decimal.Decimal
	fechaRequerida *time.Time
}

// validarGuardar checks the shared create/edit payload: the unidad must exist,
// the proveedor (if any) must exist and be active, and when the client echoes
// a total it must equal the renglón sum exactly.
func (s *refaccionService) validarGuardar(ctx context.Context, req dto.GuardarRefaccionRequest) (*datosRefaccion, error) {
	unidadID, err := uuid.Parse(req.UnidadID)
	if err != nil {
		return nil, apierror.Validacion("unidad_id", "identificador de unidad inválido")
	}
	if _, err := s.unidades.FindByID(ctx, unidadID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apierror.Validacion("unidad_id", "la unidad no existe")
		}
		return nil, apierror.Dependencia("no se pudo verificar la unidad", err)
	}

	var proveedorID *uuid.UUID
	if req.ProveedorID != "" {
		pid, err := uuid.Parse(req.ProveedorID)
		if err != nil {
			return nil, apierror.Validacion("proveedor_id", "identificador de proveedor inválido")
		}
		prov, err := s.proveedores.FindByID(ctx, pid)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apierror.Validacion("proveedor_id", "el proveedor no existe")
			}
			return nil, apierror.Dependencia("no se pudo verificar el proveedor", err)
		}
		if !prov.Activo {
			return nil, apierror.Validacion("proveedor_id", "el proveedor está inactivo")
		}
		proveedorID = &pid
	}

	renglones := make([]model.RefaccionRenglon, 0, len(req.Renglones))
	suma := decimal.Zero
	for i, r := range req.Renglones {
		if r.PrecioUnitario.IsNegative() {
			return nil, apierror.Validacion("renglones", "el precio unitario no puede ser negativo")
		}
		subtotal := r.PrecioUnitario.Mul(decimal.NewFromInt(int64(r.Cantidad)))
		suma = suma.Add(subtotal)
		renglones = append(renglones, model.RefaccionRenglon{
			Orden:          i,
			Descripcion:    r.Descripcion,
			PrecioUnitario: r.PrecioUnitario,
			Cantidad:       r.Cantidad,
		})
	}

	if req.Precio != nil && !req.Precio.Equal(suma) {
		return nil, apierror.Validacion("precio", "el precio no coincide con la suma de los renglones")
	}

	var fechaRequerida *time.Time
	if req.FechaRequerida != nil && *req.FechaRequerida != "" {
		t, err := time.Parse("2006-01-02", *req.FechaRequerida)
		if err != nil {
			return nil, apierror.Validacion("fecha_requerida", "fecha inválida, se espera AAAA-MM-DD")
		}
		fechaRequerida = &t
	}

	return &datosRefaccion{
		unidadID:       unidadID,
		proveedorID:    proveedorID,
		renglones:      renglones,
		precio:         suma,
		fechaRequerida: fechaRequerida,
	}, nil
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// A new refacción always lands on EstatusCreada, no matter its price or
// provider. The creation itself is recorded as the first history entry.
func (s *refaccionService) Crear(ctx context.Context, actor Actor, req dto.GuardarRefaccionRequest) (*dto.RefaccionResponse, error) {
	if !actor.Aprobado {
		return nil, apierror.Autorizacion("la cuenta aún no ha sido aprobada por un administrador")
	}
	if actor.Rol != model.RolTaller {
		return nil, apierror.Autorizacion("solo el taller puede crear refacciones")
	}

	datos, err := s.validarGuardar(ctx, req)
	if err != nil {
		return nil, err
	}

	ref := &model.Refaccion{
		ID:               uuid.New(),
		UnidadID:         datos.unidadID,
		ProveedorID:      datos.proveedorID,
		SolicitanteID:    actor.PerfilID,
		Estatus:          model.EstatusCreada,
		Version:          1,
		Precio:           datos.precio,
		EsEfectivo:       req.EsEfectivo,
		EsImportante:     req.EsImportante,
		LugarDisposicion: req.LugarDisposicion,
		ReporteFalla:     model.ReporteFalla(req.ReporteFalla),
		OrdenTrabajo:     model.OrdenTrabajo(req.OrdenTrabajo),
		RevisionMecanico: model.RevisionMecanico(req.RevisionMecanico),
		FechaRequerida:   datos.fechaRequerida,
		Renglones:        datos.renglones,
	}

	err = runTx(ctx, s.refacciones.DB(), func(tx *gorm.DB) error {
		if err := s.refacciones.Create(ctx, tx, ref); err != nil {
			return err
		}
		return s.refacciones.AppendHistorial(ctx, tx, &model.HistorialEstatus{
			RefaccionID:     ref.ID,
			EstatusAnterior: model.EstatusBorrador,
			EstatusNuevo:    model.EstatusCreada,
			ChangedAt:       time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.notificador.NotificarTransicion(ctx, ref, model.EstatusBorrador, model.EstatusCreada)
	return s.respuesta(ctx, ref), nil
}

// ── Editar ────────────────────────────────────────────────────────────────────
// Edits are only legal at {Borrador, Creada}. The resulting status comes from
// ResolverEstatusEdicion; the write is a compare-and-swap on the version read
// here, so two concurrent edits produce exactly one winner.
func (s *refaccionService) Editar(ctx context.Context, actor Actor, id uuid.UUID, req dto.GuardarRefaccionRequest) (*dto.RefaccionResponse, error) {
	ref, err := s.refacciones.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guardia.Autorizar(ctx, actor, ref, AccionEditar); err != nil {
		return nil, err
	}

	datos, err := s.validarGuardar(ctx, req)
	if err != nil {
		return nil, err
	}

	anterior := ref.Estatus
	nuevo := ResolverEstatusEdicion(ref, EdicionPropuesta{
		ProveedorID: datos.proveedorID,
		Precio:      datos.precio,
		EsEfectivo:  req.EsEfectivo,
	}, s.politica)

	versionLeida := ref.Version
	ref.UnidadID = datos.unidadID
	ref.ProveedorID = datos.proveedorID
	ref.Precio = datos.precio
	ref.EsEfectivo = req.EsEfectivo
	ref.EsImportante = req.EsImportante
	ref.LugarDisposicion = req.LugarDisposicion
	ref.ReporteFalla = model.ReporteFalla(req.ReporteFalla)
	ref.OrdenTrabajo = model.OrdenTrabajo(req.OrdenTrabajo)
	ref.RevisionMecanico = model.RevisionMecanico(req.RevisionMecanico)
	ref.FechaRequerida = datos.fechaRequerida
	ref.Estatus = nuevo
	ref.Version = versionLeida + 1

	err = runTx(ctx, s.refacciones.DB(), func(tx *gorm.DB) error {
		if err := s.refacciones.UpdateConVersion(ctx, tx, ref, versionLeida); err != nil {
			return err
		}
		if err := s.refacciones.ReplaceRenglones(ctx, tx, ref.ID, datos.renglones); err != nil {
			return err
		}
		if anterior != nuevo {
			return s.refacciones.AppendHistorial(ctx, tx, &model.HistorialEstatus{
				RefaccionID:     ref.ID,
				EstatusAnterior: anterior,
				EstatusNuevo:    nuevo,
				ChangedAt:       time.Now(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ref.Renglones = datos.renglones
	s.notificador.NotificarTransicion(ctx, ref, anterior, nuevo)
	return s.respuesta(ctx, ref), nil
}

func (s *refaccionService) Eliminar(ctx context.Context, actor Actor, id uuid.UUID) error {
	ref, err := s.refacciones.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guardia.Autorizar(ctx, actor, ref, AccionEliminar); err != nil {
		return err
	}
	return runTx(ctx, s.refacciones.DB(), func(tx *gorm.DB) error {
		return s.refacciones.Delete(ctx, tx, id)
	})
}

// ── Acciones con transición ───────────────────────────────────────────────────
// transicionar is the single path every named action goes through: authorize,
// CAS-write the new status, append exactly one history row, and emit the
// notification intent only after the transaction committed. extra, when set,
// runs inside the same transaction (attachment registration).
func (s *refaccionService) transicionar(ctx context.Context, actor Actor, id uuid.UUID, accion string, nuevo int, extra func(tx *gorm.DB, ref *model.Refaccion) error) (*model.Refaccion, error) {
	ref, err := s.refacciones.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guardia.Autorizar(ctx, actor, ref, accion); err != nil {
		return nil, err
	}

	anterior := ref.Estatus
	versionLeida := ref.Version
	ref.Estatus = nuevo
	ref.Version = versionLeida + 1

	err = runTx(ctx, s.refacciones.DB(), func(tx *gorm.DB) error {
		if extra != nil {
			if err := extra(tx, ref); err != nil {
				return err
			}
		}
		if err := s.refacciones.UpdateConVersion(ctx, tx, ref, versionLeida); err != nil {
			return err
		}
		if anterior != nuevo {
			return s.refacciones.AppendHistorial(ctx, tx, &model.HistorialEstatus{
				RefaccionID:     ref.ID,
				EstatusAnterior: anterior,
				EstatusNuevo:    nuevo,
				ChangedAt:       time.Now(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notificador.NotificarTransicion(ctx, ref, anterior, nuevo)
	return ref, nil
}

func (s *refaccionService) AprobarAdmin(ctx context.Context, actor Actor, id uuid.UUID) (*dto.RefaccionResponse, error) {
	ref, err := s.transicionar(ctx, actor, id, AccionAprobarAdmin, model.EstatusRevisionProveedor, nil)
	if err != nil {
		return nil, err
	}
	return s.respuesta(ctx, ref), nil
}

func (s *refaccionService) RechazarAdmin(ctx context.Context, actor Actor, id uuid.UUID) (*dto.RefaccionResponse, error) {
	ref, err := s.transicionar(ctx, actor, id, AccionRechazarAdmin, model.EstatusBorrador, nil)
	if err != nil {
		return nil, err
	}
	return s.respuesta(ctx, ref), nil
}

func (s *refaccionService) AceptarProveedor(ctx context.Context, actor Actor, id uuid.UUID) (*dto.RefaccionResponse, error) {
	ref, err := s.transicionar(ctx, actor, id, AccionAceptarProveedor, model.EstatusEsperandoFactura, nil)
	if err != nil {
		return nil, err
	}
	return s.respuesta(ctx, ref), nil
}

func (s *refaccionService) RechazarProveedor(ctx context.Context, actor Actor, id uuid.UUID) (*dto.RefaccionResponse, error) {
	ref, err := s.transicionar(ctx, actor, id, AccionRechazarProveedor, model.EstatusBorrador, nil)
	if err != nil {
		return nil, err
	}
	return s.respuesta(ctx, ref), nil
}

// SubirFactura registers the invoice file and advances to
// EsperandoContrarecibo in one transaction: if either write fails, neither
// survives.
func (s *refaccionService) SubirFactura(ctx context.Context, actor Actor, id uuid.UUID, req dto.SubirFacturaRequest) (*dto.RefaccionResponse, error) {
	if req.Ruta == "" {
		return nil, apierror.Validacion("ruta", "la factura requiere la ruta del archivo")
	}
	ref, err := s.transicionar(ctx, actor, id, AccionSubirFactura, model.EstatusEsperandoContrarecibo,
		func(tx *gorm.DB, ref *model.Refaccion) error {
			datos := model.DatosFactura{Fecha: req.Fecha, Numero: req.Numero}
			if req.SubTotal != nil {
				datos.SubTotal = *req.SubTotal
			}
			ref.DatosFactura = datos
			return s.adjuntos.Registrar(ctx, tx, ref.ID, model.TipoArchivoFactura, req.Ruta)
		})
	if err != nil {
		return nil, err
	}
	return s.respuesta(ctx, ref), nil
}

// SubirContrarecibo closes the cycle: the counter-receipt file and the final
// transition to Completada commit together.
func (s *refaccionService) SubirContrarecibo(ctx context.Context, actor Actor, id uuid.UUID, req dto.SubirContrareciboRequest) (*dto.RefaccionResponse, error) {
	if req.Ruta == "" {
		return nil, apierror.Validacion("ruta", "el contrarecibo requiere la ruta del archivo")
	}
	ref, err := s.transicionar(ctx, actor, id, AccionSubirContrarecibo, model.EstatusCompletada,
		func(tx *gorm.DB, ref *model.Refaccion) error {
			return s.adjuntos.Registrar(ctx, tx, ref.ID, model.TipoArchivoContrarecibo, req.Ruta)
		})
	if err != nil {
		return nil, err
	}
	return s.respuesta(ctx, ref), nil
}

// SubirIncidente attaches failure evidence without moving the status.
func (s *refaccionService) SubirIncidente(ctx context.Context, actor Actor, id uuid.UUID, req dto.SubirIncidenteRequest) error {
	ref, err := s.refacciones.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guardia.Autorizar(ctx, actor, ref, AccionSubirIncidente); err != nil {
		return err
	}
	return s.adjuntos.Registrar(ctx, nil, ref.ID, model.TipoArchivoIncidente, req.Ruta)
}

func (s *refaccionService) Cancelar(ctx context.Context, actor Actor, id uuid.UUID) (*dto.RefaccionResponse, error) {
	ref, err := s.transicionar(ctx, actor, id, AccionCancelar, model.EstatusCancelada, nil)
	if err != nil {
		return nil, err
	}
	return s.respuesta(ctx, ref), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *refaccionService) ObtenerDetalle(ctx context.Context, actor Actor, id uuid.UUID) (*dto.RefaccionResponse, error) {
	ref, err := s.refacciones.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.guardia.PuedeVer(ctx, actor, ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierror.Autorizacion("no tienes acceso a esta refacción")
	}
	return s.respuesta(ctx, ref), nil
}

func (s *refaccionService) Historial(ctx context.Context, actor Actor, id uuid.UUID) ([]dto.HistorialItemResponse, error) {
	ref, err := s.refacciones.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.guardia.PuedeVer(ctx, actor, ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierror.Autorizacion("no tienes acceso a esta refacción")
	}

	hs, err := s.refacciones.ListHistorial(ctx, id)
	if err != nil {
		return nil, apierror.Dependencia("no se pudo consultar el historial", err)
	}
	items := make([]dto.HistorialItemResponse, 0, len(hs))
	for _, h := range hs {
		items = append(items, dto.HistorialItemResponse{
			EstatusAnterior: h.EstatusAnterior,
			EstatusNuevo:    h.EstatusNuevo,
			Etiqueta:        EtiquetaEstatus(h.EstatusNuevo),
			ChangedAt:       h.ChangedAt.Format(time.RFC3339),
		})
	}
	return items, nil
}

// Listar scopes the listing to what the actor's role may see: talleres their
// own requests, proveedores the requests assigned to them from provider review
// onward, contadores the invoicing tail, administrators everything.
func (s *refaccionService) Listar(ctx context.Context, actor Actor, f dto.RefaccionFilter) (*dto.RefaccionListResponse, error) {
	if !actor.Aprobado {
		return nil, apierror.Autorizacion("la cuenta aún no ha sido aprobada por un administrador")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}

	var (
		refs  []model.Refaccion
		total int64
		err   error
	)
	switch actor.Rol {
	case model.RolAdmin:
		refs, total, err = s.refacciones.List(ctx, f)
	case model.RolTaller:
		refs, total, err = s.refacciones.ListPorSolicitante(ctx, actor.PerfilID, f)
	case model.RolProveedor:
		prov, perr := s.guardia.ProveedorDe(ctx, actor)
		if perr != nil {
			return nil, perr
		}
		if prov == nil {
			return &dto.RefaccionListResponse{Data: []dto.RefaccionResponse{}, Page: f.Page, Limit: f.Limit}, nil
		}
		estatuses := []int{
			model.EstatusRevisionProveedor, model.EstatusEsperandoFactura,
			model.EstatusEsperandoContrarecibo, model.EstatusCompletada,
		}
		refs, total, err = s.refacciones.ListPorProveedor(ctx, prov.ID, estatuses, f)
	case model.RolContador:
		estatuses := []int{
			model.EstatusEsperandoFactura, model.EstatusEsperandoContrarecibo,
			model.EstatusCompletada,
		}
		refs, total, err = s.refacciones.ListPorEstatus(ctx, estatuses, f)
	default:
		return nil, apierror.Autorizacion("rol sin acceso al listado")
	}
	if err != nil {
		return nil, apierror.Dependencia("no se pudo consultar el listado", err)
	}

	data := make([]dto.RefaccionResponse, 0, len(refs))
	for i := range refs {
		data = append(data, *construirRespuesta(&refs[i], nil))
	}
	return &dto.RefaccionListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// respuesta builds the detail DTO including the attachment ledger. Ledger read
// failures degrade to an empty list rather than failing the whole response.
func (s *refaccionService) respuesta(ctx context.Context, ref *model.Refaccion) *dto.RefaccionResponse {
	archivos, err := s.adjuntos.Listar(ctx, ref.ID)
	if err != nil {
		archivos = nil
	}
	return construirRespuesta(ref, archivos)
}

func construirRespuesta(ref *model.Refaccion, archivos []model.RefaccionArchivo) *dto.RefaccionResponse {
	renglones := make([]dto.RenglonResponse, 0, len(ref.Renglones))
	for _, r := range ref.Renglones {
		renglones = append(renglones, dto.RenglonResponse{
			Descripcion:    r.Descripcion,
			PrecioUnitario: r.PrecioUnitario,
			Cantidad:       r.Cantidad,
			Subtotal:       r.PrecioUnitario.Mul(decimal.NewFromInt(int64(r.Cantidad))),
		})
	}

	var archivosResp []dto.ArchivoResponse
	for _, a := range archivos {
		archivosResp = append(archivosResp, dto.ArchivoResponse{
			Tipo:      a.Tipo,
			Ruta:      a.Ruta,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}

	resp := &dto.RefaccionResponse{
		ID:               ref.ID.String(),
		UnidadID:         ref.UnidadID.String(),
		SolicitanteID:    ref.SolicitanteID.String(),
		Estatus:          ref.Estatus,
		Etiqueta:         EtiquetaEstatus(ref.Estatus),
		Version:          ref.Version,
		Precio:           ref.Precio,
		EsEfectivo:       ref.EsEfectivo,
		EsImportante:     ref.EsImportante,
		LugarDisposicion: ref.LugarDisposicion,
		Renglones:        renglones,
		Archivos:         archivosResp,
		CreatedAt:        ref.CreatedAt.Format(time.RFC3339),
	}
	if ref.Unidad != nil {
		resp.Unidad = ref.Unidad.Nombre
	}
	if ref.ProveedorID != nil {
		pid := ref.ProveedorID.String()
		resp.ProveedorID = &pid
	}
	if ref.Proveedor != nil {
		resp.Proveedor = ref.Proveedor.Nombre
	}
	if ref.FechaRequerida != nil {
		fecha := ref.FechaRequerida.Format("2006-01-02")
		resp.FechaRequerida = &fecha
	}
	return resp
}
