package service

import (
	"context"
	"sync"

	"camher/internal/dto"
	"camher/internal/model"
	"camher/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubRefaccionRepo is an in-memory RefaccionRepository. UpdateConVersion
// honors the compare-and-swap semantics so concurrency tests can exercise the
// exactly-one-winner guarantee.
type stubRefaccionRepo struct {
	mu          sync.Mutex
	refacciones map[uuid.UUID]*model.Refaccion
	historial   map[uuid.UUID][]model.HistorialEstatus
	// alLeer runs after each FindByID with the stored record, simulating a
	// concurrent writer that slips in between read and CAS write.
	alLeer func(ref *model.Refaccion)
}

func newStubRefaccionRepo() *stubRefaccionRepo {
	return &stubRefaccionRepo{
		refacciones: make(map[uuid.UUID]*model.Refaccion),
		historial:   make(map[uuid.UUID][]model.HistorialEstatus),
	}
}

func (r *stubRefaccionRepo) Create(_ context.Context, _ *gorm.DB, ref *model.Refaccion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ref.ID == uuid.Nil {
		ref.ID = uuid.New()
	}
	clon := *ref
	r.refacciones[ref.ID] = &clon
	return nil
}

func (r *stubRefaccionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Refaccion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.refacciones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clon := *ref
	if r.alLeer != nil {
		r.alLeer(ref)
	}
	return &clon, nil
}

func (r *stubRefaccionRepo) UpdateConVersion(_ context.Context, _ *gorm.DB, ref *model.Refaccion, versionEsperada int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	actual, ok := r.refacciones[ref.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if actual.Version != versionEsperada {
		return errConflictoStub
	}
	clon := *ref
	r.refacciones[ref.ID] = &clon
	return nil
}

func (r *stubRefaccionRepo) ReplaceRenglones(_ context.Context, _ *gorm.DB, refaccionID uuid.UUID, renglones []model.RefaccionRenglon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ref, ok := r.refacciones[refaccionID]; ok {
		ref.Renglones = renglones
	}
	return nil
}

func (r *stubRefaccionRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.refacciones, id)
	delete(r.historial, id)
	return nil
}

func (r *stubRefaccionRepo) AppendHistorial(_ context.Context, _ *gorm.DB, h *model.HistorialEstatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.historial[h.RefaccionID] = append(r.historial[h.RefaccionID], *h)
	return nil
}

func (r *stubRefaccionRepo) ListHistorial(_ context.Context, refaccionID uuid.UUID) ([]model.HistorialEstatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.HistorialEstatus(nil), r.historial[refaccionID]...), nil
}

func (r *stubRefaccionRepo) List(_ context.Context, _ dto.RefaccionFilter) ([]model.Refaccion, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Refaccion, 0, len(r.refacciones))
	for _, ref := range r.refacciones {
		out = append(out, *ref)
	}
	return out, int64(len(out)), nil
}

func (r *stubRefaccionRepo) ListPorSolicitante(_ context.Context, solicitanteID uuid.UUID, _ dto.RefaccionFilter) ([]model.Refaccion, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Refaccion
	for _, ref := range r.refacciones {
		if ref.SolicitanteID == solicitanteID {
			out = append(out, *ref)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubRefaccionRepo) ListPorProveedor(_ context.Context, proveedorID uuid.UUID, estatuses []int, _ dto.RefaccionFilter) ([]model.Refaccion, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Refaccion
	for _, ref := range r.refacciones {
		if ref.ProveedorID != nil && *ref.ProveedorID == proveedorID && contieneInt(estatuses, ref.Estatus) {
			out = append(out, *ref)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubRefaccionRepo) ListPorEstatus(_ context.Context, estatuses []int, _ dto.RefaccionFilter) ([]model.Refaccion, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Refaccion
	for _, ref := range r.refacciones {
		if contieneInt(estatuses, ref.Estatus) {
			out = append(out, *ref)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubRefaccionRepo) DB() *gorm.DB { return nil }

var _ repository.RefaccionRepository = (*stubRefaccionRepo)(nil)

func contieneInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// errConflictoStub mirrors the conflict error the real repo produces on a
// stale version.
var errConflictoStub = conflictoStub{}

type conflictoStub struct{}

func (conflictoStub) Error() string { return "conflicto: versión obsoleta" }

// stubProveedorRepo is an in-memory ProveedorRepository.
type stubProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
}

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProveedorRepo) FindByEmail(_ context.Context, email string) (*model.Proveedor, error) {
	for _, p := range r.proveedores {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProveedorRepo) List(_ context.Context, soloActivos bool) ([]model.Proveedor, error) {
	var out []model.Proveedor
	for _, p := range r.proveedores {
		if soloActivos && !p.Activo {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.proveedores[id]; ok {
		p.Activo = false
	}
	return nil
}

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)

// stubUnidadRepo is an in-memory UnidadRepository.
type stubUnidadRepo struct {
	unidades map[uuid.UUID]*model.Unidad
}

func newStubUnidadRepo() *stubUnidadRepo {
	return &stubUnidadRepo{unidades: make(map[uuid.UUID]*model.Unidad)}
}

func (r *stubUnidadRepo) Create(_ context.Context, u *model.Unidad) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.unidades[u.ID] = u
	return nil
}

func (r *stubUnidadRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Unidad, error) {
	u, ok := r.unidades[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUnidadRepo) List(_ context.Context) ([]model.Unidad, error) {
	var out []model.Unidad
	for _, u := range r.unidades {
		out = append(out, *u)
	}
	return out, nil
}

var _ repository.UnidadRepository = (*stubUnidadRepo)(nil)

// stubAdjuntos records Registrar calls in memory.
type stubAdjuntos struct {
	archivos map[uuid.UUID]map[string]string // refaccionID → tipo → ruta
	fallar   bool
}

func newStubAdjuntos() *stubAdjuntos {
	return &stubAdjuntos{archivos: make(map[uuid.UUID]map[string]string)}
}

func (a *stubAdjuntos) Registrar(_ context.Context, _ *gorm.DB, refaccionID uuid.UUID, tipo, ruta string) error {
	if a.fallar {
		return errConflictoStub
	}
	if a.archivos[refaccionID] == nil {
		a.archivos[refaccionID] = make(map[string]string)
	}
	a.archivos[refaccionID][tipo] = ruta
	return nil
}

func (a *stubAdjuntos) Tiene(_ context.Context, refaccionID uuid.UUID, tipo string) (bool, error) {
	_, ok := a.archivos[refaccionID][tipo]
	return ok, nil
}

func (a *stubAdjuntos) Listar(_ context.Context, refaccionID uuid.UUID) ([]model.RefaccionArchivo, error) {
	var out []model.RefaccionArchivo
	for tipo, ruta := range a.archivos[refaccionID] {
		out = append(out, model.RefaccionArchivo{RefaccionID: refaccionID, Tipo: tipo, Ruta: ruta})
	}
	return out, nil
}

var _ LibroAdjuntos = (*stubAdjuntos)(nil)

// stubNotificador captures emitted transition intents for assertion.
type stubNotificador struct {
	transiciones   []transicionEmitida
	verificaciones []string
}

type transicionEmitida struct {
	refaccionID     uuid.UUID
	anterior, nuevo int
}

func (n *stubNotificador) NotificarTransicion(_ context.Context, ref *model.Refaccion, anterior, nuevo int) {
	n.transiciones = append(n.transiciones, transicionEmitida{refaccionID: ref.ID, anterior: anterior, nuevo: nuevo})
}

func (n *stubNotificador) NotificarVerificacion(_ context.Context, email string) {
	n.verificaciones = append(n.verificaciones, email)
}

var _ Notificador = (*stubNotificador)(nil)
