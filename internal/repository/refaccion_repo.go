package repository

import (
	"context"
	"time"

	"camher/internal/apierror"
	"camher/internal/dto"
	"camher/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefaccionRepository is the persistence gateway for refacciones, their line
// items, and the append-only transition history. Writes that belong to one
// logical transition run inside the caller's transaction (tx); every method
// that takes a tx degrades to the base connection when tx is nil.
type RefaccionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, r *model.Refaccion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Refaccion, error)
	// UpdateConVersion is the compare-and-swap write: it only applies when the
	// stored version still equals versionEsperada, and fails with a Conflicto
	// error otherwise. r.Version must already hold versionEsperada+1.
	UpdateConVersion(ctx context.Context, tx *gorm.DB, r *model.Refaccion, versionEsperada int) error
	ReplaceRenglones(ctx context.Context, tx *gorm.DB, refaccionID uuid.UUID, renglones []model.RefaccionRenglon) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	AppendHistorial(ctx context.Context, tx *gorm.DB, h *model.HistorialEstatus) error
	ListHistorial(ctx context.Context, refaccionID uuid.UUID) ([]model.HistorialEstatus, error)

	List(ctx context.Context, f dto.RefaccionFilter) ([]model.Refaccion, int64, error)
	ListPorSolicitante(ctx context.Context, solicitanteID uuid.UUID, f dto.RefaccionFilter) ([]model.Refaccion, int64, error)
	ListPorProveedor(ctx context.Context, proveedorID uuid.UUID, estatuses []int, f dto.RefaccionFilter) ([]model.Refaccion, int64, error)
	ListPorEstatus(ctx context.Context, estatuses []int, f dto.RefaccionFilter) ([]model.Refaccion, int64, error)

	DB() *gorm.DB
}

type refaccionRepo struct{ db *gorm.DB }

func NewRefaccionRepository(db *gorm.DB) RefaccionRepository { return &refaccionRepo{db: db} }

func (r *refaccionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *refaccionRepo) Create(ctx context.Context, tx *gorm.DB, ref *model.Refaccion) error {
	if err := r.conn(tx).WithContext(ctx).Create(ref).Error; err != nil {
		return apierror.Dependencia("no se pudo crear la refacción", err)
	}
	return nil
}

func (r *refaccionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Refaccion, error) {
	var ref model.Refaccion
	err := r.db.WithContext(ctx).
		Preload("Renglones", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") }).
		Preload("Unidad").
		Preload("Proveedor").
		First(&ref, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// Mutable columns for the CAS write. Selecting them explicitly forces GORM to
// persist zero values (es_efectivo=false, precio=0) and to run the jsonb
// serializers.
var camposMutables = []string{
	"unidad_id", "proveedor_id", "estatus", "version", "precio",
	"es_efectivo", "es_importante", "lugar_disposicion",
	"reporte_falla", "orden_trabajo", "revision_mecanico", "datos_factura",
	"fecha_requerida", "updated_at",
}

func (r *refaccionRepo) UpdateConVersion(ctx context.Context, tx *gorm.DB, ref *model.Refaccion, versionEsperada int) error {
	ref.UpdatedAt = time.Now()
	res := r.conn(tx).WithContext(ctx).
		Model(&model.Refaccion{}).
		Where("id = ? AND version = ?", ref.ID, versionEsperada).
		Select(camposMutables).
		Updates(ref)
	if res.Error != nil {
		return apierror.Dependencia("no se pudo actualizar la refacción", res.Error)
	}
	if res.RowsAffected == 0 {
		return apierror.Conflicto("la refacción fue modificada por otra operación; recargue e intente de nuevo")
	}
	return nil
}

func (r *refaccionRepo) ReplaceRenglones(ctx context.Context, tx *gorm.DB, refaccionID uuid.UUID, renglones []model.RefaccionRenglon) error {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.Where("refaccion_id = ?", refaccionID).Delete(&model.RefaccionRenglon{}).Error; err != nil {
		return apierror.Dependencia("no se pudieron reemplazar los renglones", err)
	}
	for i := range renglones {
		renglones[i].RefaccionID = refaccionID
		renglones[i].Orden = i
	}
	if err := conn.Create(&renglones).Error; err != nil {
		return apierror.Dependencia("no se pudieron reemplazar los renglones", err)
	}
	return nil
}

func (r *refaccionRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.Where("refaccion_id = ?", id).Delete(&model.RefaccionRenglon{}).Error; err != nil {
		return apierror.Dependencia("no se pudo eliminar la refacción", err)
	}
	if err := conn.Where("refaccion_id = ?", id).Delete(&model.RefaccionArchivo{}).Error; err != nil {
		return apierror.Dependencia("no se pudo eliminar la refacción", err)
	}
	if err := conn.Delete(&model.Refaccion{}, "id = ?", id).Error; err != nil {
		return apierror.Dependencia("no se pudo eliminar la refacción", err)
	}
	return nil
}

func (r *refaccionRepo) AppendHistorial(ctx context.Context, tx *gorm.DB, h *model.HistorialEstatus) error {
	if err := r.conn(tx).WithContext(ctx).Create(h).Error; err != nil {
		return apierror.Dependencia("no se pudo registrar la transición", err)
	}
	return nil
}

func (r *refaccionRepo) ListHistorial(ctx context.Context, refaccionID uuid.UUID) ([]model.HistorialEstatus, error) {
	var hs []model.HistorialEstatus
	err := r.db.WithContext(ctx).
		Where("refaccion_id = ?", refaccionID).
		Order("changed_at ASC").
		Find(&hs).Error
	return hs, err
}

func (r *refaccionRepo) List(ctx context.Context, f dto.RefaccionFilter) ([]model.Refaccion, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&model.Refaccion{}), f)
}

func (r *refaccionRepo) ListPorSolicitante(ctx context.Context, solicitanteID uuid.UUID, f dto.RefaccionFilter) ([]model.Refaccion, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Refaccion{}).Where("solicitante_id = ?", solicitanteID)
	return r.list(ctx, q, f)
}

func (r *refaccionRepo) ListPorProveedor(ctx context.Context, proveedorID uuid.UUID, estatuses []int, f dto.RefaccionFilter) ([]model.Refaccion, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Refaccion{}).
		Where("proveedor_id = ? AND estatus IN ?", proveedorID, estatuses)
	return r.list(ctx, q, f)
}

func (r *refaccionRepo) ListPorEstatus(ctx context.Context, estatuses []int, f dto.RefaccionFilter) ([]model.Refaccion, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Refaccion{}).Where("estatus IN ?", estatuses)
	return r.list(ctx, q, f)
}

func (r *refaccionRepo) list(_ context.Context, q *gorm.DB, f dto.RefaccionFilter) ([]model.Refaccion, int64, error) {
	if f.Estatus != nil {
		q = q.Where("estatus = ?", *f.Estatus)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var refs []model.Refaccion
	err := q.Preload("Renglones", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") }).
		Preload("Unidad").
		Preload("Proveedor").
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&refs).Error
	return refs, total, err
}

func (r *refaccionRepo) DB() *gorm.DB { return r.db }
