package repository

import (
	"context"

	"camher/internal/apierror"
	"camher/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArchivoRepository persists the attachment ledger. A refacción holds at most
// one file per tipo; re-registering the same tipo replaces the previous path.
type ArchivoRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, a *model.RefaccionArchivo) error
	Tiene(ctx context.Context, refaccionID uuid.UUID, tipo string) (bool, error)
	ListPorRefaccion(ctx context.Context, refaccionID uuid.UUID) ([]model.RefaccionArchivo, error)
}

type archivoRepo struct{ db *gorm.DB }

func NewArchivoRepository(db *gorm.DB) ArchivoRepository { return &archivoRepo{db: db} }

func (r *archivoRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *archivoRepo) Upsert(ctx context.Context, tx *gorm.DB, a *model.RefaccionArchivo) error {
	err := r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "refaccion_id"}, {Name: "tipo"}},
			DoUpdates: clause.AssignmentColumns([]string{"ruta", "created_at"}),
		}).
		Create(a).Error
	if err != nil {
		return apierror.Dependencia("no se pudo registrar el archivo", err)
	}
	return nil
}

func (r *archivoRepo) Tiene(ctx context.Context, refaccionID uuid.UUID, tipo string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.RefaccionArchivo{}).
		Where("refaccion_id = ? AND tipo = ?", refaccionID, tipo).
		Count(&n).Error
	return n > 0, err
}

func (r *archivoRepo) ListPorRefaccion(ctx context.Context, refaccionID uuid.UUID) ([]model.RefaccionArchivo, error) {
	var archivos []model.RefaccionArchivo
	err := r.db.WithContext(ctx).
		Where("refaccion_id = ?", refaccionID).
		Order("created_at ASC").
		Find(&archivos).Error
	return archivos, err
}
