package repository

import (
	"context"

	"camher/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnidadRepository interface {
	Create(ctx context.Context, u *model.Unidad) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Unidad, error)
	List(ctx context.Context) ([]model.Unidad, error)
}

type unidadRepo struct{ db *gorm.DB }

func NewUnidadRepository(db *gorm.DB) UnidadRepository { return &unidadRepo{db: db} }

func (r *unidadRepo) Create(ctx context.Context, u *model.Unidad) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *unidadRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Unidad, error) {
	var u model.Unidad
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *unidadRepo) List(ctx context.Context) ([]model.Unidad, error) {
	var us []model.Unidad
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&us).Error
	return us, err
}
