package repository

import (
	"context"

	"camher/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PerfilRepository interface {
	Create(ctx context.Context, p *model.Perfil) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Perfil, error)
	FindByEmail(ctx context.Context, email string) (*model.Perfil, error)
	List(ctx context.Context) ([]model.Perfil, error)
	// EmailsPorRol returns the addresses of approved, active accounts holding
	// the role. It feeds notification fan-out.
	EmailsPorRol(ctx context.Context, rol string) ([]string, error)
	Aprobar(ctx context.Context, id uuid.UUID) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type perfilRepo struct{ db *gorm.DB }

func NewPerfilRepository(db *gorm.DB) PerfilRepository { return &perfilRepo{db: db} }

func (r *perfilRepo) Create(ctx context.Context, p *model.Perfil) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *perfilRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Perfil, error) {
	var p model.Perfil
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *perfilRepo) FindByEmail(ctx context.Context, email string) (*model.Perfil, error) {
	var p model.Perfil
	if err := r.db.WithContext(ctx).First(&p, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *perfilRepo) List(ctx context.Context) ([]model.Perfil, error) {
	var ps []model.Perfil
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&ps).Error
	return ps, err
}

func (r *perfilRepo) EmailsPorRol(ctx context.Context, rol string) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&model.Perfil{}).
		Where("rol = ? AND aprobado = ? AND activo = ?", rol, true, true).
		Pluck("email", &emails).Error
	return emails, err
}

func (r *perfilRepo) Aprobar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Perfil{}).
		Where("id = ?", id).
		Update("aprobado", true).Error
}

func (r *perfilRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Perfil{}).
		Where("id = ?", id).
		Update("activo", false).Error
}
