package service

import (
	"context"

	"camher/internal/apierror"
	"camher/internal/dto"
	"camher/internal/model"
	"camher/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProveedorService manages the provider catalog. Providers are catalog
// records; the matching login account is a Perfil with rol=proveedor whose
// email coincides with the catalog email.
type ProveedorService interface {
	Crear(ctx context.Context, req dto.GuardarProveedorRequest) (*dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarProveedorRequest) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, soloActivos bool) ([]dto.ProveedorResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.GuardarProveedorRequest) (*dto.ProveedorResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apierror.Validacion("email", "ya existe un proveedor con ese correo")
	} else if err != gorm.ErrRecordNotFound {
		return nil, apierror.Dependencia("no se pudo verificar el correo", err)
	}

	p := &model.Proveedor{
		ID:     uuid.New(),
		Nombre: req.Nombre,
		Email:  req.Email,
		Activo: true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apierror.Dependencia("no se pudo crear el proveedor", err)
	}
	resp := proveedorResponse(p)
	return &resp, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Nombre = req.Nombre
	p.Email = req.Email
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apierror.Dependencia("no se pudo actualizar el proveedor", err)
	}
	resp := proveedorResponse(p)
	return &resp, nil
}

func (s *proveedorService) Listar(ctx context.Context, soloActivos bool) ([]dto.ProveedorResponse, error) {
	ps, err := s.repo.List(ctx, soloActivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProveedorResponse, len(ps))
	for i := range ps {
		resp[i] = proveedorResponse(&ps[i])
	}
	return resp, nil
}

func (s *proveedorService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func proveedorResponse(p *model.Proveedor) dto.ProveedorResponse {
	return dto.ProveedorResponse{
		ID:     p.ID.String(),
		Nombre: p.Nombre,
		Email:  p.Email,
		Activo: p.Activo,
	}
}
