package service

import (
	"context"

	"camher/internal/apierror"
	"camher/internal/dto"
	"camher/internal/model"
	"camher/internal/repository"

	"github.com/google/uuid"
)

// UnidadService manages the vehicle catalog refacciones are requested for.
type UnidadService interface {
	Crear(ctx context.Context, req dto.GuardarUnidadRequest) (*dto.UnidadResponse, error)
	Listar(ctx context.Context) ([]dto.UnidadResponse, error)
}

type unidadService struct {
	repo repository.UnidadRepository
}

func NewUnidadService(repo repository.UnidadRepository) UnidadService {
	return &unidadService{repo: repo}
}

func (s *unidadService) Crear(ctx context.Context, req dto.GuardarUnidadRequest) (*dto.UnidadResponse, error) {
	u := &model.Unidad{ID: uuid.New(), Nombre: req.Nombre}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, apierror.Dependencia("no se pudo crear la unidad", err)
	}
	return &dto.UnidadResponse{ID: u.ID.String(), Nombre: u.Nombre}, nil
}

func (s *unidadService) Listar(ctx context.Context) ([]dto.UnidadResponse, error) {
	us, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UnidadResponse, len(us))
	for i, u := range us {
		resp[i] = dto.UnidadResponse{ID: u.ID.String(), Nombre: u.Nombre}
	}
	return resp, nil
}
