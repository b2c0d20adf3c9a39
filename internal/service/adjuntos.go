package service

import (
	"context"
	"time"

	"camher/internal/apierror"
	"camher/internal/model"
	"camher/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LibroAdjuntos records which documents a refacción carries. One entry per
// (refacción, tipo); registering the same tipo again replaces the path. The
// engine consults Tiene before letting an invoice or counter-receipt
// transition complete.
type LibroAdjuntos interface {
	Registrar(ctx context.Context, tx *gorm.DB, refaccionID uuid.UUID, tipo, ruta string) error
	Tiene(ctx context.Context, refaccionID uuid.UUID, tipo string) (bool, error)
	Listar(ctx context.Context, refaccionID uuid.UUID) ([]model.RefaccionArchivo, error)
}

type libroAdjuntos struct {
	archivos repository.ArchivoRepository
}

func NewLibroAdjuntos(archivos repository.ArchivoRepository) LibroAdjuntos {
	return &libroAdjuntos{archivos: archivos}
}

func (l *libroAdjuntos) Registrar(ctx context.Context, tx *gorm.DB, refaccionID uuid.UUID, tipo, ruta string) error {
	if !model.TipoArchivoValido(tipo) {
		return apierror.Validacion("tipo", "tipo de archivo desconocido: "+tipo)
	}
	if ruta == "" {
		return apierror.Validacion("ruta", "la ruta del archivo es obligatoria")
	}
	return l.archivos.Upsert(ctx, tx, &model.RefaccionArchivo{
		RefaccionID: refaccionID,
		Tipo:        tipo,
		Ruta:        ruta,
		CreatedAt:   time.Now(),
	})
}

func (l *libroAdjuntos) Tiene(ctx context.Context, refaccionID uuid.UUID, tipo string) (bool, error) {
	return l.archivos.Tiene(ctx, refaccionID, tipo)
}

func (l *libroAdjuntos) Listar(ctx context.Context, refaccionID uuid.UUID) ([]model.RefaccionArchivo, error) {
	return l.archivos.ListPorRefaccion(ctx, refaccionID)
}
