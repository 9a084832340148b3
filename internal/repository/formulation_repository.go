// backend-go/internal/repository/formulation_repository.go
package repository

import (
	"context"
	"errors"

	"github.com/formulab/backend-go/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

type FormulationRepository interface {
	Create(ctx context.Context, f *domain.Formulation) error
	GetByID(ctx context.Context, id string) (*domain.Formulation, error)
	List(ctx context.Context, filter domain.FormulationFilter) ([]*domain.Formulation, int, error)
	Delete(ctx context.Context, id string) error

	GetBOM(ctx context.Context, formulationID string) (*domain.BillOfMaterials, error)
	SaveBOM(ctx context.Context, bom *domain.BillOfMaterials) error
}
