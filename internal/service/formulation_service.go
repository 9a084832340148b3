package service

import (
	"context"
	"fmt"

	"github.com/formulab/backend-go/internal/domain"
	"github.com/formulab/backend-go/internal/repository"
)

// FormulationService handles formulation and BOM CRUD.
type FormulationService struct {
	repo repository.FormulationRepository
}

func NewFormulationService(repo repository.FormulationRepository) *FormulationService {
	return &FormulationService{repo: repo}
}

func (s *FormulationService) Create(ctx context.Context, f *domain.Formulation) error {
	if f.Name == "" {
		return fmt.Errorf("formulation name is required")
	}
	if f.Status == "" {
		f.Status = "draft"
	}
	if f.YieldUnit == "" {
		f.YieldUnit = "kg"
	}
	return s.repo.Create(ctx, f)
}

func (s *FormulationService) Get(ctx context.Context, id string) (*domain.Formulation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FormulationService) List(ctx context.Context, filter domain.FormulationFilter) ([]*domain.Formulation, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *FormulationService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *FormulationService) GetBOM(ctx context.Context, formulationID string) (*domain.BillOfMaterials, error) {
	return s.repo.GetBOM(ctx, formulationID)
}

func (s *FormulationService) SaveBOM(ctx context.Context, bom *domain.BillOfMaterials) error {
	if bom.FormulationID == "" {
		return fmt.Errorf("bom formulation_id is required")
	}
	if _, err := s.repo.GetByID(ctx, bom.FormulationID); err != nil {
		return err
	}
	return s.repo.SaveBOM(ctx, bom)
}
