package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/formulab/backend-go/internal/cache"
	"github.com/formulab/backend-go/internal/domain"
	"github.com/formulab/backend-go/internal/engine"
	"github.com/formulab/backend-go/internal/manufacturing"
	"github.com/formulab/backend-go/internal/repository"
)

// ScaleRequest is the caller-facing request for scaling a stored formulation.
type ScaleRequest struct {
	BatchSize       float64               `json:"batch_size" binding:"required,gt=0"`
	Unit            string                `json:"unit"`
	YieldPercentage float64               `json:"yield_percentage"`
	Operations      []string              `json:"operations,omitempty"`
	MaterialGrade   string                `json:"material_grade,omitempty"`
	CostParameters  domain.CostParameters `json:"cost_parameters"`
}

// CalculationService runs the calculation engine over stored formulations,
// memoizing results by input fingerprint and de-duplicating concurrent
// identical requests in flight.
type CalculationService struct {
	engine    *engine.Engine
	converter engine.UnitConverter
	estimator *manufacturing.Estimator
	repo      repository.FormulationRepository
	cache     cache.CalculationCache
	group     singleflight.Group
}

func NewCalculationService(
	eng *engine.Engine,
	converter engine.UnitConverter,
	estimator *manufacturing.Estimator,
	repo repository.FormulationRepository,
	cacheImpl cache.CalculationCache,
) *CalculationService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopCalculationCache()
	}
	return &CalculationService{
		engine:    eng,
		converter: converter,
		estimator: estimator,
		repo:      repo,
		cache:     cacheImpl,
	}
}

// Calculate runs the engine over a fully assembled input, consulting the
// result cache first. Cache failures degrade to a recomputation, never an
// error.
func (s *CalculationService) Calculate(ctx context.Context, in domain.CalculationInput) (*domain.CalculationResult, error) {
	fingerprint, err := cache.Fingerprint(in)
	if err != nil {
		return nil, err
	}

	if result, ok, err := s.cache.Get(ctx, fingerprint); err == nil && ok {
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("calculation: cache get failed")
	}

	value, err, _ := s.group.Do(fingerprint, func() (any, error) {
		result, err := s.engine.Calculate(in)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, fingerprint, result); err != nil {
			log.Warn().Err(err).Msg("calculation: cache set failed")
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*domain.CalculationResult), nil
}

// CalculateForFormulation loads a stored formulation (and its BOM, when one
// exists), estimates processing cost for the requested operations, and runs
// the engine.
func (s *CalculationService) CalculateForFormulation(ctx context.Context, formulationID string, req ScaleRequest) (*domain.CalculationResult, error) {
	formulation, err := s.repo.GetByID(ctx, formulationID)
	if err != nil {
		return nil, err
	}

	bom, err := s.repo.GetBOM(ctx, formulationID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	unit := req.Unit
	if unit == "" {
		unit = "kg"
	}
	yieldPct := req.YieldPercentage
	if yieldPct == 0 {
		yieldPct = 95
	}

	in := domain.CalculationInput{
		Formulation:     *formulation,
		BOM:             bom,
		TargetBatchSize: req.BatchSize,
		TargetUnit:      unit,
		YieldPercentage: yieldPct,
		CostParameters:  req.CostParameters,
	}

	operations := req.Operations
	if len(operations) == 0 && bom != nil {
		for _, step := range bom.Process {
			if _, ok := s.estimator.Catalog().UnitOperations[step.Name]; ok {
				operations = append(operations, step.Name)
			}
		}
	}
	if len(operations) > 0 {
		batchSizeL, _, err := s.converter.ConvertBridged(req.BatchSize, unit, "l")
		if err != nil {
			return nil, err
		}
		processing, err := s.estimator.Estimate(batchSizeL, operations, req.CostParameters, req.MaterialGrade)
		if err != nil {
			return nil, fmt.Errorf("processing cost estimate failed: %w", err)
		}
		in.ProcessingCost = processing
	}

	return s.Calculate(ctx, in)
}
