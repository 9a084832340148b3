// Package engine implements the formulation scaling, yield-chain, and
// cost-rollup calculation pipeline. The engine is pure and synchronous: it
// performs no I/O, holds no state between invocations, and returns freshly
// constructed values only.
package engine

import (
	"fmt"
	"math"

	"github.com/formulab/backend-go/internal/domain"
)

// Config carries the engine's policy knobs.
type Config struct {
	// PercentTolerance is the allowed deviation of the ingredient percentage
	// sum from 100 before a warning is emitted.
	PercentTolerance float64
	// IdealYield is the yield percentage treated as fully efficient when
	// computing the efficiency score.
	IdealYield float64
}

// DefaultConfig returns the documented default engine configuration.
func DefaultConfig() Config {
	return Config{
		PercentTolerance: 0.5,
		IdealYield:       95,
	}
}

// Engine orchestrates the calculation pipeline in a fixed order: scaling,
// yield chain, then cost rollup and nutrition aggregation.
type Engine struct {
	cfg       Config
	scaling   *ScalingCalculator
	chain     *YieldChainProcessor
	costs     *CostRollupCalculator
	nutrition *NutritionAggregator
}

// New creates an engine using the given unit converter and configuration.
func New(conv UnitConverter, cfg Config) *Engine {
	if cfg.PercentTolerance <= 0 {
		cfg.PercentTolerance = DefaultConfig().PercentTolerance
	}
	if cfg.IdealYield <= 0 || cfg.IdealYield > 100 {
		cfg.IdealYield = DefaultConfig().IdealYield
	}
	return &Engine{
		cfg:       cfg,
		scaling:   NewScalingCalculator(conv),
		chain:     NewYieldChainProcessor(),
		costs:     NewCostRollupCalculator(conv),
		nutrition: NewNutritionAggregator(),
	}
}

// Calculate runs the full pipeline over one input. Validation failures abort
// before any computation with a typed error; data-completeness issues degrade
// gracefully into result warnings.
func (e *Engine) Calculate(in domain.CalculationInput) (*domain.CalculationResult, error) {
	if err := e.validate(in); err != nil {
		return nil, err
	}

	var warnings []string

	if dev := in.Formulation.TotalPercentage() - 100; math.Abs(dev) > e.cfg.PercentTolerance {
		if dev < 0 {
			warnings = append(warnings, fmt.Sprintf("ingredient percentages sum to %.1f%%, %.1f%% short of 100%%", 100+dev, -dev))
		} else {
			warnings = append(warnings, fmt.Sprintf("ingredient percentages sum to %.1f%%, exceeding 100%% by %.1f%%", 100+dev, dev))
		}
	}

	scaling, err := e.scaling.Scale(in.Formulation, in.TargetBatchSize, in.TargetUnit)
	if err != nil {
		return nil, err
	}
	if scaling.BridgedUnits {
		warnings = append(warnings, fmt.Sprintf(
			"target unit %q and base yield unit %q are different families; compared using the 1 g = 1 mL approximation",
			in.TargetUnit, in.Formulation.YieldUnit))
	}

	lossModels := in.LossModels
	if len(lossModels) == 0 {
		lossModels = in.BOM.DeriveLossModels()
	}

	chain, err := e.chain.BuildChain(lossModels, in.YieldPercentage, in.TargetBatchSize)
	if err != nil {
		return nil, err
	}

	byproducts := in.BOM.CollectByproducts()
	if byproducts == nil {
		byproducts = []domain.Byproduct{}
	}

	rollup, costWarnings, err := e.costs.Rollup(
		scaling.ScaledIngredients,
		in.CostParameters,
		in.ProcessingCost,
		byproducts,
		chain.TotalOutput,
	)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, costWarnings...)

	nutrition, nutritionWarnings := e.nutrition.Aggregate(scaling.ScaledIngredients, chain.TotalOutput)
	warnings = append(warnings, nutritionWarnings...)

	actualYield := chain.TotalOutput / in.TargetBatchSize * 100

	if warnings == nil {
		warnings = []string{}
	}

	return &domain.CalculationResult{
		FormulationID:       in.Formulation.ID,
		FormulationName:     in.Formulation.Name,
		ScaledIngredients:   scaling.ScaledIngredients,
		TotalOutput:         chain.TotalOutput,
		OutputUnit:          in.TargetUnit,
		CostRollup:          rollup,
		Byproducts:          byproducts,
		YieldChain:          chain.Chain,
		AggregatedNutrition: nutrition,
		Metadata: domain.CalculationMetadata{
			TargetYield:           in.TargetBatchSize,
			BaseYield:             in.Formulation.BaseYield,
			ScaleFactor:           scaling.ScaleFactor,
			ActualYieldPercentage: actualYield,
			EfficiencyScore:       e.efficiencyScore(actualYield),
		},
		Warnings: warnings,
	}, nil
}

func (e *Engine) validate(in domain.CalculationInput) error {
	if in.TargetBatchSize <= 0 {
		return invalidInput("target_batch_size", "must be positive, got %g", in.TargetBatchSize)
	}
	if in.YieldPercentage <= 0 || in.YieldPercentage > 100 {
		return invalidInput("yield_percentage", "must be in (0, 100], got %g", in.YieldPercentage)
	}
	if len(in.Formulation.Ingredients) == 0 {
		return invalidInput("formulation.ingredients", "formulation has no ingredients")
	}
	if in.Formulation.BaseYield <= 0 {
		return invalidInput("base_yield", "must be positive, got %g", in.Formulation.BaseYield)
	}
	return nil
}

// efficiencyScore maps the actual yield onto [0, 100] against the configured
// ideal. Monotonic in yield and saturating at the bounds.
func (e *Engine) efficiencyScore(actualYieldPercentage float64) float64 {
	score := actualYieldPercentage / e.cfg.IdealYield * 100
	return math.Min(100, math.Max(0, score))
}
