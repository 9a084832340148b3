package engine

import (
	"fmt"

	"github.com/formulab/backend-go/internal/domain"
)

// CostRollupCalculator combines per-ingredient cost contributions,
// externally-computed processing costs, and byproduct recovery credits into
// gross and net cost figures. It never recomputes unit-operation costs.
type CostRollupCalculator struct {
	units UnitConverter
}

// NewCostRollupCalculator creates a cost rollup calculator.
func NewCostRollupCalculator(conv UnitConverter) *CostRollupCalculator {
	return &CostRollupCalculator{units: conv}
}

// Rollup aggregates costs over the scaled ingredients. Per-ingredient costs
// are written back onto the slice elements. Missing cost data and a zero
// total output degrade to warnings rather than errors so the caller can still
// render a best-effort result.
func (cc *CostRollupCalculator) Rollup(
	scaled []domain.ScaledIngredient,
	params domain.CostParameters,
	processing *domain.ProcessingCost,
	byproducts []domain.Byproduct,
	totalOutput float64,
) (domain.CostRollup, []string, error) {
	var rollup domain.CostRollup
	var warnings []string

	for i := range scaled {
		ing := &scaled[i]
		if ing.CostPerKg <= 0 {
			warnings = append(warnings, fmt.Sprintf("missing cost data for ingredient: %s", ing.Name))
			continue
		}
		// Volume-unit quantities cross to kg via the documented 1 g = 1 mL
		// approximation.
		kgQty, _, err := cc.units.ConvertBridged(ing.Quantity, ing.Unit, "kg")
		if err != nil {
			return domain.CostRollup{}, nil, err
		}
		ing.Cost = kgQty * ing.CostPerKg
		rollup.IngredientCost += ing.Cost
	}

	if processing != nil {
		rollup.ProcessingCost = processing.TotalProcessingCost
	}
	rollup.OverheadCost = rollup.IngredientCost * params.OverheadRate / 100
	rollup.TotalCost = rollup.IngredientCost + rollup.ProcessingCost + rollup.OverheadCost

	for _, bp := range byproducts {
		if bp.RecoveryMethod == "" {
			// Waste, not credited.
			continue
		}
		rollup.ByproductCredit += bp.Quantity * bp.UnitValue
	}

	rollup.NetCost = rollup.TotalCost - rollup.ByproductCredit

	if totalOutput > 0 {
		rollup.CostPerUnit = rollup.NetCost / totalOutput
	} else {
		warnings = append(warnings, "total output is zero; cost per unit is undefined and reported as 0")
	}

	rollup.SuggestedPrice = rollup.NetCost * (1 + params.MarkupPercentage/100)

	return rollup, warnings, nil
}
