package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/formulab/backend-go/internal/domain"
)

// NutritionAggregator blends each ingredient's per-100-unit nutrient values,
// weighted by its contribution to the batch, into a single profile per 100
// units of finished output.
type NutritionAggregator struct{}

// NewNutritionAggregator creates a nutrition aggregator.
func NewNutritionAggregator() *NutritionAggregator {
	return &NutritionAggregator{}
}

// Aggregate sums nutrient contributions across the scaled ingredients and
// renormalizes per 100 units of totalOutput. Quantities and totalOutput share
// the target unit, so the per-100 ratio is unit-independent. Ingredients with
// missing nutrient fields contribute 0 for those fields, with a warning,
// rather than being excluded; that preserves mass balance for the fields that
// are present.
func (na *NutritionAggregator) Aggregate(scaled []domain.ScaledIngredient, totalOutput float64) (map[string]float64, []string) {
	var warnings []string

	keys := make(map[string]struct{})
	for _, ing := range scaled {
		for k := range ing.Nutrients {
			keys[k] = struct{}{}
		}
	}

	aggregated := make(map[string]float64, len(keys))
	if len(keys) == 0 {
		if len(scaled) > 0 {
			warnings = append(warnings, "no nutrient data available for any ingredient")
		}
		return aggregated, warnings
	}
	if totalOutput <= 0 {
		warnings = append(warnings, "total output is zero; nutrition profile is empty")
		return aggregated, warnings
	}

	for _, ing := range scaled {
		var missing []string
		for key := range keys {
			value, ok := ing.Nutrients[key]
			if !ok {
				missing = append(missing, key)
				continue
			}
			// value is per 100 of the ingredient's base unit; the batch
			// contribution is value * quantity/100, and dividing by
			// totalOutput/100 renormalizes per 100 units of output.
			aggregated[key] += value * ing.Quantity / totalOutput
		}
		if len(missing) > 0 && len(missing) < len(keys) {
			sort.Strings(missing)
			warnings = append(warnings, fmt.Sprintf("ingredient %s missing nutrient fields (defaulted to 0): %s", ing.Name, strings.Join(missing, ", ")))
		}
		if len(missing) == len(keys) && len(keys) > 0 {
			warnings = append(warnings, fmt.Sprintf("no nutrient data for ingredient: %s", ing.Name))
		}
	}

	return aggregated, warnings
}
