package engine

import (
	"math"

	"github.com/formulab/backend-go/internal/domain"
	"github.com/formulab/backend-go/internal/units"
)

// UnitConverter is the unit-conversion collaborator. Conversion failures are
// propagated unchanged so callers see the offending units named.
type UnitConverter interface {
	Convert(quantity float64, fromUnit, toUnit string) (float64, error)
	ConvertBridged(quantity float64, fromUnit, toUnit string) (float64, bool, error)
	ToBase(quantity float64, unit string) (float64, units.Family, error)
}

// ScalingResult is the output of one scaling pass.
type ScalingResult struct {
	ScaleFactor       float64
	ScaledIngredients []domain.ScaledIngredient
	// BridgedUnits is set when the target unit and the formulation's yield
	// unit belong to different families and the 1 g = 1 mL approximation was
	// applied to compare them.
	BridgedUnits bool
}

// ScalingCalculator derives the scale factor from a requested batch size
// versus the formulation's declared base yield and produces per-ingredient
// quantities at the target size.
type ScalingCalculator struct {
	units UnitConverter
}

// NewScalingCalculator creates a scaling calculator.
func NewScalingCalculator(conv UnitConverter) *ScalingCalculator {
	return &ScalingCalculator{units: conv}
}

// Scale computes the dimensionless scale factor and the scaled ingredient
// list. Quantities are expressed in the target unit; rounded values are for
// display and the unrounded values are carried forward so later stages do not
// compound rounding error.
func (sc *ScalingCalculator) Scale(f domain.Formulation, targetBatchSize float64, targetUnit string) (*ScalingResult, error) {
	if targetBatchSize <= 0 {
		return nil, invalidInput("target_batch_size", "must be positive, got %g", targetBatchSize)
	}
	if f.BaseYield <= 0 {
		return nil, invalidInput("base_yield", "must be positive, got %g", f.BaseYield)
	}

	normTarget, targetFamily, err := sc.units.ToBase(targetBatchSize, targetUnit)
	if err != nil {
		return nil, err
	}
	normBase, baseFamily, err := sc.units.ToBase(f.BaseYield, f.YieldUnit)
	if err != nil {
		return nil, err
	}

	// Base quantities are g and mL respectively, so under the 1 g = 1 mL
	// approximation they compare directly when the families differ.
	bridged := targetFamily != baseFamily

	result := &ScalingResult{
		ScaleFactor:  normTarget / normBase,
		BridgedUnits: bridged,
	}

	scaled := make([]domain.ScaledIngredient, 0, len(f.Ingredients))
	var total float64
	for _, ing := range f.Ingredients {
		qty := ing.Percentage / 100 * targetBatchSize
		total += qty
		scaled = append(scaled, domain.ScaledIngredient{
			Ingredient:      ing,
			Quantity:        qty,
			RoundedQuantity: roundTo(qty, 2),
			Unit:            targetUnit,
		})
	}

	// Recompute the percentage of the scaled total for display consistency.
	// Barring rounding this matches the declared percentage.
	if total > 0 {
		for i := range scaled {
			scaled[i].Percentage = scaled[i].Quantity / total * 100
		}
	}
	result.ScaledIngredients = scaled

	return result, nil
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
