package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formulab/backend-go/internal/domain"
	"github.com/formulab/backend-go/internal/units"
)

func newTestEngine() *Engine {
	return New(units.NewConverter(), DefaultConfig())
}

func baseInput() domain.CalculationInput {
	return domain.CalculationInput{
		Formulation: domain.Formulation{
			ID:        "f-1",
			Name:      "Test blend",
			YieldUnit: "kg",
			BaseYield: 100,
			Ingredients: []domain.Ingredient{
				{Name: "Base", Percentage: 70, CostPerKg: 2,
					Nutrients: map[string]float64{"protein_g": 10}},
				{Name: "Additive", Percentage: 30, CostPerKg: 5,
					Nutrients: map[string]float64{"protein_g": 2}},
			},
		},
		TargetBatchSize: 1000,
		TargetUnit:      "kg",
		YieldPercentage: 85,
	}
}

func TestCalculate_EndToEnd(t *testing.T) {
	eng := newTestEngine()

	result, err := eng.Calculate(baseInput())
	require.NoError(t, err)

	assert.InDelta(t, 10.0, result.Metadata.ScaleFactor, 1e-9)
	require.Len(t, result.ScaledIngredients, 2)
	assert.InDelta(t, 700.0, result.ScaledIngredients[0].Quantity, 1e-9)
	assert.InDelta(t, 300.0, result.ScaledIngredients[1].Quantity, 1e-9)

	// 85% overall yield, no discrete loss steps.
	assert.InDelta(t, 850.0, result.TotalOutput, 1e-9)
	assert.Equal(t, "kg", result.OutputUnit)
	assert.Empty(t, result.Warnings)

	// Anchor plus the synthetic closing step.
	require.Len(t, result.YieldChain, 2)
	assert.Equal(t, "Initial Input", result.YieldChain[0].StepName)
	assert.Equal(t, "Overall Yield", result.YieldChain[1].StepName)

	assert.InDelta(t, 85.0, result.Metadata.ActualYieldPercentage, 1e-9)
	assert.InDelta(t, 85.0/95*100, result.Metadata.EfficiencyScore, 1e-9)

	// Costs: 700*2 + 300*5 = 2900, no overhead or processing.
	assert.InDelta(t, 2900.0, result.CostRollup.IngredientCost, 1e-9)
	assert.InDelta(t, 2900.0, result.CostRollup.NetCost, 1e-9)
	assert.InDelta(t, 2900.0/850, result.CostRollup.CostPerUnit, 1e-9)

	// Nutrition per 100 kg of output.
	assert.InDelta(t, (10*700+2*300)/850.0, result.AggregatedNutrition["protein_g"], 1e-9)
}

func TestCalculate_DiscreteLossSteps(t *testing.T) {
	eng := newTestEngine()

	in := baseInput()
	in.YieldPercentage = 100
	in.LossModels = []domain.LossModel{
		{StepName: "pasteurization", LossPercentage: 10},
	}

	result, err := eng.Calculate(in)
	require.NoError(t, err)

	assert.InDelta(t, 900.0, result.TotalOutput, 1e-9)
	require.Len(t, result.YieldChain, 2)
	assert.InDelta(t, 90.0, result.YieldChain[1].CumulativeYield, 1e-9)
}

func TestCalculate_LossModelsDerivedFromBOM(t *testing.T) {
	eng := newTestEngine()

	in := baseInput()
	in.YieldPercentage = 100
	in.BOM = &domain.BillOfMaterials{
		Process: []domain.ProcessStep{
			{Name: "mixing", Yields: &domain.StepYields{Input: 100, Output: 98}},
			{Name: "filling", Yields: &domain.StepYields{Input: 98, Output: 97}},
		},
	}

	result, err := eng.Calculate(in)
	require.NoError(t, err)

	// 1000 * 0.98 * (97/98)
	assert.InDelta(t, 1000*0.98*(97.0/98.0), result.TotalOutput, 1e-9)
	require.Len(t, result.YieldChain, 3)
	assert.Equal(t, "mixing", result.YieldChain[1].StepName)
	assert.Equal(t, "filling", result.YieldChain[2].StepName)
}

func TestCalculate_ExplicitLossModelsOverrideBOM(t *testing.T) {
	eng := newTestEngine()

	in := baseInput()
	in.YieldPercentage = 100
	in.LossModels = []domain.LossModel{{StepName: "manual", LossPercentage: 5}}
	in.BOM = &domain.BillOfMaterials{
		Process: []domain.ProcessStep{
			{Name: "mixing", Yields: &domain.StepYields{Input: 100, Output: 50}},
		},
	}

	result, err := eng.Calculate(in)
	require.NoError(t, err)

	assert.InDelta(t, 950.0, result.TotalOutput, 1e-9)
	assert.Equal(t, "manual", result.YieldChain[1].StepName)
}

func TestCalculate_ByproductsCredited(t *testing.T) {
	eng := newTestEngine()

	in := baseInput()
	in.BOM = &domain.BillOfMaterials{
		Process: []domain.ProcessStep{
			{
				Name: "filling",
				Byproducts: []domain.Byproduct{
					{Name: "Pulp residue", Quantity: 8, UnitValue: 0.15, RecoveryMethod: "animal feed"},
				},
			},
		},
	}

	result, err := eng.Calculate(in)
	require.NoError(t, err)

	require.Len(t, result.Byproducts, 1)
	assert.InDelta(t, 8*0.15, result.CostRollup.ByproductCredit, 1e-9)
	assert.InDelta(t, result.CostRollup.TotalCost-result.CostRollup.ByproductCredit, result.CostRollup.NetCost, 1e-9)
}

func TestCalculate_PercentSumWarning(t *testing.T) {
	eng := newTestEngine()

	in := baseInput()
	in.Formulation.Ingredients[1].Percentage = 20 // sums to 90

	result, err := eng.Calculate(in)
	require.NoError(t, err)

	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "sum to 90.0%")
	assert.Contains(t, result.Warnings[0], "10.0% short of 100%")

	// Scaling still proceeds against the declared percentages.
	assert.InDelta(t, 700.0, result.ScaledIngredients[0].Quantity, 1e-9)
	assert.InDelta(t, 200.0, result.ScaledIngredients[1].Quantity, 1e-9)
}

func TestCalculate_PercentSumExcessWarning(t *testing.T) {
	eng := newTestEngine()

	in := baseInput()
	in.Formulation.Ingredients[1].Percentage = 35 // sums to 105

	result, err := eng.Calculate(in)
	require.NoError(t, err)

	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "exceeding 100% by 5.0%")
}

func TestCalculate_ToleranceSuppressesWarning(t *testing.T) {
	eng := New(units.NewConverter(), Config{PercentTolerance: 1, IdealYield: 95})

	in := baseInput()
	in.Formulation.Ingredients[1].Percentage = 30.4 // within 1%

	result, err := eng.Calculate(in)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
}

func TestCalculate_BridgedUnitsWarning(t *testing.T) {
	eng := newTestEngine()

	in := baseInput()
	in.Formulation.YieldUnit = "l"

	result, err := eng.Calculate(in)
	require.NoError(t, err)

	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "1 g = 1 mL")
}

func TestCalculate_MissingDataDegradesToWarnings(t *testing.T) {
	eng := newTestEngine()

	in := baseInput()
	in.Formulation.Ingredients[0].CostPerKg = 0
	in.Formulation.Ingredients[1].Nutrients = nil

	result, err := eng.Calculate(in)
	require.NoError(t, err)

	assert.Contains(t, result.Warnings, "missing cost data for ingredient: Base")
	assert.Contains(t, result.Warnings, "no nutrient data for ingredient: Additive")
}

func TestCalculate_EfficiencyScoreClamped(t *testing.T) {
	eng := New(units.NewConverter(), Config{PercentTolerance: 0.5, IdealYield: 80})

	in := baseInput()
	in.YieldPercentage = 100

	result, err := eng.Calculate(in)
	require.NoError(t, err)

	// 100/80*100 would exceed 100; the score saturates.
	assert.InDelta(t, 100.0, result.Metadata.EfficiencyScore, 1e-9)
}

func TestCalculate_ValidationErrors(t *testing.T) {
	eng := newTestEngine()
	var invalid *InvalidInputError

	tests := []struct {
		name   string
		mutate func(*domain.CalculationInput)
		field  string
	}{
		{"zero batch size", func(in *domain.CalculationInput) { in.TargetBatchSize = 0 }, "target_batch_size"},
		{"negative batch size", func(in *domain.CalculationInput) { in.TargetBatchSize = -10 }, "target_batch_size"},
		{"zero yield", func(in *domain.CalculationInput) { in.YieldPercentage = 0 }, "yield_percentage"},
		{"yield above 100", func(in *domain.CalculationInput) { in.YieldPercentage = 101 }, "yield_percentage"},
		{"no ingredients", func(in *domain.CalculationInput) { in.Formulation.Ingredients = nil }, "formulation.ingredients"},
		{"zero base yield", func(in *domain.CalculationInput) { in.Formulation.BaseYield = 0 }, "base_yield"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.mutate(&in)
			_, err := eng.Calculate(in)
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestCalculate_PureOverRepeatedCalls(t *testing.T) {
	eng := newTestEngine()
	in := baseInput()

	first, err := eng.Calculate(in)
	require.NoError(t, err)
	second, err := eng.Calculate(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}
