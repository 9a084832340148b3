package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveLossModels(t *testing.T) {
	bom := &BillOfMaterials{
		Process: []ProcessStep{
			{Name: "mixing", Yields: &StepYields{Input: 100, Output: 99.5}},
			{Name: "hold"}, // no yields recorded
			{Name: "pasteurization", Yields: &StepYields{Input: 99.5, Output: 97}, LossType: LossTypeEvaporation},
			{Name: "blend-back", Yields: &StepYields{Input: 97, Output: 97}}, // no loss
			{Name: "dilution", Yields: &StepYields{Input: 97, Output: 102}},  // apparent gain
			{Name: "bad-record", Yields: &StepYields{Input: 0, Output: 10}},  // unusable
		},
	}

	models := bom.DeriveLossModels()
	require.Len(t, models, 2)

	assert.Equal(t, "mixing", models[0].StepName)
	assert.Equal(t, LossTypeProcess, models[0].LossType)
	assert.InDelta(t, 0.5, models[0].LossPercentage, 1e-9)

	assert.Equal(t, "pasteurization", models[1].StepName)
	assert.Equal(t, LossTypeEvaporation, models[1].LossType)
	assert.InDelta(t, (99.5-97)/99.5*100, models[1].LossPercentage, 1e-9)
}

func TestDeriveLossModels_NilReceiver(t *testing.T) {
	var bom *BillOfMaterials
	assert.Nil(t, bom.DeriveLossModels())
	assert.Nil(t, bom.CollectByproducts())
}

func TestCollectByproducts(t *testing.T) {
	bom := &BillOfMaterials{
		Process: []ProcessStep{
			{Name: "pressing", Byproducts: []Byproduct{
				{Name: "Pomace", Quantity: 12, Unit: "kg", UnitValue: 0.1, RecoveryMethod: "animal feed"},
			}},
			{Name: "filling", Byproducts: []Byproduct{
				{Name: "Washdown waste", Source: "CIP", Quantity: 5, Unit: "l"},
			}},
		},
	}

	byproducts := bom.CollectByproducts()
	require.Len(t, byproducts, 2)

	// Unnamed sources default to the step name; explicit sources stick.
	assert.Equal(t, "pressing", byproducts[0].Source)
	assert.Equal(t, "CIP", byproducts[1].Source)
}

func TestTotalPercentage(t *testing.T) {
	f := Formulation{
		Ingredients: []Ingredient{
			{Percentage: 70},
			{Percentage: 29.5},
		},
	}
	assert.InDelta(t, 99.5, f.TotalPercentage(), 1e-9)

	empty := Formulation{}
	assert.Zero(t, empty.TotalPercentage())
}
