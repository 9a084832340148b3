package main

import "github.com/formulab/backend-go/internal/domain"

// sampleData returns the built-in demo formulations and their BOMs.
// Nutrient values are per 100 g of ingredient.
func sampleData() ([]domain.Formulation, []seedBOM) {
	formulations := []domain.Formulation{
		{
			Name:        "Classic Orange Beverage",
			Description: "Single-strength orange beverage from concentrate",
			Status:      "approved",
			YieldUnit:   "l",
			BaseYield:   100,
			Ingredients: []domain.Ingredient{
				{
					Name:       "Water",
					Percentage: 84,
					Function:   "carrier",
					CostPerKg:  0.002,
					Nutrients:  map[string]float64{"energy_kcal": 0, "sugars_g": 0, "protein_g": 0},
				},
				{
					Name:       "Orange concentrate 65 Brix",
					Percentage: 12,
					Function:   "base",
					CostPerKg:  2.80,
					Nutrients:  map[string]float64{"energy_kcal": 265, "sugars_g": 62, "protein_g": 2.3, "vitamin_c_mg": 180},
				},
				{
					Name:       "Sugar",
					Percentage: 3.8,
					Function:   "sweetener",
					CostPerKg:  0.65,
					Nutrients:  map[string]float64{"energy_kcal": 400, "sugars_g": 100, "protein_g": 0},
				},
				{
					Name:       "Citric acid",
					Percentage: 0.2,
					Function:   "acidulant",
					CostPerKg:  1.90,
					Nutrients:  map[string]float64{"energy_kcal": 0, "sugars_g": 0, "protein_g": 0},
				},
			},
		},
		{
			Name:        "Vanilla Protein Powder",
			Description: "Whey-based instant protein powder",
			Status:      "draft",
			YieldUnit:   "kg",
			BaseYield:   50,
			Ingredients: []domain.Ingredient{
				{
					Name:       "Whey protein concentrate 80",
					Percentage: 82,
					Function:   "protein source",
					CostPerKg:  9.50,
					Nutrients:  map[string]float64{"energy_kcal": 392, "protein_g": 80, "fat_g": 7, "sugars_g": 5},
				},
				{
					Name:       "Maltodextrin",
					Percentage: 12,
					Function:   "bulking agent",
					CostPerKg:  1.10,
					Nutrients:  map[string]float64{"energy_kcal": 380, "protein_g": 0, "fat_g": 0, "sugars_g": 8},
				},
				{
					Name:       "Natural vanilla flavor",
					Percentage: 4,
					Function:   "flavor",
					CostPerKg:  14.00,
				},
				{
					Name:       "Sunflower lecithin",
					Percentage: 2,
					Function:   "emulsifier",
					CostPerKg:  6.20,
					Nutrients:  map[string]float64{"energy_kcal": 763, "protein_g": 0, "fat_g": 88, "sugars_g": 0},
				},
			},
		},
	}

	boms := []seedBOM{
		{
			position: 0,
			BillOfMaterials: domain.BillOfMaterials{
				Name: "Orange beverage line",
				Process: []domain.ProcessStep{
					{
						Name:   "mixing",
						Yields: &domain.StepYields{Input: 100, Output: 99.5},
					},
					{
						Name:     "pasteurization",
						Yields:   &domain.StepYields{Input: 99.5, Output: 97},
						LossType: domain.LossTypeEvaporation,
					},
					{
						Name:   "filling",
						Yields: &domain.StepYields{Input: 97, Output: 96},
						Byproducts: []domain.Byproduct{
							{
								Name:           "Pulp residue",
								Quantity:       0.8,
								Unit:           "kg",
								UnitValue:      0.15,
								RecoveryMethod: "animal feed",
							},
						},
					},
				},
			},
		},
		{
			position: 1,
			BillOfMaterials: domain.BillOfMaterials{
				Name: "Protein powder line",
				Process: []domain.ProcessStep{
					{
						Name:   "mixing",
						Yields: &domain.StepYields{Input: 50, Output: 49.8},
					},
					{
						Name:     "drying",
						Yields:   &domain.StepYields{Input: 49.8, Output: 47.5},
						LossType: domain.LossTypeEvaporation,
					},
				},
			},
		},
	}

	return formulations, boms
}
