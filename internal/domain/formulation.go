package domain

import "time"

// Formulation is a recipe-like definition: a named percent composition with a
// declared base yield. Percentages are expected to sum to 100 within tolerance,
// but drafts may be incomplete, so violations surface as warnings downstream.
type Formulation struct {
	ID          string       `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Description string       `json:"description,omitempty" db:"description"`
	Status      string       `json:"status" db:"status"`
	YieldUnit   string       `json:"yield_unit" db:"yield_unit"`
	BaseYield   float64      `json:"base_yield" db:"base_yield"`
	Ingredients []Ingredient `json:"ingredients" db:"-"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// Ingredient is one component of a formulation, expressed as a percentage of
// the batch. Nutrients are per 100 units of the ingredient's own base unit
// (g for mass formulations, mL for volume ones).
type Ingredient struct {
	ID         string             `json:"id,omitempty" db:"id"`
	Name       string             `json:"name" db:"name"`
	Percentage float64            `json:"percentage" db:"percentage"`
	Function   string             `json:"function,omitempty" db:"function"`
	Supplier   string             `json:"supplier,omitempty" db:"supplier"`
	CostPerKg  float64            `json:"cost_per_kg" db:"cost_per_kg"`
	Nutrients  map[string]float64 `json:"nutrients,omitempty" db:"-"`
}

// TotalPercentage sums the declared ingredient percentages.
func (f *Formulation) TotalPercentage() float64 {
	var total float64
	for _, ing := range f.Ingredients {
		total += ing.Percentage
	}
	return total
}

// FormulationFilter represents filters for formulation list queries.
type FormulationFilter struct {
	Status   string `json:"status"`
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}
