package domain

// CostParameters are the caller-supplied rates that feed the cost rollup.
// All values are non-negative percentages or currency-per-unit rates.
type CostParameters struct {
	OverheadRate      float64 `json:"overhead_rate"`
	LaborCostPerHour  float64 `json:"labor_cost_per_hour"`
	EnergyCostPerUnit float64 `json:"energy_cost_per_unit"`
	MarkupPercentage  float64 `json:"markup_percentage"`
}

// ProcessingCost is the output of the unit-operations costing function. The
// engine aggregates this figure; it never recomputes unit-operation costs.
type ProcessingCost struct {
	TotalProcessingCost float64 `json:"total_processing_cost"`
	CostPerLiter        float64 `json:"cost_per_liter"`
	ScaleCategory       string  `json:"scale_category"`
}

// CalculationInput is the full input to one engine invocation.
type CalculationInput struct {
	Formulation     Formulation      `json:"formulation"`
	BOM             *BillOfMaterials `json:"bom,omitempty"`
	TargetBatchSize float64          `json:"target_batch_size"`
	TargetUnit      string           `json:"target_unit"`
	YieldPercentage float64          `json:"yield_percentage"`
	LossModels      []LossModel      `json:"loss_models,omitempty"`
	CostParameters  CostParameters   `json:"cost_parameters"`
	ProcessingCost  *ProcessingCost  `json:"processing_cost,omitempty"`
}

// ScaledIngredient is an ingredient with its concrete quantity at the target
// batch size. Quantity carries full precision; RoundedQuantity is for display.
// Percentage is recomputed against the scaled total.
type ScaledIngredient struct {
	Ingredient
	Quantity        float64 `json:"quantity"`
	RoundedQuantity float64 `json:"rounded_quantity"`
	Unit            string  `json:"unit"`
	Cost            float64 `json:"cost"`
}

// YieldChainStep is one entry in the step-by-step loss accounting. The
// synthetic first entry "Initial Input" anchors the chain at 100% cumulative
// yield.
type YieldChainStep struct {
	StepName        string  `json:"step_name"`
	InputQuantity   float64 `json:"input_quantity"`
	OutputQuantity  float64 `json:"output_quantity"`
	LossQuantity    float64 `json:"loss_quantity"`
	LossPercentage  float64 `json:"loss_percentage"`
	CumulativeYield float64 `json:"cumulative_yield"`
	LossType        string  `json:"loss_type,omitempty"`
}

// CostRollup aggregates ingredient, processing, and overhead costs net of
// byproduct recovery credits.
type CostRollup struct {
	IngredientCost  float64 `json:"ingredient_cost"`
	ProcessingCost  float64 `json:"processing_cost"`
	OverheadCost    float64 `json:"overhead_cost"`
	TotalCost       float64 `json:"total_cost"`
	ByproductCredit float64 `json:"byproduct_credit"`
	NetCost         float64 `json:"net_cost"`
	CostPerUnit     float64 `json:"cost_per_unit"`
	SuggestedPrice  float64 `json:"suggested_price"`
}

// CalculationMetadata summarizes the scaling run.
type CalculationMetadata struct {
	TargetYield           float64 `json:"target_yield"`
	BaseYield             float64 `json:"base_yield"`
	ScaleFactor           float64 `json:"scale_factor"`
	ActualYieldPercentage float64 `json:"actual_yield_percentage"`
	EfficiencyScore       float64 `json:"efficiency_score"`
}

// CalculationResult is the assembled output of one engine invocation.
// Warnings carry non-fatal data-completeness issues; the result is still a
// best-effort rendering when warnings are present.
type CalculationResult struct {
	FormulationID       string              `json:"formulation_id,omitempty"`
	FormulationName     string              `json:"formulation_name,omitempty"`
	ScaledIngredients   []ScaledIngredient  `json:"scaled_ingredients"`
	TotalOutput         float64             `json:"total_output"`
	OutputUnit          string              `json:"output_unit"`
	CostRollup          CostRollup          `json:"cost_rollup"`
	Byproducts          []Byproduct         `json:"byproducts"`
	YieldChain          []YieldChainStep    `json:"yield_chain"`
	AggregatedNutrition map[string]float64  `json:"aggregated_nutrition"`
	Metadata            CalculationMetadata `json:"metadata"`
	Warnings            []string            `json:"warnings"`
}
