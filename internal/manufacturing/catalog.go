// Package manufacturing estimates unit-operation processing costs for a batch.
// The engine consumes the resulting figure as input; it never recomputes it.
package manufacturing

// UnitOperation describes one process operation and its baseline cost rate.
type UnitOperation struct {
	OperationID         string  `json:"operation_id"`
	OperationType       string  `json:"operation_type"`
	EquipmentType       string  `json:"equipment_type"`
	TypicalTimeMin      float64 `json:"typical_time_min"`
	TypicalTemperatureC float64 `json:"typical_temperature_c"`
	CostPerHour         float64 `json:"cost_per_hour"`
}

// Equipment describes a batch-size class of processing equipment.
type Equipment struct {
	EquipmentID       string  `json:"equipment_id"`
	EquipmentType     string  `json:"equipment_type"`
	BatchSizeCategory string  `json:"batch_size_category"`
	MinBatchSizeL     float64 `json:"min_batch_size_l"`
	MaxBatchSizeL     float64 `json:"max_batch_size_l"`
	CostPerBatch      float64 `json:"cost_per_batch"`
}

// MaterialGrade is a certification tier applied as a multiplier on processing
// cost.
type MaterialGrade struct {
	GradeID        string   `json:"grade_id"`
	Name           string   `json:"name"`
	Certifications []string `json:"certifications"`
	CostMultiplier float64  `json:"cost_multiplier"`
	Description    string   `json:"description"`
}

// Catalog holds the unit-operation definitions, equipment classes, and
// material grades used for estimation. The default instance below stands in
// until runtime data replaces it at wiring time.
type Catalog struct {
	UnitOperations map[string]UnitOperation `json:"unit_operations"`
	Equipment      []Equipment              `json:"equipment"`
	MaterialGrades map[string]MaterialGrade `json:"material_grades"`
}

// DefaultCatalog returns the built-in fallback catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{
		UnitOperations: map[string]UnitOperation{
			"mixing": {
				OperationID:    "op-mixing",
				OperationType:  "mixing",
				EquipmentType:  "mixer",
				TypicalTimeMin: 30,
				CostPerHour:    45,
			},
			"heating": {
				OperationID:         "op-heating",
				OperationType:       "heating",
				EquipmentType:       "kettle",
				TypicalTimeMin:      45,
				TypicalTemperatureC: 85,
				CostPerHour:         60,
			},
			"pasteurization": {
				OperationID:         "op-pasteurization",
				OperationType:       "pasteurization",
				EquipmentType:       "pasteurizer",
				TypicalTimeMin:      20,
				TypicalTemperatureC: 72,
				CostPerHour:         90,
			},
			"homogenization": {
				OperationID:    "op-homogenization",
				OperationType:  "homogenization",
				EquipmentType:  "homogenizer",
				TypicalTimeMin: 15,
				CostPerHour:    75,
			},
			"drying": {
				OperationID:         "op-drying",
				OperationType:       "drying",
				EquipmentType:       "spray_dryer",
				TypicalTimeMin:      90,
				TypicalTemperatureC: 180,
				CostPerHour:         120,
			},
			"filling": {
				OperationID:    "op-filling",
				OperationType:  "filling",
				EquipmentType:  "filler",
				TypicalTimeMin: 25,
				CostPerHour:    50,
			},
		},
		Equipment: []Equipment{
			{EquipmentID: "eq-pilot", EquipmentType: "pilot_line", BatchSizeCategory: "pilot", MinBatchSizeL: 0, MaxBatchSizeL: 500, CostPerBatch: 150},
			{EquipmentID: "eq-small", EquipmentType: "small_line", BatchSizeCategory: "small", MinBatchSizeL: 500, MaxBatchSizeL: 2000, CostPerBatch: 400},
			{EquipmentID: "eq-medium", EquipmentType: "medium_line", BatchSizeCategory: "medium", MinBatchSizeL: 2000, MaxBatchSizeL: 10000, CostPerBatch: 1200},
			{EquipmentID: "eq-large", EquipmentType: "large_line", BatchSizeCategory: "large", MinBatchSizeL: 10000, MaxBatchSizeL: 100000, CostPerBatch: 3500},
		},
		MaterialGrades: map[string]MaterialGrade{
			"food": {
				GradeID:        "food",
				Name:           "Food grade",
				Certifications: []string{"HACCP"},
				CostMultiplier: 1.0,
				Description:    "Standard food-grade processing",
			},
			"kosher": {
				GradeID:        "kosher",
				Name:           "Kosher certified",
				Certifications: []string{"HACCP", "Kosher"},
				CostMultiplier: 1.1,
				Description:    "Kosher-certified line and handling",
			},
			"organic": {
				GradeID:        "organic",
				Name:           "Certified organic",
				Certifications: []string{"HACCP", "USDA Organic"},
				CostMultiplier: 1.25,
				Description:    "Dedicated organic processing",
			},
		},
	}
}

// EquipmentFor returns the equipment class covering the given batch size in
// liters. Batches above the largest class fall into it.
func (c *Catalog) EquipmentFor(batchSizeL float64) Equipment {
	for _, eq := range c.Equipment {
		if batchSizeL >= eq.MinBatchSizeL && batchSizeL < eq.MaxBatchSizeL {
			return eq
		}
	}
	if len(c.Equipment) == 0 {
		return Equipment{BatchSizeCategory: "unknown"}
	}
	return c.Equipment[len(c.Equipment)-1]
}
