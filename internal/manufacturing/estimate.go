package manufacturing

import (
	"fmt"

	"github.com/formulab/backend-go/internal/domain"
)

// Estimator prices a set of unit operations against a catalog.
type Estimator struct {
	catalog *Catalog
}

// NewEstimator creates an estimator over the given catalog, falling back to
// the default catalog when nil.
func NewEstimator(catalog *Catalog) *Estimator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Estimator{catalog: catalog}
}

// Catalog exposes the estimator's catalog for read-only serving.
func (e *Estimator) Catalog() *Catalog {
	return e.catalog
}

// Estimate computes the processing cost for a batch of the given size running
// the named operations. Equipment cost is keyed by batch-size category; labor
// and energy rates come from the cost parameters; gradeID selects an optional
// material-grade multiplier (empty means food grade).
func (e *Estimator) Estimate(batchSizeL float64, operations []string, params domain.CostParameters, gradeID string) (*domain.ProcessingCost, error) {
	if batchSizeL <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %g", batchSizeL)
	}

	equipment := e.catalog.EquipmentFor(batchSizeL)
	total := equipment.CostPerBatch

	var totalHours float64
	for _, name := range operations {
		op, ok := e.catalog.UnitOperations[name]
		if !ok {
			return nil, fmt.Errorf("unknown unit operation %q", name)
		}
		hours := op.TypicalTimeMin / 60
		totalHours += hours
		total += op.CostPerHour * hours
	}

	total += params.LaborCostPerHour * totalHours
	total += params.EnergyCostPerUnit * batchSizeL

	if gradeID == "" {
		gradeID = "food"
	}
	grade, ok := e.catalog.MaterialGrades[gradeID]
	if !ok {
		return nil, fmt.Errorf("unknown material grade %q", gradeID)
	}
	if grade.CostMultiplier > 0 {
		total *= grade.CostMultiplier
	}

	return &domain.ProcessingCost{
		TotalProcessingCost: total,
		CostPerLiter:        total / batchSizeL,
		ScaleCategory:       equipment.BatchSizeCategory,
	}, nil
}
