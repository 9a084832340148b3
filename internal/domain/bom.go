package domain

// StepYields records the measured input and output quantities of a process
// step, from which the implied loss percentage is derived.
type StepYields struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// ProcessStep is one manufacturing step in a bill of materials. Byproducts are
// non-primary outputs; only those declaring a recovery method are credited
// against cost.
type ProcessStep struct {
	Name       string      `json:"name"`
	Yields     *StepYields `json:"yields,omitempty"`
	LossType   string      `json:"loss_type,omitempty"`
	Equipment  string      `json:"equipment,omitempty"`
	Byproducts []Byproduct `json:"byproducts,omitempty"`
}

// BillOfMaterials describes the manufacturing process for a formulation as an
// ordered list of steps.
type BillOfMaterials struct {
	ID            string        `json:"id,omitempty" db:"id"`
	FormulationID string        `json:"formulation_id" db:"formulation_id"`
	Name          string        `json:"name" db:"name"`
	Process       []ProcessStep `json:"process" db:"-"`
}

// Loss type identifiers carried on LossModel entries.
const (
	LossTypeProcess     = "process"
	LossTypeShrinkage   = "shrinkage"
	LossTypeEvaporation = "evaporation"
	LossTypeYield       = "yield"
)

// LossModel is a named process step and its associated percentage loss,
// derived from BOM input/output pairs rather than authored directly.
type LossModel struct {
	StepName       string  `json:"step_name"`
	LossType       string  `json:"loss_type"`
	LossPercentage float64 `json:"loss_percentage"`
}

// Byproduct is a secondary output of a process step. UnitValue is currency per
// unit of quantity; an empty RecoveryMethod means waste, which earns no credit.
type Byproduct struct {
	Name           string  `json:"name"`
	Source         string  `json:"source,omitempty"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	UnitValue      float64 `json:"unit_value"`
	RecoveryMethod string  `json:"recovery_method,omitempty"`
}

// DeriveLossModels walks the BOM steps and emits a LossModel for each step
// whose yields imply a positive loss. Steps without yields, or with zero or
// negative implied loss, are skipped.
func (b *BillOfMaterials) DeriveLossModels() []LossModel {
	if b == nil {
		return nil
	}
	var models []LossModel
	for _, step := range b.Process {
		if step.Yields == nil || step.Yields.Input <= 0 {
			continue
		}
		loss := (step.Yields.Input - step.Yields.Output) / step.Yields.Input * 100
		if loss <= 0 {
			continue
		}
		lossType := step.LossType
		if lossType == "" {
			lossType = LossTypeProcess
		}
		models = append(models, LossModel{
			StepName:       step.Name,
			LossType:       lossType,
			LossPercentage: loss,
		})
	}
	return models
}

// CollectByproducts gathers the byproducts declared on all steps, filling in
// the step name as source when a byproduct does not name one.
func (b *BillOfMaterials) CollectByproducts() []Byproduct {
	if b == nil {
		return nil
	}
	var out []Byproduct
	for _, step := range b.Process {
		for _, bp := range step.Byproducts {
			if bp.Source == "" {
				bp.Source = step.Name
			}
			out = append(out, bp)
		}
	}
	return out
}
