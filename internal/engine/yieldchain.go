package engine

import "github.com/formulab/backend-go/internal/domain"

// Step name of the synthetic chain anchor.
const initialInputStep = "Initial Input"

// Step name of the synthetic closing entry that records the caller's overall
// yield percentage when it is below 100.
const overallYieldStep = "Overall Yield"

// YieldChainResult is the output of one chain walk.
type YieldChainResult struct {
	Chain       []domain.YieldChainStep
	TotalOutput float64
}

// YieldChainProcessor walks an ordered list of loss models, computing per-step
// loss, cumulative yield, and the final realizable output. Steps are
// inherently sequential: each depends on the previous cumulative yield.
type YieldChainProcessor struct{}

// NewYieldChainProcessor creates a yield chain processor.
func NewYieldChainProcessor() *YieldChainProcessor {
	return &YieldChainProcessor{}
}

// BuildChain runs the chain over initialQuantity. The first entry is the
// synthetic "Initial Input" anchor at 100% cumulative yield. After all
// declared steps, overallYieldPercentage is applied as a final multiplicative
// factor; it models drying, evaporation, or user-estimated inefficiency not
// captured in discrete steps. With no loss models the chain contains only the
// anchor and the overall yield alone determines output.
func (p *YieldChainProcessor) BuildChain(lossModels []domain.LossModel, overallYieldPercentage, initialQuantity float64) (*YieldChainResult, error) {
	if overallYieldPercentage <= 0 || overallYieldPercentage > 100 {
		return nil, invalidInput("yield_percentage", "must be in (0, 100], got %g", overallYieldPercentage)
	}
	for _, lm := range lossModels {
		if lm.LossPercentage >= 100 {
			return nil, invalidInput("loss_percentage", "step %q loses %g%%; losses of 100%% or more are non-physical", lm.StepName, lm.LossPercentage)
		}
		if lm.LossPercentage < 0 {
			return nil, invalidInput("loss_percentage", "step %q declares a negative loss of %g%%", lm.StepName, lm.LossPercentage)
		}
	}

	chain := make([]domain.YieldChainStep, 0, len(lossModels)+2)
	chain = append(chain, domain.YieldChainStep{
		StepName:        initialInputStep,
		InputQuantity:   initialQuantity,
		OutputQuantity:  initialQuantity,
		CumulativeYield: 100,
	})

	current := initialQuantity
	cumulative := 100.0
	for _, lm := range lossModels {
		retained := 1 - lm.LossPercentage/100
		output := current * retained
		cumulative *= retained
		chain = append(chain, domain.YieldChainStep{
			StepName:        lm.StepName,
			InputQuantity:   current,
			OutputQuantity:  output,
			LossQuantity:    current - output,
			LossPercentage:  lm.LossPercentage,
			CumulativeYield: cumulative,
			LossType:        lm.LossType,
		})
		current = output
	}

	totalOutput := current * overallYieldPercentage / 100
	if overallYieldPercentage < 100 {
		cumulative *= overallYieldPercentage / 100
		chain = append(chain, domain.YieldChainStep{
			StepName:        overallYieldStep,
			InputQuantity:   current,
			OutputQuantity:  totalOutput,
			LossQuantity:    current - totalOutput,
			LossPercentage:  100 - overallYieldPercentage,
			CumulativeYield: cumulative,
			LossType:        domain.LossTypeYield,
		})
	}

	return &YieldChainResult{Chain: chain, TotalOutput: totalOutput}, nil
}
