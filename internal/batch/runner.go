// Package batch recalculates stored formulations in bulk, e.g. after a cost
// parameter or catalog change. Individual engine runs stay sequential
// internally; only the per-formulation fan-out is concurrent.
package batch

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/formulab/backend-go/internal/domain"
	"github.com/formulab/backend-go/internal/repository"
	"github.com/formulab/backend-go/internal/service"
)

const defaultConcurrency = 4

// Outcome records the result of recalculating one formulation.
type Outcome struct {
	FormulationID string  `json:"formulation_id"`
	Name          string  `json:"name"`
	TotalOutput   float64 `json:"total_output,omitempty"`
	OutputUnit    string  `json:"output_unit,omitempty"`
	NetCost       float64 `json:"net_cost,omitempty"`
	Warnings      int     `json:"warnings"`
	Error         string  `json:"error,omitempty"`
}

// Summary aggregates a batch run.
type Summary struct {
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Outcomes  []Outcome `json:"outcomes"`
}

// Runner fans calculation requests out over stored formulations, bounded by a
// concurrency limit.
type Runner struct {
	repo        repository.FormulationRepository
	calc        *service.CalculationService
	concurrency int64
}

// NewRunner creates a batch runner. A non-positive concurrency falls back to
// the default.
func NewRunner(repo repository.FormulationRepository, calc *service.CalculationService, concurrency int64) *Runner {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Runner{repo: repo, calc: calc, concurrency: concurrency}
}

// Run recalculates every stored formulation at the requested batch size and
// collects per-formulation outcomes. Failures of individual formulations do
// not abort the run.
func (r *Runner) Run(ctx context.Context, req service.ScaleRequest) (*Summary, error) {
	formulations, _, err := r.repo.List(ctx, domain.FormulationFilter{PageSize: 10000})
	if err != nil {
		return nil, err
	}

	sem := semaphore.NewWeighted(r.concurrency)
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		outcomes = make([]Outcome, 0, len(formulations))
	)

	for _, f := range formulations {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(f *domain.Formulation) {
			defer wg.Done()
			defer sem.Release(1)

			outcome := Outcome{FormulationID: f.ID, Name: f.Name}
			result, err := r.calc.CalculateForFormulation(ctx, f.ID, req)
			if err != nil {
				outcome.Error = err.Error()
				log.Warn().Err(err).Str("formulation_id", f.ID).Msg("batch: recalculation failed")
			} else {
				outcome.TotalOutput = result.TotalOutput
				outcome.OutputUnit = result.OutputUnit
				outcome.NetCost = result.CostRollup.NetCost
				outcome.Warnings = len(result.Warnings)
			}

			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
		}(f)
	}

	wg.Wait()

	summary := &Summary{Total: len(outcomes), Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Error == "" {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	return summary, nil
}
