package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formulab/backend-go/internal/domain"
	"github.com/formulab/backend-go/internal/engine"
	"github.com/formulab/backend-go/internal/manufacturing"
	"github.com/formulab/backend-go/internal/repository"
	"github.com/formulab/backend-go/internal/service"
	"github.com/formulab/backend-go/internal/units"
)

type stubRepo struct {
	formulations []*domain.Formulation
}

func (r *stubRepo) Create(_ context.Context, f *domain.Formulation) error {
	r.formulations = append(r.formulations, f)
	return nil
}

func (r *stubRepo) GetByID(_ context.Context, id string) (*domain.Formulation, error) {
	for _, f := range r.formulations {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubRepo) List(_ context.Context, _ domain.FormulationFilter) ([]*domain.Formulation, int, error) {
	return r.formulations, len(r.formulations), nil
}

func (r *stubRepo) Delete(_ context.Context, _ string) error { return nil }

func (r *stubRepo) GetBOM(_ context.Context, _ string) (*domain.BillOfMaterials, error) {
	return nil, repository.ErrNotFound
}

func (r *stubRepo) SaveBOM(_ context.Context, _ *domain.BillOfMaterials) error { return nil }

func newRunnerUnderTest(repo repository.FormulationRepository, concurrency int64) *Runner {
	converter := units.NewConverter()
	eng := engine.New(converter, engine.DefaultConfig())
	calc := service.NewCalculationService(eng, converter, manufacturing.NewEstimator(nil), repo, nil)
	return NewRunner(repo, calc, concurrency)
}

func validFormulation(id, name string) *domain.Formulation {
	return &domain.Formulation{
		ID:        id,
		Name:      name,
		YieldUnit: "kg",
		BaseYield: 100,
		Ingredients: []domain.Ingredient{
			{Name: "Base", Percentage: 70, CostPerKg: 2},
			{Name: "Additive", Percentage: 30, CostPerKg: 5},
		},
	}
}

func TestRun_AllSucceed(t *testing.T) {
	repo := &stubRepo{}
	for _, f := range []*domain.Formulation{
		validFormulation("f-1", "Blend one"),
		validFormulation("f-2", "Blend two"),
		validFormulation("f-3", "Blend three"),
	} {
		require.NoError(t, repo.Create(context.Background(), f))
	}

	runner := newRunnerUnderTest(repo, 2)
	summary, err := runner.Run(context.Background(), service.ScaleRequest{
		BatchSize:       1000,
		Unit:            "kg",
		YieldPercentage: 95,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Zero(t, summary.Failed)

	for _, o := range summary.Outcomes {
		assert.Empty(t, o.Error)
		assert.InDelta(t, 950.0, o.TotalOutput, 1e-9)
		assert.Equal(t, "kg", o.OutputUnit)
	}
}

func TestRun_IndividualFailuresCollected(t *testing.T) {
	broken := validFormulation("f-bad", "Broken blend")
	broken.BaseYield = 0

	repo := &stubRepo{}
	require.NoError(t, repo.Create(context.Background(), validFormulation("f-1", "Blend one")))
	require.NoError(t, repo.Create(context.Background(), broken))

	runner := newRunnerUnderTest(repo, 4)
	summary, err := runner.Run(context.Background(), service.ScaleRequest{BatchSize: 500, Unit: "kg", YieldPercentage: 90})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	var failed *Outcome
	for i := range summary.Outcomes {
		if summary.Outcomes[i].Error != "" {
			failed = &summary.Outcomes[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "f-bad", failed.FormulationID)
	assert.Contains(t, failed.Error, "base_yield")
}

func TestRun_EmptyRepository(t *testing.T) {
	runner := newRunnerUnderTest(&stubRepo{}, 0)
	summary, err := runner.Run(context.Background(), service.ScaleRequest{BatchSize: 100, Unit: "kg", YieldPercentage: 95})
	require.NoError(t, err)

	assert.Zero(t, summary.Total)
	assert.Empty(t, summary.Outcomes)
}
