package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formulab/backend-go/internal/cache"
	"github.com/formulab/backend-go/internal/domain"
	"github.com/formulab/backend-go/internal/engine"
	"github.com/formulab/backend-go/internal/manufacturing"
	"github.com/formulab/backend-go/internal/repository"
	"github.com/formulab/backend-go/internal/units"
)

type stubRepo struct {
	formulations map[string]*domain.Formulation
	boms         map[string]*domain.BillOfMaterials
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		formulations: map[string]*domain.Formulation{},
		boms:         map[string]*domain.BillOfMaterials{},
	}
}

func (r *stubRepo) Create(_ context.Context, f *domain.Formulation) error {
	r.formulations[f.ID] = f
	return nil
}

func (r *stubRepo) GetByID(_ context.Context, id string) (*domain.Formulation, error) {
	f, ok := r.formulations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return f, nil
}

func (r *stubRepo) List(_ context.Context, _ domain.FormulationFilter) ([]*domain.Formulation, int, error) {
	out := make([]*domain.Formulation, 0, len(r.formulations))
	for _, f := range r.formulations {
		out = append(out, f)
	}
	return out, len(out), nil
}

func (r *stubRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.formulations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.formulations, id)
	return nil
}

func (r *stubRepo) GetBOM(_ context.Context, formulationID string) (*domain.BillOfMaterials, error) {
	bom, ok := r.boms[formulationID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return bom, nil
}

func (r *stubRepo) SaveBOM(_ context.Context, bom *domain.BillOfMaterials) error {
	r.boms[bom.FormulationID] = bom
	return nil
}

// countingCache wraps another cache and counts hits on Get and Set.
type countingCache struct {
	inner cache.CalculationCache
	mu    sync.Mutex
	gets  int
	sets  int
}

func (c *countingCache) Get(ctx context.Context, fp string) (*domain.CalculationResult, bool, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.inner.Get(ctx, fp)
}

func (c *countingCache) Set(ctx context.Context, fp string, result *domain.CalculationResult) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.inner.Set(ctx, fp, result)
}

func (c *countingCache) Invalidate(ctx context.Context, fp string) error {
	return c.inner.Invalidate(ctx, fp)
}

func (c *countingCache) InvalidateAll(ctx context.Context) error {
	return c.inner.InvalidateAll(ctx)
}

// memoCache is a minimal in-process CalculationCache for tests.
type memoCache struct {
	mu      sync.Mutex
	entries map[string]*domain.CalculationResult
}

func newMemoCache() *memoCache {
	return &memoCache{entries: map[string]*domain.CalculationResult{}}
}

func (c *memoCache) Get(_ context.Context, fp string) (*domain.CalculationResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[fp]
	return result, ok, nil
}

func (c *memoCache) Set(_ context.Context, fp string, result *domain.CalculationResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fp] = result
	return nil
}

func (c *memoCache) Invalidate(_ context.Context, fp string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, fp)
	return nil
}

func (c *memoCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]*domain.CalculationResult{}
	return nil
}

func storedFormulation() *domain.Formulation {
	return &domain.Formulation{
		ID:        "f-1",
		Name:      "Test blend",
		YieldUnit: "kg",
		BaseYield: 100,
		Ingredients: []domain.Ingredient{
			{Name: "Base", Percentage: 70, CostPerKg: 2},
			{Name: "Additive", Percentage: 30, CostPerKg: 5},
		},
	}
}

func newTestService(repo repository.FormulationRepository, cacheImpl cache.CalculationCache) *CalculationService {
	converter := units.NewConverter()
	eng := engine.New(converter, engine.DefaultConfig())
	return NewCalculationService(eng, converter, manufacturing.NewEstimator(nil), repo, cacheImpl)
}

func TestCalculate_CacheMissThenHit(t *testing.T) {
	counting := &countingCache{inner: newMemoCache()}
	svc := newTestService(newStubRepo(), counting)
	ctx := context.Background()

	in := domain.CalculationInput{
		Formulation:     *storedFormulation(),
		TargetBatchSize: 1000,
		TargetUnit:      "kg",
		YieldPercentage: 95,
	}

	first, err := svc.Calculate(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.sets)

	second, err := svc.Calculate(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.sets, "cache hit must not recompute")
	assert.Equal(t, first, second)
}

func TestCalculate_EngineErrorsNotCached(t *testing.T) {
	counting := &countingCache{inner: newMemoCache()}
	svc := newTestService(newStubRepo(), counting)

	in := domain.CalculationInput{
		Formulation:     *storedFormulation(),
		TargetBatchSize: -1,
		TargetUnit:      "kg",
		YieldPercentage: 95,
	}

	_, err := svc.Calculate(context.Background(), in)
	require.Error(t, err)

	var invalid *engine.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
	assert.Zero(t, counting.sets)
}

func TestCalculateForFormulation_Defaults(t *testing.T) {
	repo := newStubRepo()
	require.NoError(t, repo.Create(context.Background(), storedFormulation()))
	svc := newTestService(repo, nil)

	result, err := svc.CalculateForFormulation(context.Background(), "f-1", ScaleRequest{BatchSize: 1000})
	require.NoError(t, err)

	assert.Equal(t, "kg", result.OutputUnit)
	// Default 95% overall yield.
	assert.InDelta(t, 950.0, result.TotalOutput, 1e-9)
	assert.InDelta(t, 95.0, result.Metadata.ActualYieldPercentage, 1e-9)
}

func TestCalculateForFormulation_NotFound(t *testing.T) {
	svc := newTestService(newStubRepo(), nil)

	_, err := svc.CalculateForFormulation(context.Background(), "missing", ScaleRequest{BatchSize: 100})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCalculateForFormulation_OperationsFromBOM(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	require.NoError(t, repo.Create(ctx, storedFormulation()))
	require.NoError(t, repo.SaveBOM(ctx, &domain.BillOfMaterials{
		FormulationID: "f-1",
		Process: []domain.ProcessStep{
			{Name: "mixing"},
			{Name: "quality hold"}, // not a catalog operation
			{Name: "pasteurization"},
		},
	}))
	svc := newTestService(repo, nil)

	result, err := svc.CalculateForFormulation(ctx, "f-1", ScaleRequest{BatchSize: 1000})
	require.NoError(t, err)

	// 1000 kg bridges to 1000 L: small line (400) + mixing (22.5) +
	// pasteurization (30).
	assert.InDelta(t, 452.5, result.CostRollup.ProcessingCost, 1e-9)
}

func TestCalculateForFormulation_ExplicitOperations(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	require.NoError(t, repo.Create(ctx, storedFormulation()))
	svc := newTestService(repo, nil)

	_, err := svc.CalculateForFormulation(ctx, "f-1", ScaleRequest{
		BatchSize:  1000,
		Operations: []string{"teleportation"},
	})
	assert.ErrorContains(t, err, "processing cost estimate failed")
}
