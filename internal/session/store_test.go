package session

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonomo/app"
	"gonomo/domain/core"
	"gonomo/domain/dataset"
	"gonomo/domain/stats"
	"gonomo/internal"
	"gonomo/internal/analysis"
	"gonomo/internal/charts"
	"gonomo/internal/metrics"
	"gonomo/internal/testkit"
)

var quietLogger = internal.NewLogger(internal.LogLevelError)

// recordingRunner returns a bundle stamped with the table and spec it was given
type recordingRunner struct {
	mu    sync.Mutex
	calls int
}

func (r *recordingRunner) Run(_ context.Context, table *dataset.Table, spec dataset.FilterSpec) (*app.Bundle, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return &app.Bundle{
		Results:    stats.Results{Source: table.Source(), Filter: spec},
		FilterHash: spec.Hash(),
	}, nil
}

func (r *recordingRunner) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func table(source string) *dataset.Table {
	return dataset.NewTable(source, 0)
}

func newStore(r Runner, m *metrics.Pipeline) *Store {
	return NewStore(r, table("first.xlsx"), core.NewSourceHash([]byte("first")), m, quietLogger)
}

func TestStore_ResultsAreCachedPerFilter(t *testing.T) {
	runner := &recordingRunner{}
	store := newStore(runner, nil)
	s := store.Create(dataset.FilterSpec{Estrato: []string{"3", "2", "3"}})
	assert.Equal(t, []string{"2", "3"}, s.Filter.Estrato)

	first, _, err := store.Results(context.Background(), s.ID)
	require.NoError(t, err)
	second, _, err := store.Results(context.Background(), s.ID)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, runner.Calls())
}

func TestStore_FilterChangeNeverServesStaleResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	runner := &recordingRunner{}
	store := newStore(runner, metrics.NewPipelineWithRegistry(reg))
	s := store.Create(dataset.FilterSpec{})

	before, _, err := store.Results(context.Background(), s.ID)
	require.NoError(t, err)

	spec := dataset.FilterSpec{Sexo: []string{"Femenino"}}
	_, err = store.SetFilters(s.ID, spec)
	require.NoError(t, err)

	after, _, err := store.Results(context.Background(), s.ID)
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, spec.Hash(), after.FilterHash)
	assert.Equal(t, 2, runner.Calls())

	count, err := testutil.GatherAndCount(reg, "gonomo_session_recomputations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_DatasetReplacementInvalidatesResults(t *testing.T) {
	runner := &recordingRunner{}
	store := newStore(runner, nil)
	s := store.Create(dataset.FilterSpec{Nomofobia: []string{dataset.LabelYes}})

	before, tbl, err := store.Results(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "first.xlsx", tbl.Source())
	assert.Equal(t, "first.xlsx", before.Source)

	version := store.ReplaceDataset(table("second.csv"), core.NewSourceHash([]byte("second")))
	assert.Equal(t, 2, version)

	after, tbl, err := store.Results(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "second.csv", tbl.Source())
	assert.Equal(t, "second.csv", after.Source)
	assert.Equal(t, []string{dataset.LabelYes}, after.Filter.Nomofobia)
	assert.Equal(t, 2, runner.Calls())
}

func TestStore_SessionsAreIndependent(t *testing.T) {
	store := newStore(&recordingRunner{}, nil)
	a := store.Create(dataset.FilterSpec{Estrato: []string{"1"}})
	b := store.Create(dataset.FilterSpec{})

	_, err := store.SetFilters(a.ID, dataset.FilterSpec{Estrato: []string{"6"}})
	require.NoError(t, err)

	got, err := store.Get(b.ID)
	require.NoError(t, err)
	assert.True(t, got.Filter.IsUnconstrained())

	resA, _, err := store.Results(context.Background(), a.ID)
	require.NoError(t, err)
	resB, _, err := store.Results(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"6"}, resA.Filter.Estrato)
	assert.Empty(t, resB.Filter.Estrato)
}

func TestStore_UnknownSession(t *testing.T) {
	store := newStore(&recordingRunner{}, nil)
	unknown := core.NewID()

	_, err := store.Get(unknown)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = store.SetFilters(unknown, dataset.FilterSpec{})
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	_, _, err = store.Results(context.Background(), unknown)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.ErrorIs(t, store.Delete(unknown), core.ErrSessionNotFound)
}

func TestStore_CreateListDelete(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := newStore(&recordingRunner{}, metrics.NewPipelineWithRegistry(reg))

	a := store.Create(dataset.FilterSpec{})
	b := store.Create(dataset.FilterSpec{})
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, store.List(), 2)

	require.NoError(t, store.Delete(a.ID))
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, b.ID, store.List()[0].ID)
}

func TestStore_WithDashboardService(t *testing.T) {
	tbl := testkit.SurveyTable(testkit.NewSurveyGenerator(testkit.DefaultSurveyConfig()).Generate())
	svc := app.NewDashboardService(analysis.DefaultOptions(), charts.DefaultExplorer(), nil, quietLogger)
	store := NewStore(svc, tbl, core.NewSourceHash([]byte("survey")), nil, quietLogger)

	s := store.Create(dataset.FilterSpec{Estrato: []string{"1", "2"}})
	res, _, err := store.Results(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, res.Descriptive.Rows)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := newStore(&recordingRunner{}, nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := store.Create(dataset.FilterSpec{})
			if i%2 == 0 {
				_, _ = store.SetFilters(s.ID, dataset.FilterSpec{Sexo: []string{"Masculino"}})
			}
			_, _, err := store.Results(context.Background(), s.ID)
			assert.NoError(t, err)
			if i%4 == 0 {
				store.ReplaceDataset(table("again"), core.NewSourceHash([]byte("again")))
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 16, store.Len())
}
