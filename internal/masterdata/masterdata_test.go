package masterdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	items, warehouses, workstations []string
	loadCount                       int
}

func (f *fakeSource) LoadItems(ctx context.Context) ([]string, error)        { f.loadCount++; return f.items, nil }
func (f *fakeSource) LoadWarehouses(ctx context.Context) ([]string, error)   { return f.warehouses, nil }
func (f *fakeSource) LoadWorkstations(ctx context.Context) ([]string, error) { return f.workstations, nil }

func TestEnsureLoadedLazyLoadsOnce(t *testing.T) {
	src := &fakeSource{items: []string{"A100"}}
	store := NewStore(src)

	require.NoError(t, store.EnsureLoaded(context.Background(), false))
	require.NoError(t, store.EnsureLoaded(context.Background(), false))
	assert.Equal(t, 1, src.loadCount)
}

func TestEnsureLoadedForcesReload(t *testing.T) {
	src := &fakeSource{items: []string{"A100"}}
	store := NewStore(src)
	require.NoError(t, store.EnsureLoaded(context.Background(), false))
	require.NoError(t, store.EnsureLoaded(context.Background(), true))
	assert.Equal(t, 2, src.loadCount)
}

func TestHasItemCaseInsensitive(t *testing.T) {
	store := NewStore(&fakeSource{items: []string{"a100"}})
	require.NoError(t, store.EnsureLoaded(context.Background(), false))
	assert.True(t, store.HasItem("A100"))
	assert.False(t, store.HasItem("B200"))
}

func TestStatsReportsCounts(t *testing.T) {
	store := NewStore(&fakeSource{
		items:        []string{"A100", "A101"},
		warehouses:   []string{"WH01"},
		workstations: []string{"WS01", "WS02", "WS03"},
	})
	require.NoError(t, store.EnsureLoaded(context.Background(), false))
	stats := store.Stats()
	assert.Equal(t, 2, stats.ItemCount)
	assert.Equal(t, 1, stats.WarehouseCount)
	assert.Equal(t, 3, stats.WorkstationCount)
	assert.False(t, stats.LastLoadedAt.IsZero())
}

func TestSuggestBidirectionalSubstringContainment(t *testing.T) {
	store := NewStore(&fakeSource{warehouses: []string{"WH01", "WH02", "CENTRAL"}})
	require.NoError(t, store.EnsureLoaded(context.Background(), false))
	suggestions := store.SuggestWarehouse("w0x", 5)
	assert.Empty(t, suggestions)

	suggestions = store.SuggestWarehouse("WH0", 5)
	assert.ElementsMatch(t, []string{"WH01", "WH02"}, suggestions)
}

func TestSuggestBoundedToK(t *testing.T) {
	pool := []string{"A1", "A2", "A3", "A4"}
	got := Suggest(pool, "A", 2)
	assert.Len(t, got, 2)
}

func TestSuggestQueryContainsCandidate(t *testing.T) {
	got := Suggest([]string{"WH"}, "WH01", 5)
	assert.Equal(t, []string{"WH"}, got)
}
