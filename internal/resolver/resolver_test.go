package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielChung520/AI-Box-sub009/internal/apperror"
	"github.com/DanielChung520/AI-Box-sub009/internal/catalog"
	"github.com/DanielChung520/AI-Box-sub009/internal/parser"
	"github.com/DanielChung520/AI-Box-sub009/internal/sqlgen"
	"github.com/DanielChung520/AI-Box-sub009/internal/value"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	cat := catalog.New(
		[]catalog.Concept{
			{Name: "ITEM_NO", Kind: catalog.KindDimension},
			{Name: "INVENTORY_QTY", Kind: catalog.KindMetric},
		},
		[]catalog.Intent{
			{
				Name:            "QUERY_INVENTORY",
				RequiredFilters: []string{"ITEM_NO"},
				Filters:         []string{"ITEM_NO"},
				Metrics:         []string{"INVENTORY_QTY"},
				Dimensions:      []string{"ITEM_NO"},
			},
		},
		[]catalog.Binding{
			{Concept: "ITEM_NO", Dialect: catalog.DialectMySQL, Table: "ITEM", Column: "item_no"},
			{Concept: "INVENTORY_QTY", Dialect: catalog.DialectMySQL, Table: "ITEM", Column: "qty", Aggregation: catalog.AggSum},
		},
	)
	store := catalog.NewStore(cat)
	gen := &sqlgen.Generator{Dialect: catalog.DialectMySQL}
	return New(store, gen)
}

func TestResolverExecuteHappyPath(t *testing.T) {
	r := newTestResolver(t)
	parsed := parser.ParsedIntent{
		Intent:     "QUERY_INVENTORY",
		Confidence: 0.9,
		Params:     map[string]value.Value{"ITEM_NO": value.NewScalar("A100")},
		Limit:      50,
	}
	rc, err := r.Execute(context.Background(), "查詢料號 A100 庫存", catalog.DialectMySQL, parsed)
	require.Nil(t, err)
	assert.Equal(t, StateCompleted, rc.State)
	assert.Contains(t, rc.SQL, "ITEM")
	assert.Contains(t, rc.SQL, "A100")
	assert.Contains(t, rc.SQL, "LIMIT 50")
}

func TestResolverExecuteFailsOnLowConfidence(t *testing.T) {
	r := newTestResolver(t)
	parsed := parser.ParsedIntent{Intent: "QUERY_INVENTORY", Confidence: 0.1, Params: map[string]value.Value{}}
	rc, err := r.Execute(context.Background(), "?", catalog.DialectMySQL, parsed)
	require.NotNil(t, err)
	assert.Equal(t, apperror.IntentUnclear, err.Code)
	assert.Equal(t, StateError, rc.State)
	assert.Equal(t, string(StateParseNLQ), err.Stage)
}

func TestResolverExecuteFailsOnMissingRequiredFilter(t *testing.T) {
	r := newTestResolver(t)
	parsed := parser.ParsedIntent{Intent: "QUERY_INVENTORY", Confidence: 0.9, Params: map[string]value.Value{}}
	_, err := r.Execute(context.Background(), "查詢庫存", catalog.DialectMySQL, parsed)
	require.NotNil(t, err)
	assert.Equal(t, apperror.MissingRequiredFilter, err.Code)
	assert.Equal(t, string(StateValidate), err.Stage)
}

func TestResolverExecuteAppliesIntentAlias(t *testing.T) {
	r := newTestResolver(t)
	r.Aliases = IntentAliases{"QUERY_STATS": "QUERY_INVENTORY"}
	parsed := parser.ParsedIntent{
		Intent:     "QUERY_STATS",
		Confidence: 0.9,
		Params:     map[string]value.Value{"ITEM_NO": value.NewScalar("A100")},
	}
	rc, err := r.Execute(context.Background(), "統計料號 A100", catalog.DialectMySQL, parsed)
	require.Nil(t, err)
	assert.Equal(t, "QUERY_INVENTORY", rc.Intent.Name)
}

func TestResolverExecuteFailsOnMissingBinding(t *testing.T) {
	r := newTestResolver(t)
	parsed := parser.ParsedIntent{
		Intent:     "QUERY_INVENTORY",
		Confidence: 0.9,
		Params:     map[string]value.Value{"ITEM_NO": value.NewScalar("A100")},
	}
	rc, err := r.Execute(context.Background(), "查詢庫存", catalog.DialectOracle, parsed)
	require.NotNil(t, err)
	assert.Equal(t, apperror.SchemaNotFound, err.Code)
	assert.Equal(t, StateError, rc.State)
}
