package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DanielChung520/AI-Box-sub009/internal/catalog"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadConceptsNormalizesLegacyTypes(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "systems", "jp_tiptop_erp")
	writeFixture(t, dir, "concepts.json", `{
		"version": "1.0",
		"concepts": {
			"ITEM_NO": {"type": "CODE", "data_type": "STRING", "labels": {"en": "Item No"}},
			"INVENTORY_QTY": {"type": "NUMBER", "data_type": "DECIMAL"}
		}
	}`)

	src := &Source{MetadataPath: root, SystemID: "jp_tiptop_erp"}
	concepts, err := src.LoadConcepts(context.Background())
	require.NoError(t, err)
	require.Len(t, concepts, 2)

	byName := map[string]catalog.Concept{}
	for _, c := range concepts {
		byName[c.Name] = c
	}
	require.Equal(t, catalog.KindDimension, byName["ITEM_NO"].Kind)
	require.Equal(t, "Item No", byName["ITEM_NO"].Labels["en"])
	require.Equal(t, catalog.KindMetric, byName["INVENTORY_QTY"].Kind)
}

func TestLoadBindingsDefaultsAggregationAndOperator(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "systems", "jp_tiptop_erp")
	writeFixture(t, dir, "bindings.json", `{
		"version": "1.0",
		"bindings": {
			"ITEM_NO": {
				"DUCKDB": {"table": "mart_inventory_wide", "column": "item_no"}
			}
		}
	}`)

	src := &Source{MetadataPath: root, SystemID: "jp_tiptop_erp"}
	bindings, err := src.LoadBindings(context.Background())
	require.NoError(t, err)
	require.Len(t, bindings, 1)
	require.Equal(t, catalog.AggNone, bindings[0].Aggregation)
	require.Equal(t, catalog.OpEqual, bindings[0].Operator)
	require.Equal(t, catalog.DialectDuckDB, bindings[0].Dialect)
}

func TestLoadMissingFileReturnsEmptyNotError(t *testing.T) {
	root := t.TempDir()
	src := &Source{MetadataPath: root, SystemID: "jp_tiptop_erp"}
	concepts, err := src.LoadConcepts(context.Background())
	require.NoError(t, err)
	require.Empty(t, concepts)
}
