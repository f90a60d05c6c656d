package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielChung520/AI-Box-sub009/internal/catalog"
	"github.com/DanielChung520/AI-Box-sub009/internal/queryast"
	"github.com/DanielChung520/AI-Box-sub009/internal/value"
)

func sampleQuery() *queryast.Query {
	q := &queryast.Query{
		Select: []queryast.SelectItem{
			{Expr: "ITEM_NO"},
			{Expr: "QTY", Aggregation: "SUM", Alias: "total_qty"},
		},
		GroupBy: []string{"ITEM_NO"},
		Limit:   50,
	}
	q.AddFromTable("INVENTORY")
	q.Where = []queryast.Condition{
		{Column: "WAREHOUSE", Operator: "=", Value: value.NewScalar("WH01")},
	}
	return q
}

func TestGenerateMySQL(t *testing.T) {
	g := &Generator{Dialect: catalog.DialectMySQL}
	sql, err := g.Generate(sampleQuery())
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT `ITEM_NO`, SUM(`QTY`) AS total_qty")
	assert.Contains(t, sql, "FROM `INVENTORY`")
	assert.Contains(t, sql, "WHERE `WAREHOUSE` = 'WH01'")
	assert.Contains(t, sql, "GROUP BY `ITEM_NO`")
	assert.Contains(t, sql, "LIMIT 50")
}

func TestGenerateOracleFoldsRownumBeforeGroupBy(t *testing.T) {
	g := &Generator{Dialect: catalog.DialectOracle}
	sql, err := g.Generate(sampleQuery())
	require.NoError(t, err)
	whereIdx := indexOf(sql, "WHERE")
	groupIdx := indexOf(sql, "GROUP BY")
	require.Greater(t, groupIdx, whereIdx)
	assert.Contains(t, sql, "ROWNUM <= 50")
	assert.NotContains(t, sql, "LIMIT")
}

type fakeTables struct{ paths map[string]string }

func (f fakeTables) S3Path(table string) (string, bool) {
	p, ok := f.paths[table]
	return p, ok
}

func TestGenerateDuckDBRewritesTableToReadParquet(t *testing.T) {
	g := &Generator{
		Dialect: catalog.DialectDuckDB,
		Tables:  fakeTables{paths: map[string]string{"INVENTORY": "s3://bucket/inventory/"}},
	}
	sql, err := g.Generate(sampleQuery())
	require.NoError(t, err)
	assert.Contains(t, sql, "read_parquet('s3://bucket/inventory/', hive_partitioning=true) AS INVENTORY")
	assert.Contains(t, sql, "LIMIT 50")
}

func TestGenerateDuckDBFallsBackToDefaultPathTemplate(t *testing.T) {
	g := &Generator{Dialect: catalog.DialectDuckDB, S3Bucket: "mybucket"}
	sql, err := g.Generate(sampleQuery())
	require.NoError(t, err)
	assert.Contains(t, sql, "s3://mybucket/raw/v1/inventory/year=*/month=*/data.parquet")
}

func TestGenerateInjectsTieBreakOrderWhenLimitSetAndNoAggregation(t *testing.T) {
	q := &queryast.Query{
		Select: []queryast.SelectItem{{Expr: "ITEM_NO"}},
		Limit:  10,
	}
	q.AddFromTable("INVENTORY")
	g := &Generator{Dialect: catalog.DialectMySQL}
	sql, err := g.Generate(q)
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY `ITEM_NO`")
}

func TestGenerateErrorsOnEmptySelect(t *testing.T) {
	g := &Generator{Dialect: catalog.DialectMySQL}
	_, err := g.Generate(&queryast.Query{})
	require.Error(t, err)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
