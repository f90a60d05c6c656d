package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct{ paths map[string]string }

func (f fakeResolver) S3Path(table string) (string, bool) {
	p, ok := f.paths[table]
	return p, ok
}

func TestRewriteTablePathsBareTable(t *testing.T) {
	r := fakeResolver{paths: map[string]string{"INVENTORY": "s3://bucket/inventory/"}}
	sql, err := RewriteTablePaths("SELECT * FROM INVENTORY WHERE qty > 0", r, "")
	require.NoError(t, err)
	assert.Contains(t, sql, "read_parquet('s3://bucket/inventory/', hive_partitioning=true) AS INVENTORY")
}

func TestRewriteTablePathsAliasedJoinRewritesColumns(t *testing.T) {
	r := fakeResolver{paths: map[string]string{
		"WORK_ORDER": "s3://bucket/wo/",
		"ITEM":       "s3://bucket/item/",
	}}
	sql, err := RewriteTablePaths(
		"SELECT x.qty FROM WORK_ORDER JOIN ITEM x ON WORK_ORDER.item_no = x.item_no WHERE x.qty > 0",
		r, "",
	)
	require.NoError(t, err)
	assert.Contains(t, sql, "AS ITEM")
	assert.Contains(t, sql, "ITEM.item_no")
	assert.Contains(t, sql, "ITEM.qty")
	assert.NotContains(t, sql, "x.qty")
}

func TestRewriteTablePathsFallsBackToDefaultTemplate(t *testing.T) {
	r := fakeResolver{paths: map[string]string{}}
	sql, err := RewriteTablePaths("SELECT * FROM INVENTORY", r, "mybucket")
	require.NoError(t, err)
	assert.Contains(t, sql, "s3://mybucket/raw/v1/inventory/year=*/month=*/data.parquet")
}

func TestPrunePartitionsRewritesGlobToConcreteDates(t *testing.T) {
	sql := "SELECT * FROM read_parquet('s3://b/t/year=*/month=*/data.parquet') WHERE txn_date BETWEEN '2026-02-01' AND '2026-03-01'"
	out := PrunePartitions(sql)
	assert.Contains(t, out, "year=2026/month=02")
}

func TestPrunePartitionsNoOpWithoutBetween(t *testing.T) {
	sql := "SELECT * FROM read_parquet('s3://b/t/year=*/month=*/data.parquet')"
	assert.Equal(t, sql, PrunePartitions(sql))
}
