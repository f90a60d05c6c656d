package app

import "github.com/DanielChung520/AI-Box-sub009/internal/catalog"

// tableResolver adapts the live catalog.Store to the sqlgen/executor
// TableResolver contract, so a catalog reload (Store.Swap) is picked up by
// the next query without re-wiring the Generator or RewriteTablePaths.
type tableResolver struct {
	store *catalog.Store
}

func (t *tableResolver) S3Path(table string) (string, bool) {
	return t.store.Current().TableS3Path(table)
}
