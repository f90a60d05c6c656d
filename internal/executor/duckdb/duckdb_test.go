package duckdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielChung520/AI-Box-sub009/internal/config"
)

func TestConnQueryParsesJSONRows(t *testing.T) {
	c := &Conn{
		Binary: "duckdb",
		run: func(ctx context.Context, binary string, args []string, stdin string) ([]byte, error) {
			assert.Contains(t, stdin, "SELECT 1")
			return []byte(`[{"a":1,"b":"x"},{"a":2,"b":"y"}]`), nil
		},
	}
	rs, err := c.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)
	require.Len(t, rs.Rows, 2)
	assert.EqualValues(t, 1, rs.Rows[0]["a"])
}

func TestConnQueryEmptyResult(t *testing.T) {
	c := &Conn{run: func(ctx context.Context, binary string, args []string, stdin string) ([]byte, error) {
		return []byte(""), nil
	}}
	rs, err := c.Query(context.Background(), "CREATE TABLE t(x int)")
	require.NoError(t, err)
	assert.Empty(t, rs.Rows)
}

func TestOpenCarriesS3Config(t *testing.T) {
	cfg := &config.DuckDBConfig{S3: config.S3Config{Bucket: "b", Region: "us-east-1"}}
	c, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", c.S3.Region)
	assert.Contains(t, c.bootstrapSQL(), "us-east-1")
}
