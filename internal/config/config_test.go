package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("DATA_AGENT_JP_DATASOURCE")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "DUCKDB", cfg.Datasource)
	require.Equal(t, 1000, cfg.MaxResults)
	require.Equal(t, 30, cfg.DefaultTimeoutSecs)
	require.True(t, cfg.Qdrant.UseQdrant)
}

func TestLoadOverridesNestedPrefixedGroups(t *testing.T) {
	t.Setenv("DATA_AGENT_JP_DUCKDB_S3_BUCKET", "custom-bucket")
	t.Setenv("DATA_AGENT_JP_ORACLE_HOST", "oracle.internal")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "custom-bucket", cfg.DuckDB.S3.Bucket)
	require.Equal(t, "oracle.internal", cfg.Oracle.Host)
}

func TestComputedPaths(t *testing.T) {
	cfg := &Config{MetadataPath: "/data/meta", SystemID: "jp_tiptop_erp"}
	require.Equal(t, "/data/meta/systems/jp_tiptop_erp/concepts.json", cfg.ConceptsPath())
	require.Equal(t, "/data/meta/systems/jp_tiptop_erp/jp_tiptop_erp.yml", cfg.SchemaPath())
}
