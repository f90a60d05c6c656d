// Package config loads the query core's configuration surface from the
// environment using struct tags, grounded on
// taibuivan-yomira/src/internal/platform/config/config.go's
// caarlos0/env-based pattern, renamed to the DATA_AGENT_JP_ prefix family
// and restructured into per-backend groups (Oracle, DuckDB+S3, Qdrant,
// ArangoDB, LLM).
package config

import (
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// OracleConfig configures the Oracle backend.
type OracleConfig struct {
	Host           string `env:"HOST" envDefault:"localhost"`
	Port           int    `env:"PORT" envDefault:"1521"`
	ServiceName    string `env:"SERVICE_NAME" envDefault:"orcl"`
	User           string `env:"USER"`
	Password       string `env:"PASSWORD"`
	ClientLibPath  string `env:"CLIENT_LIB_PATH"`
}

// S3Config configures the object storage backend DuckDB reads Parquet from.
type S3Config struct {
	Endpoint     string `env:"ENDPOINT"`
	AccessKey    string `env:"ACCESS_KEY"`
	SecretKey    string `env:"SECRET_KEY"`
	Bucket       string `env:"BUCKET" envDefault:"datalake"`
	Region       string `env:"REGION" envDefault:"us-east-1"`
	UseSSL       bool   `env:"USE_SSL" envDefault:"false"`
	URLStyle     string `env:"URL_STYLE" envDefault:"path"`
}

// DuckDBConfig configures the DuckDB backend, including its nested S3
// configuration.
type DuckDBConfig struct {
	S3              S3Config `envPrefix:"S3_"`
	MemoryLimit     string `env:"MEMORY_LIMIT" envDefault:"4GB"`
	WorkerThreads   int    `env:"WORKER_THREADS" envDefault:"4"`
	TempDirectory   string `env:"TEMP_DIRECTORY" envDefault:"/tmp/duckdb"`
}

// QdrantConfig configures the vector-index catalog source.
type QdrantConfig struct {
	UseQdrant        bool   `env:"USE_QDRANT" envDefault:"true"`
	Host             string `env:"HOST" envDefault:"localhost"`
	Port             int    `env:"PORT" envDefault:"6334"`
	CollectionPrefix string `env:"COLLECTION_PREFIX" envDefault:""`
}

// ArangoDBConfig configures the graph-store catalog source.
type ArangoDBConfig struct {
	UseArangoDB      bool   `env:"USE_ARANGODB" envDefault:"true"`
	Host             string `env:"HOST" envDefault:"localhost"`
	Port             int    `env:"PORT" envDefault:"8529"`
	Database         string `env:"DATABASE" envDefault:"_system"`
	User             string `env:"USER"`
	Password         string `env:"PASSWORD"`
	CollectionPrefix string `env:"COLLECTION_PREFIX" envDefault:""`
}

// LLMConfig configures the opaque NLQ-parsing LLM endpoint.
type LLMConfig struct {
	Endpoint    string  `env:"ENDPOINT" envDefault:"http://localhost:11434/api/generate"`
	Model       string  `env:"MODEL" envDefault:"qwen2.5:7b"`
	Temperature float64 `env:"TEMPERATURE" envDefault:"0.03"`
	NumPredict  int     `env:"NUM_PREDICT" envDefault:"256"`
	TimeoutSecs int     `env:"TIMEOUT_SECS" envDefault:"30"`
}

// Config is the root configuration struct, loaded once at process startup.
type Config struct {
	Datasource    string `env:"DATASOURCE,required" envDefault:"DUCKDB"`
	SystemID      string `env:"SYSTEM_ID" envDefault:"jp_tiptop_erp"`
	MetadataPath  string `env:"METADATA_PATH" envDefault:"./metadata"`
	DefaultTimeoutSecs int `env:"DEFAULT_TIMEOUT" envDefault:"30"`
	MaxResults    int    `env:"MAX_RESULTS" envDefault:"1000"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	ListenAddr    string `env:"LISTEN_ADDR" envDefault:":8080"`
	CatalogReloadMinutes int `env:"CATALOG_RELOAD_MINUTES" envDefault:"10"`

	Oracle   OracleConfig   `envPrefix:"ORACLE_"`
	DuckDB   DuckDBConfig   `envPrefix:"DUCKDB_"`
	S3       S3Config       `envPrefix:"S3_"`
	Qdrant   QdrantConfig   `envPrefix:"QDRANT_"`
	ArangoDB ArangoDBConfig `envPrefix:"ARANGODB_"`
	LLM      LLMConfig      `envPrefix:"LLM_"`
}

// Load reads the environment into a Config, applying the DATA_AGENT_JP_
// prefix.
func Load() (*Config, error) {
	cfg := &Config{}
	opts := env.Options{Prefix: "DATA_AGENT_JP_"}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) systemDir() string {
	return filepath.Join(c.MetadataPath, "systems", c.SystemID)
}

// ConceptsPath, IntentsPath, BindingsPath and SchemaPath are the computed
// catalog file locations, grounded on the original's SchemaDrivenQueryConfig
// properties.
func (c *Config) ConceptsPath() string { return filepath.Join(c.systemDir(), "concepts.json") }
func (c *Config) IntentsPath() string  { return filepath.Join(c.systemDir(), "intents.json") }
func (c *Config) BindingsPath() string { return filepath.Join(c.systemDir(), "bindings.json") }
func (c *Config) SchemaPath() string   { return filepath.Join(c.systemDir(), c.SystemID+".yml") }

// IsDuckDB and IsOracle are small readability helpers used by wiring code
// that dispatches on the configured datasource.
func (c *Config) IsDuckDB() bool { return c.Datasource == "DUCKDB" }
func (c *Config) IsOracle() bool { return c.Datasource == "ORACLE" }
