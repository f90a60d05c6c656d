// Package catalog holds the query core's ontology: Concepts, Intents and
// Bindings, assembled by a multi-source Loader (vector index, graph store,
// local files) into a read-only, atomically-swappable Catalog.
package catalog

// ConceptKind discriminates whether a Concept is a groupable dimension or an
// aggregatable metric. Kept as a two-value set; the original's extra
// RANGE/ENUM distinctions are represented orthogonally via Concept.Values
// rather than as additional kinds.
type ConceptKind string

const (
	KindDimension ConceptKind = "DIMENSION"
	KindMetric    ConceptKind = "METRIC"
)

// Aggregation is the aggregation function a Binding applies to its column.
type Aggregation string

const (
	AggSum   Aggregation = "SUM"
	AggAvg   Aggregation = "AVG"
	AggCount Aggregation = "COUNT"
	AggMin   Aggregation = "MIN"
	AggMax   Aggregation = "MAX"
	AggNone  Aggregation = "NONE"
)

// Operator is the comparison operator a Binding or filter uses.
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpGreaterThan  Operator = ">"
	OpLessThan     Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpLike         Operator = "LIKE"
	OpIn           Operator = "IN"
	OpBetween      Operator = "BETWEEN"
	OpIsNull       Operator = "IS NULL"
	OpIsNotNull    Operator = "IS NOT NULL"
)

// Dialect is a SQL target variant.
type Dialect string

const (
	DialectOracle Dialect = "ORACLE"
	DialectDuckDB Dialect = "DUCKDB"
	DialectMySQL  Dialect = "MYSQL"
)

// Concept is a named business dimension or metric. It is the only vocabulary
// Intents and user parameters may reference.
type Concept struct {
	Name     string
	Kind     ConceptKind
	DataType string
	Labels   map[string]string // locale -> human-readable label
	Values   []string          // present for enumerated concepts, nil otherwise
}

// Intent is a parameterized query template composed of Concepts. It
// declares what a query returns, never how.
type Intent struct {
	Name            string
	Description     string
	Filters         []string // Concept names usable as optional filters
	RequiredFilters []string // Concept names that MUST be bound before execution
	Metrics         []string // Concept names in the output's aggregated columns
	Dimensions      []string // Concept names in the output's grouping columns
}

// Binding maps a Concept to a physical column for one dialect.
type Binding struct {
	Concept     string
	Dialect     Dialect
	Table       string
	Column      string
	Aggregation Aggregation
	Operator    Operator
	S3Path      string // DuckDB-only: explicit read_parquet path template, optional
}

// bindingKey identifies a Binding by (concept, dialect).
type bindingKey struct {
	concept string
	dialect Dialect
}
