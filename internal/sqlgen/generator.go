// Package sqlgen renders a queryast.Query into dialect-correct SQL text for
// Oracle, DuckDB and MySQL, generalizing
// ai/vectorstore/filter/ast.SQLLikeVisitor into one dialect-parametrized
// visitor shared by all three renderers.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/DanielChung520/AI-Box-sub009/internal/apperror"
	"github.com/DanielChung520/AI-Box-sub009/internal/catalog"
	"github.com/DanielChung520/AI-Box-sub009/internal/queryast"
)

// TableResolver supplies DuckDB's Parquet path per logical table name, used
// only by the DuckDB generator.
type TableResolver interface {
	S3Path(table string) (path string, ok bool)
}

// Generator renders one dialect's SQL.
type Generator struct {
	Dialect  catalog.Dialect
	Tables   TableResolver // required for DUCKDB, ignored otherwise
	S3Bucket string        // fallback bucket when a table has no bound s3_path
	Cache    *Cache        // nil disables generation caching
}

func quoterFor(d catalog.Dialect) identQuoter {
	switch d {
	case catalog.DialectMySQL:
		return func(name string) string { return "`" + name + "`" }
	default:
		return func(name string) string { return name }
	}
}

// Generate renders q as a single SQL statement for g.Dialect, short-
// circuiting on an identical (dialect, query) fingerprint when g.Cache is
// set.
func (g *Generator) Generate(q *queryast.Query) (string, error) {
	var cacheKey string
	if g.Cache != nil {
		cacheKey = Fingerprint(g.Dialect, q)
		if sql, ok := g.Cache.Get(cacheKey); ok {
			return sql, nil
		}
	}
	sql, err := g.generate(q)
	if err != nil {
		return "", err
	}
	if g.Cache != nil {
		g.Cache.Set(cacheKey, sql)
	}
	return sql, nil
}

func (g *Generator) generate(q *queryast.Query) (string, error) {
	if len(q.Select) == 0 {
		return "", apperror.New(apperror.BinderError, "query has no select items")
	}
	if len(q.FromTables) == 0 {
		return "", apperror.New(apperror.BinderError, "query has no from tables")
	}

	quote := quoterFor(g.Dialect)

	limit := q.Limit
	if limit <= 0 {
		limit = 1000
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(g.renderSelect(q, quote))
	b.WriteString(" FROM ")
	from, err := g.renderFrom(q, quote)
	if err != nil {
		return "", err
	}
	b.WriteString(from)

	where, err := renderWhere(q.ToExpr(), quote)
	if err != nil {
		return "", apperror.Wrap(apperror.BinderError, "rendering where clause", err)
	}

	if g.Dialect == catalog.DialectOracle {
		// Oracle's classic pagination idiom folds ROWNUM into the predicate
		// list evaluated before GROUP BY, rather than a trailing clause.
		rownum := fmt.Sprintf("ROWNUM <= %d", limit+q.Offset)
		if where != "" {
			where = where + " AND " + rownum
		} else {
			where = rownum
		}
	}
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}

	if len(q.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(g.renderColumnList(q.GroupBy, quote))
	}

	orderBy := q.OrderBy
	if len(orderBy) == 0 && q.Limit > 0 && !q.HasAggregation() {
		orderBy = []string{q.Select[0].Column()}
	}
	if len(orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(g.renderColumnList(orderBy, quote))
	}

	if g.Dialect != catalog.DialectOracle {
		g.renderPagination(&b, q, limit)
	}

	return b.String(), nil
}

func (g *Generator) renderSelect(q *queryast.Query, quote identQuoter) string {
	items := make([]string, 0, len(q.Select))
	for _, item := range q.Select {
		col := quote(item.Column())
		expr := col
		if item.Aggregation != "" && item.Aggregation != "NONE" {
			expr = fmt.Sprintf("%s(%s)", item.Aggregation, col)
		}
		if item.Alias != "" {
			expr += " AS " + item.Alias
		}
		items = append(items, expr)
	}
	return strings.Join(items, ", ")
}

func (g *Generator) renderColumnList(cols []string, quote identQuoter) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = quote(c)
	}
	return strings.Join(out, ", ")
}

func (g *Generator) renderFrom(q *queryast.Query, quote identQuoter) (string, error) {
	if g.Dialect != catalog.DialectDuckDB {
		tables := make([]string, len(q.FromTables))
		for i, t := range q.FromTables {
			tables[i] = quote(t)
		}
		return strings.Join(tables, ", "), nil
	}

	tables := make([]string, 0, len(q.FromTables))
	for _, t := range q.FromTables {
		path, ok := "", false
		if g.Tables != nil {
			path, ok = g.Tables.S3Path(t)
		}
		if !ok {
			bucket := g.S3Bucket
			if bucket == "" {
				bucket = "datalake"
			}
			path = fmt.Sprintf("s3://%s/raw/v1/%s/year=*/month=*/data.parquet", bucket, strings.ToLower(t))
		}
		tables = append(tables, fmt.Sprintf("read_parquet('%s', hive_partitioning=true) AS %s", path, t))
	}
	return strings.Join(tables, ", "), nil
}

func (g *Generator) renderPagination(b *strings.Builder, q *queryast.Query, limit int) {
	fmt.Fprintf(b, " LIMIT %d", limit)
	if q.Offset > 0 {
		fmt.Fprintf(b, " OFFSET %d", q.Offset)
	}
}
