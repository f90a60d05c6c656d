package executor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// TableResolver supplies a table's s3_path binding; ok is false when the
// table has none, and RewriteTablePaths then uses the default path template.
type TableResolver interface {
	S3Path(table string) (path string, ok bool)
}

// fromJoinClause matches a FROM/JOIN keyword, a bare table name, and an
// optional alias. The alias group uses a negative lookahead to reject SQL
// keywords that can legally follow a table name (ON, WHERE, JOIN, GROUP,
// ORDER, LIMIT, FETCH) — something a lookahead-free stdlib regexp cannot
// express, hence regexp2 for this pass too.
var fromJoinClause = regexp2.MustCompile(
	`\b(FROM|JOIN)\s+([A-Za-z_][A-Za-z0-9_]*)(?:\s+(?:AS\s+)?(?!ON\b|WHERE\b|JOIN\b|GROUP\b|ORDER\b|LIMIT\b|FETCH\b)([A-Za-z_][A-Za-z0-9_]*))?`,
	regexp2.IgnoreCase,
)

var betweenDates = regexp.MustCompile(`(?i)BETWEEN\s+'(\d{4})-(\d{2})-\d{2}'\s+AND\s+'\d{4}-\d{2}-\d{2}'`)

// RewriteTablePaths resolves bare and aliased table references in a DuckDB
// query's FROM/JOIN clauses to read_parquet(...) expressions aliased to the
// real table name, then rewrites any now-stale alias-qualified column
// references ("x.col") to use the table name instead ("t2.col"), since the
// user's original alias no longer exists once the clause is rewritten.
func RewriteTablePaths(sql string, tables TableResolver, defaultBucket string) (string, error) {
	renames := map[string]string{} // user alias -> real table name, only when they differ

	rewritten, err := fromJoinClause.ReplaceFunc(sql, func(m regexp2.Match) string {
		groups := m.Groups()
		keyword := groups[1].String()
		table := groups[2].String()
		alias := ""
		if len(groups[3].Captures) > 0 {
			alias = groups[3].String()
		}

		path, ok := tables.S3Path(table)
		if !ok {
			bucket := defaultBucket
			if bucket == "" {
				bucket = "datalake"
			}
			path = fmt.Sprintf("s3://%s/raw/v1/%s/year=*/month=*/data.parquet", bucket, strings.ToLower(table))
		}
		if alias != "" && !strings.EqualFold(alias, table) {
			renames[alias] = table
		}
		return fmt.Sprintf("%s read_parquet('%s', hive_partitioning=true) AS %s", keyword, path, table)
	}, -1, -1)
	if err != nil {
		return "", err
	}

	return rewriteAliasedColumns(rewritten, renames)
}

// rewriteAliasedColumns replaces every "alias." column qualifier with
// "table." for each alias dropped by RewriteTablePaths. It needs a negative
// lookahead to avoid matching the alias inside a later "... AS alias"
// fragment elsewhere in the statement, which lookbehind/lookahead-free
// stdlib regexp cannot express.
func rewriteAliasedColumns(sql string, renames map[string]string) (string, error) {
	for alias, table := range renames {
		pattern := fmt.Sprintf(`\b%s\.(?!\w*\s+AS\b)`, regexp.QuoteMeta(alias))
		re, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
		if err != nil {
			return "", err
		}
		replaced, err := re.Replace(sql, table+".", -1, -1)
		if err != nil {
			return "", err
		}
		sql = replaced
	}
	return sql, nil
}

// PrunePartitions rewrites a "year=*/month=*" path glob to the concrete
// (year, month) of a BETWEEN clause's start date, when one is present. This
// is an optimization only: correctness never depends on it running.
func PrunePartitions(sql string) string {
	m := betweenDates.FindStringSubmatch(sql)
	if m == nil {
		return sql
	}
	year, month := m[1], m[2]
	return strings.NewReplacer(
		"year=*/month=*", fmt.Sprintf("year=%s/month=%s", year, month),
	).Replace(sql)
}
