package sqlgen

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/DanielChung520/AI-Box-sub009/internal/catalog"
	"github.com/DanielChung520/AI-Box-sub009/internal/queryast"
)

// Fingerprint computes a stable cache key for (dialect, query), independent
// of the order of FromTables, Where conditions and GroupBy columns so that
// logically identical queries built in different orders still hit the same
// cache entry. Select and OrderBy order is kept, since it changes the SQL.
func Fingerprint(d catalog.Dialect, q *queryast.Query) string {
	var parts []string
	parts = append(parts, string(d))

	for _, s := range q.Select {
		parts = append(parts, fmt.Sprintf("sel:%s:%s:%s", s.Expr, s.Aggregation, s.Alias))
	}
	tables := append([]string(nil), q.FromTables...)
	sort.Strings(tables)
	parts = append(parts, "from:"+strings.Join(tables, ","))

	wheres := make([]string, len(q.Where))
	for i, c := range q.Where {
		wheres[i] = fmt.Sprintf("%s:%s:%v", c.Column, c.Operator, c.Value)
	}
	sort.Strings(wheres)
	parts = append(parts, "where:"+strings.Join(wheres, "|"))

	group := append([]string(nil), q.GroupBy...)
	sort.Strings(group)
	parts = append(parts, "group:"+strings.Join(group, ","))
	parts = append(parts, "order:"+strings.Join(q.OrderBy, ","))
	parts = append(parts, fmt.Sprintf("limit:%d:offset:%d", q.Limit, q.Offset))

	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}
