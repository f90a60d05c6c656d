package executor

import (
	"regexp"
	"strings"

	"github.com/DanielChung520/AI-Box-sub009/internal/apperror"
)

var (
	joinKeyword = regexp.MustCompile(`(?i)\bjoin\b`)
	andKeyword  = regexp.MustCompile(`(?i)\band\b`)
)

// GuardJoin refuses multi-table JOIN queries (2+ JOINs) that carry neither a
// WHERE clause nor enough AND-conjuncts to plausibly prune the scan, since
// that combination is the query shape most likely to hit the entire
// federated dataset. join_count or more AND conjuncts pass even with no
// literal WHERE keyword, since a chain of ON ... AND ... predicates can
// filter just as well as an explicit WHERE.
func GuardJoin(sql string) error {
	joinCount := countJoins(sql)
	if joinCount < 2 {
		return nil
	}
	if strings.Contains(strings.ToUpper(sql), "WHERE") {
		return nil
	}
	if countOccurrences(sql, andKeyword) >= joinCount {
		return nil
	}
	return apperror.New(apperror.JoinUnguarded, "multi-table join has no filtering predicate")
}

// InjectJoinLimit appends "LIMIT 1000" to any JOIN query (1 or more JOINs)
// that carries no LIMIT/FETCH clause, bounding worst-case result size even
// when the guard above allows the query to proceed.
func InjectJoinLimit(sql string) string {
	if countJoins(sql) == 0 {
		return sql
	}
	upper := strings.ToUpper(sql)
	if strings.Contains(upper, "LIMIT") || strings.Contains(upper, "FETCH NEXT") {
		return sql
	}
	return strings.TrimRight(sql, "; \t\n") + " LIMIT 1000"
}

func countJoins(sql string) int {
	return countOccurrences(sql, joinKeyword)
}

func countOccurrences(sql string, re *regexp.Regexp) int {
	return len(re.FindAllString(sql, -1))
}
