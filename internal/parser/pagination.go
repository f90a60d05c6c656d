package parser

import (
	"regexp"
	"strconv"
)

var (
	limitPattern = regexp.MustCompile(`前\s*(\d+)\s*筆|最多\s*(\d+)\s*條`)
	offsetSkip   = regexp.MustCompile(`跳過\s*(\d+)\s*筆`)
	offsetPage   = regexp.MustCompile(`第\s*(\d+)\s*頁`)

	maxLimit = 1000
)

// PaginationExtractor independently sweeps NLQ text for limit/offset hints,
// regardless of which intent (if any) the rest of the cascade recognized.
type PaginationExtractor struct{}

// Extract returns the parsed limit (capped at maxLimit, 0 if no hint) and
// offset (0 if no hint), honoring the "第 N 頁" page hint by multiplying by
// the extracted (or, failing that, a default) page size.
func (PaginationExtractor) Extract(nlq string, defaultPageSize int) (limit, offset int) {
	if m := limitPattern.FindStringSubmatch(nlq); m != nil {
		n := firstNonEmpty(m[1], m[2])
		if v, err := strconv.Atoi(n); err == nil {
			limit = v
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if m := offsetSkip.FindStringSubmatch(nlq); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			offset = v
		}
		return limit, offset
	}

	if m := offsetPage.FindStringSubmatch(nlq); m != nil {
		page, err := strconv.Atoi(m[1])
		if err == nil && page > 1 {
			pageSize := limit
			if pageSize == 0 {
				pageSize = defaultPageSize
			}
			offset = (page - 1) * pageSize
		}
	}

	return limit, offset
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
