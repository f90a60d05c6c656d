package parser

import "strings"

type keywordCategory struct {
	keyword  string
	category string
}

// tableCategories maps keywords to the table category they hint at,
// narrowing the LLM prompt's "table hint" section before invoking the LLM
// pass. Grounded on the Python original's parser.py keyword
// precategorizer. A slice, not a map, so scan order (and therefore the
// first-seen de-dup order below) is deterministic.
var tableCategories = []keywordCategory{
	{"庫存", "inventory"}, {"存貨", "inventory"},
	{"工單", "work_order"}, {"生產", "work_order"},
	{"採購", "purchase_order"}, {"PO", "purchase_order"},
	{"倉庫", "warehouse"}, {"工作站", "workstation"},
}

// Categorize scans nlq for known keywords and returns the matched table
// categories, de-duplicated, in first-seen order.
func Categorize(nlq string) []string {
	var out []string
	seen := map[string]bool{}
	for _, kc := range tableCategories {
		if strings.Contains(nlq, kc.keyword) && !seen[kc.category] {
			seen[kc.category] = true
			out = append(out, kc.category)
		}
	}
	return out
}
