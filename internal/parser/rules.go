package parser

import (
	"regexp"
	"strconv"

	"github.com/DanielChung520/AI-Box-sub009/internal/value"
)

// IntentPattern is one entry in the rule table: if Match finds a hit in the
// NLQ text, Intent is the candidate with base confidence Score.
type IntentPattern struct {
	Intent string
	Match  *regexp.Regexp
	Score  float64
}

// ParamPattern extracts one named parameter from the NLQ text via a
// single-capture-group regex.
type ParamPattern struct {
	Concept string
	Match   *regexp.Regexp
}

// DefaultIntentPatterns is the fixed table the ultra-fast pass scores
// against, grounded on the original's hard-coded intent regex table.
var DefaultIntentPatterns = []IntentPattern{
	{Intent: "QUERY_INVENTORY", Match: regexp.MustCompile(`庫存|存貨|inventory`), Score: 0.6},
	{Intent: "QUERY_WORK_ORDER_COUNT", Match: regexp.MustCompile(`工單.*(數量|總數|筆數)|work.?order.*count`), Score: 0.65},
	{Intent: "QUERY_PURCHASE_ORDER", Match: regexp.MustCompile(`採購單|PO|purchase.?order`), Score: 0.6},
}

// DefaultParamPatterns extracts item numbers, warehouse codes, document
// IDs and bare calendar years from free text.
var DefaultParamPatterns = []ParamPattern{
	{Concept: "ITEM_NO", Match: regexp.MustCompile(`料號\s*([A-Za-z0-9\-]{4,})`)},
	{Concept: "WAREHOUSE", Match: regexp.MustCompile(`倉庫\s*([A-Za-z0-9]{2,8})`)},
	{Concept: "DOC_ID", Match: regexp.MustCompile(`\b((?:PO|WO)[0-9]{4,})\b`)},
	{Concept: "YEAR", Match: regexp.MustCompile(`(\d{4})\s*年`)},
}

// UltraFastParser is the regex-only, zero-network first cascade stage.
type UltraFastParser struct {
	Intents   []IntentPattern
	Params    []ParamPattern
	Threshold float64 // minimum score to produce a result at all
}

// NewUltraFastParser builds a parser with the default tables and a 0.5
// threshold.
func NewUltraFastParser() *UltraFastParser {
	return &UltraFastParser{Intents: DefaultIntentPatterns, Params: DefaultParamPatterns, Threshold: 0.5}
}

// Parse scores nlq against every intent pattern, keeping the
// highest-scoring match, and separately extracts every parameter pattern
// that matches. Returns ok=false if no intent pattern clears Threshold.
func (p *UltraFastParser) Parse(nlq string) (ParsedIntent, bool) {
	best := IntentPattern{Score: -1}
	for _, ip := range p.Intents {
		if ip.Match.MatchString(nlq) && ip.Score > best.Score {
			best = ip
		}
	}
	if best.Score < p.Threshold {
		return ParsedIntent{}, false
	}

	params := map[string]value.Value{}
	for _, pp := range p.Params {
		m := pp.Match.FindStringSubmatch(nlq)
		if m == nil {
			continue
		}
		if pp.Concept == "YEAR" {
			year, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			rng, err := value.TimeRange{Unit: value.UnitYear, Year: year}.Resolve()
			if err != nil {
				continue
			}
			params[pp.Concept] = value.NewTimeRange(rng)
			continue
		}
		params[pp.Concept] = value.NewScalar(m[1])
	}

	return ParsedIntent{
		Intent:     best.Intent,
		Confidence: best.Score,
		Params:     params,
		TokenUsage: TokenUsage{Stage: "rule"},
	}, true
}
