// Package parser maps a user's free-text question to a ParsedIntent via a
// three-stage cascade: an ultra-fast regex pass, an LLM pass, and an LRU
// cache pass, independent of a separate pagination-hint sweep.
package parser

import "github.com/DanielChung520/AI-Box-sub009/internal/value"

// ParsedIntent is the parser's output, consumed by the resolver's
// MATCH_CONCEPTS phase.
type ParsedIntent struct {
	Intent           string
	Confidence       float64
	Params           map[string]value.Value
	Limit            int
	Offset           int
	TokenUsage       TokenUsage
	ValidationErrors []string
}

// TokenUsage reports how a ParsedIntent was produced, for response
// transparency and the "cache hit means no LLM call" testable property.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	CacheHit         bool
	Stage            string // "rule" or "llm"; a cache hit keeps the stored stage
}

// UnknownIntent is returned when every stage yields confidence below the
// gate threshold.
const UnknownIntent = "UNKNOWN"
