package parser

import (
	"context"

	"github.com/DanielChung520/AI-Box-sub009/internal/value"
)

// GateThreshold is the minimum confidence, across every stage, below which
// the cascade gives up and reports UNKNOWN.
const GateThreshold = 0.3

// DefaultPageSize is the single page-size constant shared by pagination
// offset math and the resolver's injected LIMIT, so "page 2" always means
// "rows 100-199" end to end. PaginationExtractor.extract(nlq, default_limit=100)
// uses the same 100 for both purposes.
const DefaultPageSize = 100

// Cascade composes the three parser stages plus the independent pagination
// sweep. Exported fields so a test can swap any stage for a fake.
type Cascade struct {
	Cache      *CacheLayer
	UltraFast  *UltraFastParser
	LLM        *LLMParser
	Pagination PaginationExtractor

	DefaultPageSize int
}

// Parse runs the cascade: cache check, then rule pass, then LLM pass,
// falling back in that order and stopping as soon as one stage clears
// GateThreshold. The pagination sweep always runs, independent of which
// stage (if any) produced the intent.
func (c *Cascade) Parse(ctx context.Context, nlq string) ParsedIntent {
	if c.Cache != nil {
		if pi, ok := c.Cache.Get(nlq); ok {
			return c.withPagination(nlq, pi)
		}
	}

	if pi, ok := c.UltraFast.Parse(nlq); ok && pi.Confidence >= GateThreshold {
		pi = c.withPagination(nlq, pi)
		c.store(nlq, pi)
		return pi
	}

	if c.LLM != nil {
		if pi, ok := c.LLM.Parse(ctx, nlq); ok && pi.Confidence >= GateThreshold {
			pi = c.withPagination(nlq, pi)
			c.store(nlq, pi)
			return pi
		}
	}

	return ParsedIntent{Intent: UnknownIntent, Params: map[string]value.Value{}}
}

func (c *Cascade) withPagination(nlq string, pi ParsedIntent) ParsedIntent {
	limit, offset := c.Pagination.Extract(nlq, c.defaultPageSize())
	pi.Limit = limit
	pi.Offset = offset
	return pi
}

func (c *Cascade) defaultPageSize() int {
	if c.DefaultPageSize > 0 {
		return c.DefaultPageSize
	}
	return DefaultPageSize
}

func (c *Cascade) store(nlq string, pi ParsedIntent) {
	if c.Cache != nil {
		c.Cache.Set(nlq, pi)
	}
}
