package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUltraFastParserMatchesInventoryIntent(t *testing.T) {
	p := NewUltraFastParser()
	pi, ok := p.Parse("查詢料號 10-0012 的庫存")
	require.True(t, ok)
	assert.Equal(t, "QUERY_INVENTORY", pi.Intent)
	assert.GreaterOrEqual(t, pi.Confidence, 0.5)
	v, ok := pi.Params["ITEM_NO"]
	require.True(t, ok)
	assert.Equal(t, "10-0012", v.Scalar)
}

func TestUltraFastParserExtractsYearAsTimeRange(t *testing.T) {
	p := NewUltraFastParser()
	pi, ok := p.Parse("2026年工單總數")
	require.True(t, ok)
	assert.Equal(t, "QUERY_WORK_ORDER_COUNT", pi.Intent)
	rng := pi.Params["YEAR"].Range
	assert.Equal(t, 2026, rng.Start.Year())
	assert.Equal(t, 2027, rng.End.Year())
}

func TestUltraFastParserNoMatchReturnsFalse(t *testing.T) {
	p := NewUltraFastParser()
	_, ok := p.Parse("今天天氣如何")
	assert.False(t, ok)
}
