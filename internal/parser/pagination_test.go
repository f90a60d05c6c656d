package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLimitHint(t *testing.T) {
	limit, offset := PaginationExtractor{}.Extract("前 50 筆庫存", 20)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)
}

func TestExtractLimitCappedAt1000(t *testing.T) {
	limit, _ := PaginationExtractor{}.Extract("最多 5000 條", 20)
	assert.Equal(t, 1000, limit)
}

func TestExtractOffsetSkipHint(t *testing.T) {
	_, offset := PaginationExtractor{}.Extract("跳過 30 筆庫存", 20)
	assert.Equal(t, 30, offset)
}

func TestExtractPageHintMultipliesByLimit(t *testing.T) {
	limit, offset := PaginationExtractor{}.Extract("前 50 筆，第 3 頁", 20)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 100, offset)
}

func TestExtractPageHintFallsBackToDefaultPageSize(t *testing.T) {
	_, offset := PaginationExtractor{}.Extract("第 2 頁", 20)
	assert.Equal(t, 20, offset)
}

func TestExtractNoHints(t *testing.T) {
	limit, offset := PaginationExtractor{}.Extract("庫存查詢", 20)
	assert.Equal(t, 0, limit)
	assert.Equal(t, 0, offset)
}
