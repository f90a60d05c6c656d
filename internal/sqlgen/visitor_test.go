package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielChung520/AI-Box-sub009/internal/queryast"
)

func noQuote(name string) string { return name }

func TestRenderWhereNilIsEmpty(t *testing.T) {
	sql, err := renderWhere(nil, noQuote)
	require.NoError(t, err)
	assert.Empty(t, sql)
}

func TestRenderWhereInList(t *testing.T) {
	e := &queryast.BinaryExpr{
		Left: &queryast.Ident{Name: "STATUS"},
		Op:   "IN",
		Right: &queryast.ListLiteral{Values: []*queryast.Literal{
			{Value: "A"}, {Value: "B"},
		}},
	}
	sql, err := renderWhere(e, noQuote)
	require.NoError(t, err)
	assert.Equal(t, "STATUS IN ('A', 'B')", sql)
}

func TestRenderWhereBetween(t *testing.T) {
	e := &queryast.BetweenExpr{
		Column: &queryast.Ident{Name: "TXN_DATE"},
		Start:  &queryast.Literal{Value: "2026-01-01"},
		End:    &queryast.Literal{Value: "2026-02-01"},
	}
	sql, err := renderWhere(e, noQuote)
	require.NoError(t, err)
	assert.Equal(t, "TXN_DATE BETWEEN '2026-01-01' AND '2026-02-01'", sql)
}

func TestRenderWhereAndWrapsOperands(t *testing.T) {
	left := &queryast.BinaryExpr{Left: &queryast.Ident{Name: "A"}, Op: "=", Right: &queryast.Literal{Value: "1", IsNumeric: true}}
	right := &queryast.UnaryExpr{Op: "IS NOT NULL", Operand: &queryast.Ident{Name: "B"}}
	sql, err := renderWhere(&queryast.BinaryExpr{Left: left, Op: "AND", Right: right}, noQuote)
	require.NoError(t, err)
	assert.Equal(t, "(A = 1) AND (B IS NOT NULL)", sql)
}

func TestRenderWhereNilOperandErrors(t *testing.T) {
	_, err := renderWhere(&queryast.BinaryExpr{Left: nil, Op: "=", Right: &queryast.Literal{Value: "1"}}, noQuote)
	require.Error(t, err)
}
