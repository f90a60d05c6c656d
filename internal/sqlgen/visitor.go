package sqlgen

import (
	"errors"
	"strings"

	"github.com/DanielChung520/AI-Box-sub009/internal/queryast"
)

// identQuoter renders one Ident per dialect quoting rules: Oracle/DuckDB
// leave bare identifiers unquoted, MySQL backtick-quotes them.
type identQuoter func(name string) string

// sqlVisitor renders a queryast.Expr tree into its WHERE-clause SQL text.
// Generalized from ai/vectorstore/filter/ast.SQLLikeVisitor: that visitor is
// parametrized by nothing (one SQL-like syntax for all filters), this one is
// parametrized by quoteIdent so Oracle/DuckDB/MySQL share one walk.
type sqlVisitor struct {
	quoteIdent identQuoter
	err        error
	buf        strings.Builder
}

func newSQLVisitor(q identQuoter) *sqlVisitor {
	return &sqlVisitor{quoteIdent: q}
}

func (v *sqlVisitor) SQL() string { return v.buf.String() }
func (v *sqlVisitor) Err() error  { return v.err }

func (v *sqlVisitor) Visit(e queryast.Expr) queryast.Visitor {
	v.visit(e)
	return nil
}

func (v *sqlVisitor) visit(e queryast.Expr) {
	if v.err != nil {
		return
	}
	if e == nil {
		v.err = errors.New("nil expression in where clause")
		return
	}
	switch n := e.(type) {
	case *queryast.Ident:
		v.buf.WriteString(v.quoteIdent(n.Name))
	case *queryast.Literal:
		v.writeLiteral(n)
	case *queryast.ListLiteral:
		v.visitListLiteral(n)
	case *queryast.UnaryExpr:
		v.visitUnary(n)
	case *queryast.BinaryExpr:
		v.visitBinary(n)
	case *queryast.BetweenExpr:
		v.visitBetween(n)
	default:
		v.err = errors.New("unknown expression node")
	}
}

func (v *sqlVisitor) writeLiteral(n *queryast.Literal) {
	if n.IsNumeric {
		v.buf.WriteString(n.Value)
		return
	}
	v.buf.WriteString("'")
	v.buf.WriteString(strings.ReplaceAll(n.Value, "'", "''"))
	v.buf.WriteString("'")
}

func (v *sqlVisitor) visitListLiteral(n *queryast.ListLiteral) {
	v.buf.WriteString("(")
	for i, lit := range n.Values {
		if i > 0 {
			v.buf.WriteString(", ")
		}
		v.writeLiteral(lit)
	}
	v.buf.WriteString(")")
}

func (v *sqlVisitor) visitUnary(n *queryast.UnaryExpr) {
	v.visit(n.Operand)
	v.buf.WriteString(" ")
	v.buf.WriteString(n.Op)
}

func (v *sqlVisitor) visitBinary(n *queryast.BinaryExpr) {
	wrapLeft := n.Op == "AND"
	if wrapLeft {
		v.buf.WriteString("(")
	}
	v.visit(n.Left)
	if wrapLeft {
		v.buf.WriteString(")")
	}
	v.buf.WriteString(" ")
	v.buf.WriteString(n.Op)
	v.buf.WriteString(" ")
	wrapRight := n.Op == "AND"
	if wrapRight {
		v.buf.WriteString("(")
	}
	v.visit(n.Right)
	if wrapRight {
		v.buf.WriteString(")")
	}
}

func (v *sqlVisitor) visitBetween(n *queryast.BetweenExpr) {
	v.visit(n.Column)
	v.buf.WriteString(" BETWEEN ")
	v.writeLiteral(n.Start)
	v.buf.WriteString(" AND ")
	v.writeLiteral(n.End)
}

// renderWhere walks a Where Expr tree with the given identifier quoter,
// returning empty string (no error) when there is nothing to render.
func renderWhere(e queryast.Expr, quote identQuoter) (string, error) {
	if e == nil {
		return "", nil
	}
	v := newSQLVisitor(quote)
	v.Visit(e)
	if v.Err() != nil {
		return "", v.Err()
	}
	return v.SQL(), nil
}
