// Package queryast defines the Query AST: the sole input to the SQL
// generator. The resolver never emits SQL text directly; it only ever
// produces a *Query.
package queryast

import "github.com/DanielChung520/AI-Box-sub009/internal/value"

// SelectItem is one column or aggregate expression in the SELECT list.
type SelectItem struct {
	Expr        string // bare column name; Aggregation wraps it, never baked in
	Alias       string
	Aggregation string // "", or one of SUM/AVG/COUNT/MIN/MAX
}

// Column returns the bare column name this item selects, for use in
// ORDER BY/GROUP BY tie-break generation.
func (s SelectItem) Column() string { return s.Expr }

// Condition is one WHERE predicate. The full WHERE clause is the logical AND
// of every Condition in Query.Where.
type Condition struct {
	Column   string
	Operator string // one of catalog.Operator's string values
	Value    value.Value
}

// Query is the analyzed query form: selects, sources, filters, grouping,
// ordering and pagination. It is built once by the Resolver's BUILD_AST
// phase and consumed exactly once by the SQL Generator.
type Query struct {
	Select     []SelectItem
	FromTables []string // insertion-ordered set; duplicates are not added
	Where      []Condition
	GroupBy    []string
	OrderBy    []string
	Limit      int
	Offset     int
}

// AddFromTable appends table to FromTables if not already present,
// preserving set semantics without needing a separate set type for what is
// almost always a one- or two-element list.
func (q *Query) AddFromTable(table string) {
	for _, t := range q.FromTables {
		if t == table {
			return
		}
	}
	q.FromTables = append(q.FromTables, table)
}

// HasAggregation reports whether any select item carries an aggregation. When
// true, every non-aggregated select column must appear in GroupBy.
func (q *Query) HasAggregation() bool {
	for _, item := range q.Select {
		if item.Aggregation != "" && item.Aggregation != "NONE" {
			return true
		}
	}
	return false
}

// ToExpr renders Where as a single conjunction expression tree for a
// Visitor to walk: the same node shapes a hand-parsed filter expression
// would use, built programmatically from resolved bindings instead.
func (q *Query) ToExpr() Expr {
	if len(q.Where) == 0 {
		return nil
	}
	var tree Expr = conditionExpr(q.Where[0])
	for _, cond := range q.Where[1:] {
		tree = &BinaryExpr{Left: tree, Op: "AND", Right: conditionExpr(cond)}
	}
	return tree
}

func conditionExpr(c Condition) Expr {
	switch c.Operator {
	case "IS NULL", "IS NOT NULL":
		return &UnaryExpr{Op: c.Operator, Operand: &Ident{Name: c.Column}}
	case "IN":
		return &BinaryExpr{Left: &Ident{Name: c.Column}, Op: "IN", Right: &ListLiteral{Values: valueToLiterals(c.Value)}}
	case "BETWEEN":
		start, end := timeRangeLiterals(c.Value)
		return &BetweenExpr{Column: &Ident{Name: c.Column}, Start: start, End: end}
	default:
		return &BinaryExpr{Left: &Ident{Name: c.Column}, Op: c.Operator, Right: valueToLiteral(c.Value)}
	}
}

func valueToLiteral(v value.Value) *Literal {
	switch v.Kind {
	case value.KindScalar:
		return &Literal{Value: v.Scalar, IsNumeric: isNumeric(v.Scalar)}
	default:
		return &Literal{Value: ""}
	}
}

func valueToLiterals(v value.Value) []*Literal {
	items := v.List
	if v.Kind == value.KindScalar {
		items = []string{v.Scalar}
	}
	out := make([]*Literal, 0, len(items))
	for _, s := range items {
		out = append(out, &Literal{Value: s, IsNumeric: isNumeric(s)})
	}
	return out
}

func timeRangeLiterals(v value.Value) (*Literal, *Literal) {
	r := v.Range
	start := r.Start.Format("2006-01-02")
	end := r.End.Format("2006-01-02")
	return &Literal{Value: start}, &Literal{Value: end}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '-' {
			return false
		}
	}
	return true
}
