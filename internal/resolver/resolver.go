// Package resolver drives a parsed intent through the deterministic state
// machine that turns it into a queryast.Query: PARSE_NLQ, MATCH_CONCEPTS,
// RESOLVE_BINDINGS, VALIDATE, BUILD_AST, EMIT_SQL, with a parallel ERROR
// terminal state reachable from any phase.
//
// The state machine is hand-rolled rather than built on flow.Node[any,any]:
// each phase here is strongly typed (ParsedIntent -> []MatchedConcept ->
// []ResolvedBinding -> *queryast.Query -> string), and erasing that chain to
// `any` the way flow.Join composes nodes would throw away exactly the type
// safety this state machine exists to provide. What survives from flow is
// its shape, not its generics: a named, ordered sequence of phase functions
// with a shared Context threaded through, modeled after flow's Sequence()
// builder.
package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/DanielChung520/AI-Box-sub009/internal/apperror"
	"github.com/DanielChung520/AI-Box-sub009/internal/catalog"
	"github.com/DanielChung520/AI-Box-sub009/internal/parser"
	"github.com/DanielChung520/AI-Box-sub009/internal/queryast"
	"github.com/DanielChung520/AI-Box-sub009/internal/sqlgen"
	"github.com/DanielChung520/AI-Box-sub009/internal/value"
)

// State is one node of the resolver state machine.
type State string

const (
	StateInit            State = "INIT"
	StateParseNLQ        State = "PARSE_NLQ"
	StateMatchConcepts   State = "MATCH_CONCEPTS"
	StateResolveBindings State = "RESOLVE_BINDINGS"
	StateValidate        State = "VALIDATE"
	StateBuildAST        State = "BUILD_AST"
	StateEmitSQL         State = "EMIT_SQL"
	StateCompleted       State = "COMPLETED"
	StateError           State = "ERROR"
)

// StateTransition records one hop in the state machine, origin phase first.
type StateTransition struct {
	From State
	To   State
	At   time.Time
}

// MatchedConcept is a parsed parameter resolved against a known Concept.
type MatchedConcept struct {
	Concept string
	Value   value.Value
	Source  string // "parsed": the value came from ParsedIntent.Params
}

// ResolvedBinding pairs a MatchedConcept (or an Intent dimension/metric with
// no value) with its physical column binding for the active dialect.
type ResolvedBinding struct {
	Concept string
	Binding catalog.Binding
	Value   *value.Value // nil for dimensions/metrics with no filter value
}

// Context threads through every phase, accumulating state as it advances.
// Phases never mutate a Context in place; each returns a new one.
type Context struct {
	NLQ     string
	Dialect catalog.Dialect

	Parsed      parser.ParsedIntent
	Intent      catalog.Intent
	Matched     []MatchedConcept
	Bindings    []ResolvedBinding
	Query       *queryast.Query
	SQL         string

	State   State
	History []StateTransition
}

// IntentAliases maps a legacy or colloquial intent name to its canonical
// catalog Intent, applied at the start of MATCH_CONCEPTS (e.g.
// QUERY_STATS -> QUERY_INVENTORY).
type IntentAliases map[string]string

// Resolver owns the catalog and generator the state machine phases call
// into. It holds no per-request state; Execute is safe for concurrent use.
type Resolver struct {
	Catalog       *catalog.Store
	Generator     *sqlgen.Generator
	Aliases       IntentAliases
	DefaultLimit  int
	GateThreshold float64
}

// New builds a Resolver with the default limit (100) and gate threshold
// (parser.GateThreshold).
func New(cat *catalog.Store, gen *sqlgen.Generator) *Resolver {
	return &Resolver{Catalog: cat, Generator: gen, DefaultLimit: parser.DefaultPageSize, GateThreshold: parser.GateThreshold}
}

type phaseFunc func(ctx context.Context, rc *Context) (*Context, *apperror.Error)

// Execute runs the full sequence starting from an already-parsed intent
// (the pre-Resolver parser/validator stages already ran). On success it
// returns a Context whose State is COMPLETED and SQL populated; on failure
// State is ERROR and the returned *apperror.Error names the failing phase.
func (r *Resolver) Execute(ctx context.Context, nlq string, dialect catalog.Dialect, parsed parser.ParsedIntent) (*Context, *apperror.Error) {
	rc := &Context{NLQ: nlq, Dialect: dialect, Parsed: parsed, State: StateInit}

	phases := []struct {
		state State
		fn    phaseFunc
	}{
		{StateParseNLQ, r.phaseParseNLQ},
		{StateMatchConcepts, r.phaseMatchConcepts},
		{StateResolveBindings, r.phaseResolveBindings},
		{StateValidate, r.phaseValidate},
		{StateBuildAST, r.phaseBuildAST},
		{StateEmitSQL, r.phaseEmitSQL},
	}

	for _, p := range phases {
		next, err := p.fn(ctx, rc)
		if err != nil {
			rc = r.transition(rc, StateError)
			return rc, err.WithStage(string(p.state))
		}
		rc = next
		rc = r.transition(rc, p.state)
	}
	rc = r.transition(rc, StateCompleted)
	return rc, nil
}

func (r *Resolver) transition(rc *Context, to State) *Context {
	next := *rc
	next.History = append(append([]StateTransition(nil), rc.History...), StateTransition{From: rc.State, To: to, At: time.Now()})
	next.State = to
	return &next
}

// phaseParseNLQ accepts the already-parsed intent; its only job is to
// enforce the confidence gate a second time (callers invoking the Resolver
// directly, bypassing the pre-Resolver validator, still get the guarantee).
func (r *Resolver) phaseParseNLQ(_ context.Context, rc *Context) (*Context, *apperror.Error) {
	threshold := r.GateThreshold
	if threshold == 0 {
		threshold = parser.GateThreshold
	}
	if rc.Parsed.Intent == parser.UnknownIntent || rc.Parsed.Confidence < threshold {
		return nil, apperror.New(apperror.IntentUnclear,
			fmt.Sprintf("confidence %.2f below gate threshold", rc.Parsed.Confidence))
	}
	return rc, nil
}

func (r *Resolver) phaseMatchConcepts(_ context.Context, rc *Context) (*Context, *apperror.Error) {
	intentName := rc.Parsed.Intent
	if canonical, ok := r.Aliases[intentName]; ok {
		intentName = canonical
	}
	intent, ok := r.Catalog.Current().GetIntent(intentName)
	if !ok {
		return nil, apperror.New(apperror.IntentUnclear, fmt.Sprintf("intent %q is not registered", intentName))
	}

	var matched []MatchedConcept
	for param, v := range rc.Parsed.Params {
		if _, ok := r.Catalog.Current().GetConcept(param); !ok {
			continue
		}
		matched = append(matched, MatchedConcept{Concept: param, Value: v, Source: "parsed"})
	}

	next := *rc
	next.Intent = intent
	next.Matched = matched
	return &next, nil
}

func (r *Resolver) phaseResolveBindings(_ context.Context, rc *Context) (*Context, *apperror.Error) {
	matchedByConcept := make(map[string]value.Value, len(rc.Matched))
	for _, m := range rc.Matched {
		matchedByConcept[m.Concept] = m.Value
	}

	simpleCount := len(rc.Intent.Metrics) == 1 && len(rc.Intent.Dimensions) == 0

	var resolved []ResolvedBinding
	concepts := append(append(append([]string{}, rc.Intent.Dimensions...), rc.Intent.Metrics...), rc.Intent.Filters...)
	seen := make(map[string]bool, len(concepts))
	for _, concept := range concepts {
		if seen[concept] {
			continue
		}
		seen[concept] = true

		binding, ok := r.Catalog.Current().GetBinding(concept, rc.Dialect)
		if !ok {
			return nil, apperror.New(apperror.SchemaNotFound,
				fmt.Sprintf("concept %q has no binding for dialect %s", concept, rc.Dialect))
		}

		v, hasValue := matchedByConcept[concept]
		if hasValue && v.Kind == value.KindTimeRange && !v.Range.Resolved {
			resolvedRange, err := v.Range.Resolve()
			if err != nil {
				return nil, apperror.Wrap(apperror.BinderError, "failed to resolve time range", err)
			}
			v = value.NewTimeRange(resolvedRange)
		}

		if simpleCount && hasValue && v.Kind == value.KindTimeRange {
			// Simple COUNT intents drop the TIME_RANGE filter: no WHERE
			// predicate is emitted for it, and no partition pruning is
			// applied in its place.
			continue
		}

		rb := ResolvedBinding{Concept: concept, Binding: binding}
		if hasValue {
			vv := v
			rb.Value = &vv
		}
		resolved = append(resolved, rb)
	}

	next := *rc
	next.Bindings = resolved
	return &next, nil
}

// phaseValidate re-asserts required_filters subset matched_concepts, for
// callers that invoke the Resolver without going through the standalone
// pre-Resolver validator first.
func (r *Resolver) phaseValidate(_ context.Context, rc *Context) (*Context, *apperror.Error) {
	matched := make(map[string]bool, len(rc.Matched))
	for _, m := range rc.Matched {
		matched[m.Concept] = true
	}
	for _, required := range rc.Intent.RequiredFilters {
		if !matched[required] {
			return nil, apperror.New(apperror.MissingRequiredFilter,
				fmt.Sprintf("intent %q requires filter %q", rc.Intent.Name, required))
		}
	}
	return rc, nil
}

func (r *Resolver) phaseBuildAST(_ context.Context, rc *Context) (*Context, *apperror.Error) {
	q := &queryast.Query{}

	metricSet := toSet(rc.Intent.Metrics)
	dimensionSet := toSet(rc.Intent.Dimensions)

	for _, rb := range rc.Bindings {
		q.AddFromTable(rb.Binding.Table)

		switch {
		case metricSet[rb.Concept]:
			q.Select = append(q.Select, queryast.SelectItem{
				Expr:        rb.Binding.Column,
				Alias:       rb.Concept,
				Aggregation: string(rb.Binding.Aggregation),
			})
		case dimensionSet[rb.Concept]:
			q.Select = append(q.Select, queryast.SelectItem{Expr: rb.Binding.Column, Alias: rb.Concept})
		}

		if rb.Value != nil {
			q.Where = append(q.Where, queryast.Condition{
				Column:   rb.Binding.Column,
				Operator: string(rb.Binding.Operator),
				Value:    *rb.Value,
			})
		}
	}

	if q.HasAggregation() {
		for _, item := range q.Select {
			if item.Aggregation == "" || item.Aggregation == "NONE" {
				q.GroupBy = append(q.GroupBy, item.Column())
			}
		}
	}

	q.Limit = rc.Parsed.Limit
	if q.Limit == 0 {
		q.Limit = r.defaultLimit()
	}
	q.Offset = rc.Parsed.Offset

	next := *rc
	next.Query = q
	return &next, nil
}

func (r *Resolver) defaultLimit() int {
	if r.DefaultLimit > 0 {
		return r.DefaultLimit
	}
	return 100
}

func (r *Resolver) phaseEmitSQL(_ context.Context, rc *Context) (*Context, *apperror.Error) {
	sql, err := r.Generator.Generate(rc.Query)
	if err != nil {
		if ae, ok := err.(*apperror.Error); ok {
			return nil, ae
		}
		return nil, apperror.Wrap(apperror.BinderError, "sql generation failed", err)
	}
	next := *rc
	next.SQL = sql
	return &next, nil
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
