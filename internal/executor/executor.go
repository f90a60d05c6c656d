// Package executor runs generated SQL with strict resource bounds: a
// timeout watchdog racing the query against the caller's deadline, a
// JOIN-safety guard and a result LRU. It also provides DuckDB text rewrites
// (table path mapping, partition pruning) as standalone functions;
// Executor.Run does not apply them.
package executor

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DanielChung520/AI-Box-sub009/internal/apperror"
)

// Row is one result row, keyed by column name.
type Row map[string]any

// ResultSet is the shape a Conn returns for one executed statement.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Conn is the minimal per-backend connection contract. Neither DuckDB nor
// Oracle has a real Go driver anywhere in the reference corpus (see
// DESIGN.md); both dialect implementations satisfy this interface with a
// documented standard-library connection, keeping the dialect-specific text
// transforms — the actually load-bearing logic — real and independently
// testable.
type Conn interface {
	Query(ctx context.Context, sql string) (*ResultSet, error)
	Close() error
}

// ConnFactory opens a fresh Conn. DuckDB requires a new connection per call
// (its single-threaded contract); Oracle may reuse one behind a mutex. The
// watchdog treats both uniformly by always opening through this factory and
// closing unconditionally on return.
type ConnFactory func(ctx context.Context) (Conn, error)

// Result is the executor's output shape for one query.
type Result struct {
	Columns         []string
	Rows            []Row
	RowCount        int
	ExecutionTimeMs int64
}

// Executor runs SQL through a ConnFactory with a timeout watchdog, an
// optional result cache, and a pre-execution JOIN guard that always runs.
type Executor struct {
	Open    ConnFactory
	Cache   *ResultCache // nil disables caching
	MaxRows int          // cache is skipped for result sets above this size; 0 means no cap
}

// Run executes sql under ctx, enforcing timeout at most `timeout`. The
// cacheKey, when non-empty and Cache is set, short-circuits execution on a
// hit and stores the result on a miss (subject to MaxRows).
func (e *Executor) Run(ctx context.Context, sql string, timeout time.Duration, cacheKey string) (*Result, error) {
	if err := GuardJoin(sql); err != nil {
		return nil, err
	}
	sql = InjectJoinLimit(sql)

	if e.Cache != nil && cacheKey != "" {
		if r, ok := e.Cache.Get(cacheKey); ok {
			return r, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	var rs *ResultSet
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		conn, err := e.Open(groupCtx)
		if err != nil {
			return apperror.Wrap(apperror.ConnectionError, "opening connection", err)
		}
		defer conn.Close()

		res, err := conn.Query(groupCtx, sql)
		if err != nil {
			return translateBackendError(err)
		}
		rs = res
		return nil
	})

	if err := group.Wait(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperror.New(apperror.QueryTimeout, "query exceeded the configured timeout")
		}
		return nil, err
	}

	result := &Result{
		Columns:         rs.Columns,
		Rows:            rs.Rows,
		RowCount:        len(rs.Rows),
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}

	if e.Cache != nil && cacheKey != "" && (e.MaxRows <= 0 || result.RowCount <= e.MaxRows) {
		e.Cache.Set(cacheKey, result)
	}
	return result, nil
}

// translateBackendError maps a raw backend error into the closed apperror
// code set, defaulting to QUERY_ERROR for anything unrecognized.
func translateBackendError(err error) error {
	if ae := apperror.CodeOf(err); ae != apperror.InternalError {
		return err
	}
	msg := strings.ToLower(err.Error())
	code := apperror.QueryError
	switch {
	case strings.Contains(msg, "out of memory"):
		code = apperror.OutOfMemory
	case strings.Contains(msg, "ambiguous reference"):
		code = apperror.AmbiguousReference
	case strings.Contains(msg, "column") && strings.Contains(msg, "not found"):
		code = apperror.ColumnNotFound
	case strings.Contains(msg, "does not exist"):
		code = apperror.SchemaNotFound
	case strings.Contains(msg, "binder error"):
		code = apperror.BinderError
	}
	return apperror.Wrap(code, "executing query", err)
}
