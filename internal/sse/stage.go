package sse

import (
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// Stage is one named point in the canonical SSE progress sequence.
type Stage string

const (
	StageRequestReceived  Stage = "request_received"
	StageSchemaConfirmed  Stage = "schema_confirmed"
	StageSQLGenerated     Stage = "sql_generated"
	StageQueryExecuting   Stage = "query_executing"
	StageQueryCompleted   Stage = "query_completed"
	StageResultValidating Stage = "result_validating"
	StageResultReady      Stage = "result_ready"
	StageFinal            Stage = "final"
	StageError            Stage = "error"
)

// canonicalOrder is the declared sequence every successful request's SSE
// stream must follow as a prefix. StageError is not part of it: it may
// replace all remaining stages from wherever the pipeline fails.
var canonicalOrder = []Stage{
	StageRequestReceived,
	StageSchemaConfirmed,
	StageSQLGenerated,
	StageQueryExecuting,
	StageQueryCompleted,
	StageResultValidating,
	StageResultReady,
	StageFinal,
}

var stageIndex = func() map[Stage]uint {
	m := make(map[Stage]uint, len(canonicalOrder))
	for i, s := range canonicalOrder {
		m[s] = uint(i)
	}
	return m
}()

// StageTracker enforces that one request's progress events are emitted in
// canonical order, never repeated, and never skipped backwards. It is a
// compact bitset rather than a bare "highest stage seen" int so that a
// future out-of-order regression (emitting request_received twice, or
// re-emitting an earlier stage) is caught as an explicit "already set" bit
// rather than silently passing a greater-than check.
type StageTracker struct {
	mu   sync.Mutex
	seen *bitset.BitSet
	last int // -1 until the first stage is allowed
}

// NewStageTracker builds a tracker for one request's stream.
func NewStageTracker() *StageTracker {
	return &StageTracker{seen: bitset.New(uint(len(canonicalOrder))), last: -1}
}

// Allow reports whether stage may be emitted next, and if so records it.
// StageError is always allowed (it terminates the stream from wherever it
// fails) and does not advance the canonical cursor. Any other stage must be
// the immediate successor of the last allowed stage and must not have been
// emitted before.
func (t *StageTracker) Allow(stage Stage) error {
	if stage == StageError {
		return nil
	}
	idx, ok := stageIndex[stage]
	if !ok {
		return fmt.Errorf("sse: unknown stage %q", stage)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.seen.Test(idx) {
		return fmt.Errorf("sse: stage %q already emitted", stage)
	}
	if int(idx) != t.last+1 {
		return fmt.Errorf("sse: stage %q emitted out of order (expected %q)", stage, canonicalOrder[t.last+1])
	}
	t.seen.Set(idx)
	t.last = int(idx)
	return nil
}

// Reset clears the tracker for reuse (e.g. pooling across requests).
func (t *StageTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen.ClearAll()
	t.last = -1
}
