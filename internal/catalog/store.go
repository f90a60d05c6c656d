package catalog

import (
	"fmt"
	"sync/atomic"

	"github.com/DanielChung520/AI-Box-sub009/internal/apperror"
)

// Catalog is the fully-loaded, immutable ontology. It is never mutated in
// place; Store.Swap replaces the whole value atomically.
type Catalog struct {
	concepts map[string]Concept
	intents  map[string]Intent
	bindings map[bindingKey]Binding
}

// New builds a Catalog directly from already-assembled entities, bypassing
// the Loader. Used where a caller (or test) already has the full ontology
// in hand rather than a set of sources to merge.
func New(concepts []Concept, intents []Intent, bindings []Binding) *Catalog {
	return newCatalog(concepts, intents, bindings)
}

func newCatalog(concepts []Concept, intents []Intent, bindings []Binding) *Catalog {
	c := &Catalog{
		concepts: make(map[string]Concept, len(concepts)),
		intents:  make(map[string]Intent, len(intents)),
		bindings: make(map[bindingKey]Binding, len(bindings)),
	}
	for _, concept := range concepts {
		c.concepts[concept.Name] = concept
	}
	for _, intent := range intents {
		c.intents[intent.Name] = intent
	}
	for _, binding := range bindings {
		c.bindings[bindingKey{binding.Concept, binding.Dialect}] = binding
	}
	return c
}

// GetConcept returns the named Concept.
func (c *Catalog) GetConcept(name string) (Concept, bool) {
	concept, ok := c.concepts[name]
	return concept, ok
}

// GetIntent returns the named Intent.
func (c *Catalog) GetIntent(name string) (Intent, bool) {
	intent, ok := c.intents[name]
	return intent, ok
}

// GetBinding returns the Binding for a Concept under a dialect.
func (c *Catalog) GetBinding(concept string, dialect Dialect) (Binding, bool) {
	binding, ok := c.bindings[bindingKey{concept, dialect}]
	return binding, ok
}

// TableS3Path returns the first non-empty S3Path bound to table under
// DialectDuckDB, satisfying sqlgen's and executor's TableResolver
// interfaces. A table name maps to at most one physical location, so the
// first binding found is authoritative.
func (c *Catalog) TableS3Path(table string) (string, bool) {
	for key, binding := range c.bindings {
		if key.dialect == DialectDuckDB && binding.Table == table && binding.S3Path != "" {
			return binding.S3Path, true
		}
	}
	return "", false
}

// IntentNames returns every known Intent name, used to build
// INTENT_UNCLEAR suggestion lists.
func (c *Catalog) IntentNames() []string {
	names := make([]string, 0, len(c.intents))
	for name := range c.intents {
		names = append(names, name)
	}
	return names
}

// validate enforces the cross-check named in §4.1: every concept referenced
// by any intent has a binding for dialect.
func (c *Catalog) validate(dialect Dialect) error {
	referenced := make(map[string]struct{})
	for _, intent := range c.intents {
		for _, group := range [][]string{intent.Filters, intent.RequiredFilters, intent.Metrics, intent.Dimensions} {
			for _, name := range group {
				referenced[name] = struct{}{}
			}
		}
	}
	var missing []string
	for name := range referenced {
		if _, ok := c.bindings[bindingKey{name, dialect}]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return apperror.New(apperror.SchemaNotFound,
			fmt.Sprintf("%d concept(s) referenced by intents have no binding for dialect %s: %v", len(missing), dialect, missing))
	}
	if len(c.bindings) == 0 {
		return apperror.New(apperror.SchemaNotFound, "no bindings were loaded from any source")
	}
	return nil
}

// Store holds the live, atomically-swappable Catalog.
type Store struct {
	ptr atomic.Pointer[Catalog]
}

// NewStore builds a Store around an already-loaded Catalog.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.ptr.Store(c)
	return s
}

// Current returns the live Catalog. Safe for concurrent use without
// additional synchronization.
func (s *Store) Current() *Catalog {
	return s.ptr.Load()
}

// Swap atomically replaces the live Catalog, used by Reload.
func (s *Store) Swap(c *Catalog) {
	s.ptr.Store(c)
}
