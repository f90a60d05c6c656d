package catalog

import (
	"context"
	"log/slog"

	"github.com/DanielChung520/AI-Box-sub009/internal/apperror"
	"github.com/gammazero/workerpool"
)

// ConceptSource loads Concepts from one backend.
type ConceptSource interface {
	LoadConcepts(ctx context.Context) ([]Concept, error)
}

// IntentSource loads Intents from one backend.
type IntentSource interface {
	LoadIntents(ctx context.Context) ([]Intent, error)
}

// BindingSource loads Bindings from one backend.
type BindingSource interface {
	LoadBindings(ctx context.Context) ([]Binding, error)
}

// Loader assembles a Catalog from a preferred source per entity kind, falling
// back to file on failure or an empty/invalid result.
type Loader struct {
	Dialect Dialect
	Log     *slog.Logger

	// Preferred sources; each may be nil, meaning "go straight to file".
	ConceptPreferred ConceptSource
	IntentPreferred  IntentSource
	BindingPreferred BindingSource

	// File is the unconditional fallback for all three entity kinds.
	File interface {
		ConceptSource
		IntentSource
		BindingSource
	}
}

// Load runs the three entity loads concurrently on a bounded worker pool,
// then validates the cross-check and builds a Catalog, or fails startup if
// no source yielded any bindings.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	var concepts []Concept
	var intents []Intent
	var bindings []Binding
	var concErr, intErr, bindErr error

	wp := workerpool.New(3)
	wp.Submit(func() { concepts, concErr = l.loadConcepts(ctx) })
	wp.Submit(func() { intents, intErr = l.loadIntents(ctx) })
	wp.Submit(func() { bindings, bindErr = l.loadBindings(ctx) })
	wp.StopWait()

	if concErr != nil {
		return nil, concErr
	}
	if intErr != nil {
		return nil, intErr
	}
	if bindErr != nil {
		return nil, bindErr
	}

	cat := newCatalog(concepts, intents, bindings)
	if err := cat.validate(l.Dialect); err != nil {
		return nil, err
	}
	return cat, nil
}

func (l *Loader) loadConcepts(ctx context.Context) ([]Concept, error) {
	if l.ConceptPreferred != nil {
		concepts, err := l.ConceptPreferred.LoadConcepts(ctx)
		if err != nil {
			l.warn("concepts", "preferred source failed", err)
		} else if len(concepts) > 0 {
			return concepts, nil
		} else {
			l.warn("concepts", "preferred source returned empty result", nil)
		}
	}
	return l.File.LoadConcepts(ctx)
}

func (l *Loader) loadIntents(ctx context.Context) ([]Intent, error) {
	if l.IntentPreferred != nil {
		intents, err := l.IntentPreferred.LoadIntents(ctx)
		if err != nil {
			l.warn("intents", "preferred source failed", err)
		} else if len(intents) > 0 {
			return intents, nil
		} else {
			l.warn("intents", "preferred source returned empty result", nil)
		}
	}
	return l.File.LoadIntents(ctx)
}

func (l *Loader) loadBindings(ctx context.Context) ([]Binding, error) {
	if l.BindingPreferred != nil {
		bindings, err := l.BindingPreferred.LoadBindings(ctx)
		if err != nil {
			l.warn("bindings", "preferred source failed", err)
		} else if len(bindings) > 0 {
			return bindings, nil
		} else {
			l.warn("bindings", "preferred source returned empty result, falling back to file", nil)
		}
	}
	bindings, err := l.File.LoadBindings(ctx)
	if err != nil {
		return nil, err
	}
	if len(bindings) == 0 {
		return nil, apperror.New(apperror.SchemaNotFound, "no source yielded a non-empty bindings set")
	}
	return bindings, nil
}

func (l *Loader) warn(entity, msg string, err error) {
	if l.Log == nil {
		return
	}
	if err != nil {
		l.Log.Warn(msg, "entity", entity, "error", err)
	} else {
		l.Log.Warn(msg, "entity", entity)
	}
}
