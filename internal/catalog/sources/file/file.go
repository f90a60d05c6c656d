// Package file implements the unconditional local-file fallback catalog
// source: JSON for Concepts/Intents/Bindings, grounded file-for-file on
// loaders/concepts_loader.py, loaders/intents_loader.py and
// loaders/bindings_loader.py, including the legacy CODE/STRING/NUMBER
// type-tag normalization table.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DanielChung520/AI-Box-sub009/internal/catalog"
	"github.com/tidwall/gjson"
)

// typeMapping canonicalizes legacy concept type tags to the two-value
// ConceptKind set, grounded on concepts_loader.py's TYPE_MAPPING.
var typeMapping = map[string]catalog.ConceptKind{
	"CODE":    catalog.KindDimension,
	"STRING":  catalog.KindDimension,
	"DATE":    catalog.KindDimension,
	"NUMBER":  catalog.KindMetric,
	"INTEGER": catalog.KindMetric,
	"DECIMAL": catalog.KindMetric,
	string(catalog.KindDimension): catalog.KindDimension,
	string(catalog.KindMetric):    catalog.KindMetric,
}

// aggregationMapping defaults any unknown or empty aggregation tag to NONE,
// grounded on bindings_loader.py's AGGREGATION_MAPPING.
var aggregationMapping = map[string]catalog.Aggregation{
	"":      catalog.AggNone,
	"SUM":   catalog.AggSum,
	"AVG":   catalog.AggAvg,
	"COUNT": catalog.AggCount,
	"MIN":   catalog.AggMin,
	"MAX":   catalog.AggMax,
	"NONE":  catalog.AggNone,
}

// Source reads Concepts/Intents/Bindings from
// <metadataPath>/systems/<systemID>/{concepts,intents,bindings}.json.
type Source struct {
	MetadataPath string
	SystemID     string
}

func (s *Source) dir() string {
	return filepath.Join(s.MetadataPath, "systems", s.SystemID)
}

// ConceptsPath, IntentsPath, BindingsPath and SchemaPath mirror the
// original's computed path properties.
func (s *Source) ConceptsPath() string { return filepath.Join(s.dir(), "concepts.json") }
func (s *Source) IntentsPath() string  { return filepath.Join(s.dir(), "intents.json") }
func (s *Source) BindingsPath() string { return filepath.Join(s.dir(), "bindings.json") }
func (s *Source) SchemaPath() string   { return filepath.Join(s.dir(), s.SystemID+".yml") }

func (s *Source) LoadConcepts(_ context.Context) ([]catalog.Concept, error) {
	raw, err := readIfExists(s.ConceptsPath())
	if err != nil || raw == "" {
		return nil, err
	}
	root := gjson.Parse(raw)
	var concepts []catalog.Concept
	root.Get("concepts").ForEach(func(name, data gjson.Result) bool {
		kind, ok := typeMapping[data.Get("type").String()]
		if !ok {
			kind = catalog.KindDimension
		}
		labels := map[string]string{}
		data.Get("labels").ForEach(func(locale, label gjson.Result) bool {
			labels[locale.String()] = label.String()
			return true
		})
		var values []string
		data.Get("values").ForEach(func(_, v gjson.Result) bool {
			values = append(values, v.String())
			return true
		})
		concepts = append(concepts, catalog.Concept{
			Name:     name.String(),
			Kind:     kind,
			DataType: data.Get("data_type").String(),
			Labels:   labels,
			Values:   values,
		})
		return true
	})
	return concepts, nil
}

func (s *Source) LoadIntents(_ context.Context) ([]catalog.Intent, error) {
	raw, err := readIfExists(s.IntentsPath())
	if err != nil || raw == "" {
		return nil, err
	}
	root := gjson.Parse(raw)
	var intents []catalog.Intent
	root.Get("intents").ForEach(func(name, data gjson.Result) bool {
		intents = append(intents, catalog.Intent{
			Name:            name.String(),
			Description:     data.Get("description").String(),
			Filters:         stringArray(data.Get("input.filters")),
			RequiredFilters: stringArray(data.Get("input.required_filters")),
			Metrics:         stringArray(data.Get("output.metrics")),
			Dimensions:      stringArray(data.Get("output.dimensions")),
		})
		return true
	})
	return intents, nil
}

func (s *Source) LoadBindings(_ context.Context) ([]catalog.Binding, error) {
	raw, err := readIfExists(s.BindingsPath())
	if err != nil || raw == "" {
		return nil, err
	}
	root := gjson.Parse(raw)
	var bindings []catalog.Binding
	root.Get("bindings").ForEach(func(conceptName, perDialect gjson.Result) bool {
		perDialect.ForEach(func(dialect, data gjson.Result) bool {
			agg, ok := aggregationMapping[data.Get("aggregation").String()]
			if !ok {
				agg = catalog.AggNone
			}
			operator := catalog.Operator(data.Get("operator").String())
			if operator == "" {
				operator = catalog.OpEqual
			}
			bindings = append(bindings, catalog.Binding{
				Concept:     conceptName.String(),
				Dialect:     catalog.Dialect(dialect.String()),
				Table:       data.Get("table").String(),
				Column:      data.Get("column").String(),
				Aggregation: agg,
				Operator:    operator,
				S3Path:      data.Get("s3_path").String(),
			})
			return true
		})
		return true
	})
	return bindings, nil
}

func stringArray(r gjson.Result) []string {
	var out []string
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}

func readIfExists(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(raw), nil
}
