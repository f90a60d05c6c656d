// Package vector implements the preferred Concepts/Intents catalog source:
// a Qdrant collection scroll-read, grounded on
// ai/providers/vectorstores/qdrant/store.go's client wiring and
// converter.go's payload-value decoding style.
package vector

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/DanielChung520/AI-Box-sub009/internal/catalog"
)

// Source reads Concepts and Intents from
// "<CollectionPrefix>concepts" and "<CollectionPrefix>intents".
type Source struct {
	Client           *qdrant.Client
	CollectionPrefix string
}

func (s *Source) conceptsCollection() string { return s.CollectionPrefix + "concepts" }
func (s *Source) intentsCollection() string  { return s.CollectionPrefix + "intents" }

func (s *Source) LoadConcepts(ctx context.Context) ([]catalog.Concept, error) {
	points, err := s.scrollAll(ctx, s.conceptsCollection())
	if err != nil {
		return nil, fmt.Errorf("qdrant concepts scroll: %w", err)
	}
	concepts := make([]catalog.Concept, 0, len(points))
	for _, p := range points {
		payload := p.GetPayload()
		kind := catalog.ConceptKind(stringField(payload, "type"))
		switch kind {
		case "CODE", "STRING", "DATE":
			kind = catalog.KindDimension
		case "NUMBER", "INTEGER", "DECIMAL":
			kind = catalog.KindMetric
		}
		concepts = append(concepts, catalog.Concept{
			Name:     stringField(payload, "name"),
			Kind:     kind,
			DataType: stringField(payload, "data_type"),
			Labels:   stringMapField(payload, "labels"),
			Values:   stringListField(payload, "values"),
		})
	}
	return concepts, nil
}

func (s *Source) LoadIntents(ctx context.Context) ([]catalog.Intent, error) {
	points, err := s.scrollAll(ctx, s.intentsCollection())
	if err != nil {
		return nil, fmt.Errorf("qdrant intents scroll: %w", err)
	}
	intents := make([]catalog.Intent, 0, len(points))
	for _, p := range points {
		payload := p.GetPayload()
		intents = append(intents, catalog.Intent{
			Name:            stringField(payload, "name"),
			Description:     stringField(payload, "description"),
			Filters:         stringListField(payload, "filters"),
			RequiredFilters: stringListField(payload, "required_filters"),
			Metrics:         stringListField(payload, "metrics"),
			Dimensions:      stringListField(payload, "dimensions"),
		})
	}
	return intents, nil
}

// scrollAll pages through a collection with WithPayload enabled, following
// Qdrant's scroll-cursor convention until no next-page offset is returned.
func (s *Source) scrollAll(ctx context.Context, collection string) ([]*qdrant.RetrievedPoint, error) {
	exists, err := s.Client.CollectionExists(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	var all []*qdrant.RetrievedPoint
	var offset *qdrant.PointId
	const pageSize = 256

	for {
		req := &qdrant.ScrollPoints{
			CollectionName: collection,
			Limit:          ptrUint32(pageSize),
			WithPayload:    qdrant.NewWithPayload(true),
			Offset:         offset,
		}
		points, err := s.Client.Scroll(ctx, req)
		if err != nil {
			return nil, err
		}
		all = append(all, points...)
		if len(points) < pageSize {
			break
		}
		offset = points[len(points)-1].GetId()
	}
	return all, nil
}

func stringField(payload map[string]*qdrant.Value, key string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return ""
	}
	return v.GetStringValue()
}

func stringListField(payload map[string]*qdrant.Value, key string) []string {
	v, ok := payload[key]
	if !ok || v == nil || v.GetListValue() == nil {
		return nil
	}
	values := v.GetListValue().GetValues()
	out := make([]string, 0, len(values))
	for _, item := range values {
		out = append(out, item.GetStringValue())
	}
	return out
}

func stringMapField(payload map[string]*qdrant.Value, key string) map[string]string {
	v, ok := payload[key]
	if !ok || v == nil || v.GetStructValue() == nil {
		return map[string]string{}
	}
	fields := v.GetStructValue().GetFields()
	out := make(map[string]string, len(fields))
	for locale, val := range fields {
		out[locale] = val.GetStringValue()
	}
	return out
}

func ptrUint32(v uint32) *uint32 { return &v }
