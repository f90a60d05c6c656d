// Package graph implements the preferred Bindings catalog source: an
// ArangoDB-backed store queried over its REST AQL cursor endpoint.
//
// No real ArangoDB Go driver appears anywhere in the reference corpus (see
// DESIGN.md), so this source talks to ArangoDB's documented HTTP API
// directly with net/http + encoding/json rather than fabricating a driver
// dependency; the AQL query shape and collection-prefix convention are
// grounded on loaders/arangodb_loader.py.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/DanielChung520/AI-Box-sub009/internal/catalog"
)

// Source queries the "<CollectionPrefix>bindings" collection.
type Source struct {
	BaseURL          string // e.g. "http://arangodb:8529"
	Database         string
	User             string
	Password         string
	CollectionPrefix string
	HTTPClient       *http.Client
}

func (s *Source) client() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

type bindingDoc struct {
	Concept     string `json:"concept"`
	Dialect     string `json:"dialect"`
	Table       string `json:"table"`
	Column      string `json:"column"`
	Aggregation string `json:"aggregation"`
	Operator    string `json:"operator"`
	S3Path      string `json:"s3_path"`
}

type cursorRequest struct {
	Query string `json:"query"`
}

type cursorResponse struct {
	Result []bindingDoc `json:"result"`
	Error  bool         `json:"error"`
	Code   int          `json:"code"`
	ErrMsg string       `json:"errorMessage"`
}

func (s *Source) LoadBindings(ctx context.Context) ([]catalog.Binding, error) {
	collection := s.CollectionPrefix + "bindings"
	query := fmt.Sprintf("FOR b IN %s RETURN b", collection)

	body, err := json.Marshal(cursorRequest{Query: query})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/_db/%s/_api/cursor", s.BaseURL, s.Database)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.User != "" {
		req.SetBasicAuth(s.User, s.Password)
	}

	resp, err := s.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("arangodb cursor request: %w", err)
	}
	defer resp.Body.Close()

	var cr cursorResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("arangodb cursor response decode: %w", err)
	}
	if cr.Error {
		return nil, fmt.Errorf("arangodb error %d: %s", cr.Code, cr.ErrMsg)
	}

	bindings := make([]catalog.Binding, 0, len(cr.Result))
	for _, doc := range cr.Result {
		agg := catalog.Aggregation(doc.Aggregation)
		if agg == "" {
			agg = catalog.AggNone
		}
		op := catalog.Operator(doc.Operator)
		if op == "" {
			op = catalog.OpEqual
		}
		bindings = append(bindings, catalog.Binding{
			Concept:     doc.Concept,
			Dialect:     catalog.Dialect(doc.Dialect),
			Table:       doc.Table,
			Column:      doc.Column,
			Aggregation: agg,
			Operator:    op,
			S3Path:      doc.S3Path,
		})
	}
	return bindings, nil
}
