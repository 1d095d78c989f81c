package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

const resultIndex = "persuasion_scan_results"

// ScanDocument is the shape indexed into Elasticsearch for each agent result.
type ScanDocument struct {
	Origin       string           `json:"origin"`
	Path         string           `json:"path"`
	Agent        string           `json:"agent"`
	OverallScore float64          `json:"overall_score"`
	RiskLevel    string           `json:"risk_level"`
	Findings     []domain.Finding `json:"findings"`
	ScannedAt    time.Time        `json:"scanned_at"`
}

// ElasticsearchStorage indexes scan results for search and dashboards.
type ElasticsearchStorage struct {
	client *es.Client
}

// NewElasticsearchStorage creates a new Elasticsearch storage instance.
func NewElasticsearchStorage(client *es.Client) *ElasticsearchStorage {
	return &ElasticsearchStorage{
		client: client,
	}
}

// IndexResult indexes one aggregate result for a scanned page.
func (s *ElasticsearchStorage) IndexResult(ctx context.Context, content *domain.ContentRecord, result *domain.AggregateResult) error {
	doc := ScanDocument{
		Origin:       content.Origin,
		Path:         content.Path,
		Agent:        result.Agent,
		OverallScore: result.OverallScore,
		RiskLevel:    string(result.RiskLevel),
		Findings:     result.Findings,
		ScannedAt:    time.Now().UTC(),
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := s.client.Index(
		resultIndex,
		bytes.NewReader(docBytes),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

// BulkIndexResults indexes multiple aggregate results in one request.
func (s *ElasticsearchStorage) BulkIndexResults(ctx context.Context, content *domain.ContentRecord, results []*domain.AggregateResult) error {
	if len(results) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, result := range results {
		meta := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": resultIndex,
			},
		}
		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return fmt.Errorf("failed to encode meta: %w", err)
		}

		doc := ScanDocument{
			Origin:       content.Origin,
			Path:         content.Path,
			Agent:        result.Agent,
			OverallScore: result.OverallScore,
			RiskLevel:    string(result.RiskLevel),
			Findings:     result.Findings,
			ScannedAt:    time.Now().UTC(),
		}
		if err := json.NewEncoder(&buf).Encode(doc); err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
	}

	res, err := s.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		s.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk indexing error: %s", res.String())
	}

	return nil
}

// RecentByOrigin returns the most recent indexed results for one origin.
func (s *ElasticsearchStorage) RecentByOrigin(ctx context.Context, origin string, size int) ([]ScanDocument, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"origin": origin,
			},
		},
		"size": size,
		"sort": []map[string]interface{}{
			{
				"scanned_at": map[string]interface{}{
					"order": "desc",
				},
			},
		},
	}

	queryBytes, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(resultIndex),
		s.client.Search.WithBody(bytes.NewReader(queryBytes)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				Source ScanDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	docs := make([]ScanDocument, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}

// TestConnection tests the connection to Elasticsearch.
func (s *ElasticsearchStorage) TestConnection(ctx context.Context) error {
	res, err := s.client.Info()
	if err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response from Elasticsearch: %s", res.String())
	}

	return nil
}
