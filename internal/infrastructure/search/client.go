// Package search talks to the hosted product search index.
package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"fiber-storefront/internal/domain"
	"fiber-storefront/pkg/logger"
)

const serviceName = "search"

type Config struct {
	AppID       string
	APIKey      string
	IndexPrefix string
	Timeout     time.Duration
	// Host overrides https://{AppID}-dsn.algolia.net.
	Host string
}

type Client struct {
	host       string
	appID      string
	apiKey     string
	indexName  string
	httpClient *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.AppID == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("search: app id and api key are required")
	}
	host := cfg.Host
	if host == "" {
		host = fmt.Sprintf("https://%s-dsn.algolia.net", cfg.AppID)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		host:       host,
		appID:      cfg.AppID,
		apiKey:     cfg.APIKey,
		indexName:  cfg.IndexPrefix + "products",
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type queryRequest struct {
	Query        string     `json:"query"`
	Page         int        `json:"page"`
	HitsPerPage  int        `json:"hitsPerPage,omitempty"`
	Facets       []string   `json:"facets,omitempty"`
	FacetFilters [][]string `json:"facetFilters,omitempty"`
}

func (c *Client) Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResponse, error) {
	var out domain.SearchResponse
	path := "/1/indexes/" + url.PathEscape(c.indexName) + "/query"
	err := c.post(ctx, "query", path, queryRequest{
		Query:        q.Query,
		Page:         q.Page,
		HitsPerPage:  q.HitsPerPage,
		Facets:       q.Facets,
		FacetFilters: q.FacetFilters,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Hits == nil {
		out.Hits = []domain.SearchHit{}
	}
	return &out, nil
}

type recommendRequest struct {
	Requests []recommendQuery `json:"requests"`
}

type recommendQuery struct {
	IndexName          string `json:"indexName"`
	ObjectID           string `json:"objectID"`
	Model              string `json:"model"`
	Threshold          int    `json:"threshold"`
	MaxRecommendations int    `json:"maxRecommendations,omitempty"`
}

// Recommendations returns related products for objectID.
func (c *Client) Recommendations(ctx context.Context, objectID string, limit int) ([]domain.SearchHit, error) {
	var out struct {
		Results []struct {
			Hits []domain.SearchHit `json:"hits"`
		} `json:"results"`
	}
	err := c.post(ctx, "recommendations", "/1/indexes/*/recommendations", recommendRequest{
		Requests: []recommendQuery{{
			IndexName:          c.indexName,
			ObjectID:           objectID,
			Model:              "related-products",
			MaxRecommendations: limit,
		}},
	}, &out)
	if err != nil {
		return nil, err
	}
	hits := []domain.SearchHit{}
	for _, r := range out.Results {
		hits = append(hits, r.Hits...)
	}
	return hits, nil
}

func (c *Client) post(ctx context.Context, op, path string, body, out interface{}) error {
	start := time.Now()
	err := c.doPost(ctx, path, body, out)
	logger.Upstream(ctx, serviceName, op, time.Since(start), err)
	return err
}

func (c *Client) doPost(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Algolia-Application-Id", c.appID)
	req.Header.Set("X-Algolia-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.UpstreamStatusError{Service: serviceName, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode search response: %w", err)
	}
	return nil
}
