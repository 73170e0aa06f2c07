// Package cms reads editorial content either live from the CMS query API or
// from JSON snapshots exported to an object bucket.
package cms

import (
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

const serviceName = "cms"

type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	Timeout    time.Duration
	// BaseURL overrides https://{ProjectID}.api.sanity.io.
	BaseURL string
}

// QueryClient implements domain.ContentRepository against the query API.
type QueryClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

func NewQueryClient(cfg Config) (*QueryClient, error) {
	if cfg.ProjectID == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("cms: project id is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.api.sanity.io", cfg.ProjectID)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &QueryClient{
		endpoint:   fmt.Sprintf("%s/v%s/data/query/%s", base, cfg.APIVersion, cfg.Dataset),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type queryResponse[T any] struct {
	Result T `json:"result"`
}

// fetch runs a GROQ query. Params are sent JSON encoded as $name arguments.
func fetch[T any](ctx context.Context, c *QueryClient, name, query string, params map[string]interface{}) (T, error) {
	start := time.Now()
	out, err := doFetch[T](ctx, c, query, params)
	logger.Upstream(ctx, serviceName, name, time.Since(start), err)
	return out, err
}

func doFetch[T any](ctx context.Context, c *QueryClient, query string, params map[string]interface{}) (T, error) {
	var zero T

	values := url.Values{}
	values.Set("query", query)
	for k, v := range params {
		encoded, err := json.Marshal(v)
		if err != nil {
			return zero, fmt.Errorf("failed to encode param %s: %w", k, err)
		}
		values.Set("$"+k, string(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return zero, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("cms request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("failed to read cms response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, &domain.UpstreamStatusError{Service: serviceName, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out queryResponse[T]
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("failed to decode cms response: %w", err)
	}
	return out.Result, nil
}

func (c *QueryClient) GetPage(ctx context.Context, slug string) (*domain.Page, error) {
	page, err := fetch[*domain.Page](ctx, c, "page", pageQuery, map[string]interface{}{"slug": slug})
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, domain.ErrContentNotFound
	}
	return page, nil
}

func (c *QueryClient) GetHome(ctx context.Context) (*domain.HomePage, error) {
	home, err := fetch[*domain.HomePage](ctx, c, "home", homeQuery, nil)
	if err != nil {
		return nil, err
	}
	if home == nil {
		return nil, domain.ErrContentNotFound
	}
	return home, nil
}

func (c *QueryClient) GetSettings(ctx context.Context) (*domain.Settings, error) {
	settings, err := fetch[*domain.Settings](ctx, c, "settings", settingsQuery, nil)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &domain.Settings{}, nil
	}
	return settings, nil
}

func (c *QueryClient) GetSitemap(ctx context.Context, baseURL string) (*domain.SitemapPayload, error) {
	payload, err := fetch[domain.SitemapPayload](ctx, c, "sitemap", sitemapQuery, map[string]interface{}{"baseUrl": baseURL})
	if err != nil {
		return nil, err
	}
	payload.Home.URL = baseURL
	return &payload, nil
}
