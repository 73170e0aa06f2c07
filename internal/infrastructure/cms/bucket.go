package cms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"fiber-storefront/internal/domain"
	"fiber-storefront/pkg/storage"
)

// ObjectReader is satisfied by *storage.BucketStorage.
type ObjectReader interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// BucketSource serves content from exported snapshots:
// home.json, settings.json, sitemap.json and pages/{slug}.json.
// Sitemap URLs in snapshots are site-relative paths.
type BucketSource struct {
	reader ObjectReader
}

func NewBucketSource(reader ObjectReader) *BucketSource {
	return &BucketSource{reader: reader}
}

func readJSON[T any](ctx context.Context, r ObjectReader, key string) (*T, error) {
	data, err := r.GetObject(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, domain.ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}
	return &out, nil
}

func (s *BucketSource) GetPage(ctx context.Context, slug string) (*domain.Page, error) {
	if slug == "" || strings.ContainsAny(slug, "/\\") || strings.Contains(slug, "..") {
		return nil, domain.ErrContentNotFound
	}
	return readJSON[domain.Page](ctx, s.reader, "pages/"+slug+".json")
}

func (s *BucketSource) GetHome(ctx context.Context) (*domain.HomePage, error) {
	return readJSON[domain.HomePage](ctx, s.reader, "home.json")
}

func (s *BucketSource) GetSettings(ctx context.Context) (*domain.Settings, error) {
	settings, err := readJSON[domain.Settings](ctx, s.reader, "settings.json")
	if errors.Is(err, domain.ErrContentNotFound) {
		return &domain.Settings{}, nil
	}
	return settings, err
}

func (s *BucketSource) GetSitemap(ctx context.Context, baseURL string) (*domain.SitemapPayload, error) {
	payload, err := readJSON[domain.SitemapPayload](ctx, s.reader, "sitemap.json")
	if err != nil {
		return nil, err
	}
	base := strings.TrimSuffix(baseURL, "/")
	payload.Home.URL = base
	for _, entries := range [][]domain.SitemapEntry{payload.Pages, payload.Products, payload.Collections} {
		for i := range entries {
			if strings.HasPrefix(entries[i].URL, "/") {
				entries[i].URL = base + entries[i].URL
			}
		}
	}
	return payload, nil
}
