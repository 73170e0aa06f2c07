package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiber-storefront/internal/domain"
)

func TestSitemapUsecase_GenerateSitemap(t *testing.T) {
	repo := &fakeContentRepo{sitemap: &domain.SitemapPayload{
		Home: domain.SitemapEntry{UpdatedAt: "2024-05-01T10:00:00Z", ImageURL: "https://cdn.example.com/home.jpg"},
		Products: []domain.SitemapEntry{
			{UpdatedAt: "2024-05-02T10:00:00Z", URL: "https://shop.example.com/products/shirt"},
		},
		Collections: []domain.SitemapEntry{
			{URL: "https://shop.example.com/collections/tops"},
		},
		Pages: []domain.SitemapEntry{
			{UpdatedAt: "2024-05-03T10:00:00Z", URL: "https://shop.example.com/pages/about"},
		},
	}}
	uc := NewSitemapUsecase(repo, "https://shop.example.com/", newTestCache(), testConfig())

	out, err := uc.GenerateSitemap(context.Background())
	require.NoError(t, err)
	xml := string(out)

	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, xml, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
	assert.Contains(t, xml, `xmlns:image="http://www.google.com/schemas/sitemap-image/1.1"`)
	assert.Contains(t, xml, "<loc>https://shop.example.com</loc>")
	assert.Contains(t, xml, "<image:loc>https://cdn.example.com/home.jpg</image:loc>")
	assert.Contains(t, xml, "<lastmod>2024-05-02T10:00:00Z</lastmod>")
	assert.Equal(t, 3, strings.Count(xml, "<changefreq>daily</changefreq>"))
	assert.Equal(t, 1, strings.Count(xml, "<changefreq>weekly</changefreq>"))
	assert.Equal(t, 1, strings.Count(xml, "<image:image>"))

	home := strings.Index(xml, "https://shop.example.com</loc>")
	product := strings.Index(xml, "/products/shirt")
	collection := strings.Index(xml, "/collections/tops")
	page := strings.Index(xml, "/pages/about")
	assert.True(t, home < product && product < collection && collection < page)

	_, err = uc.GenerateSitemap(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, repo.sitemapCalls.Load())
}

func TestSitemapUsecase_RobotsTxt(t *testing.T) {
	uc := NewSitemapUsecase(&fakeContentRepo{}, "https://shop.example.com", newTestCache(), testConfig())
	robots := uc.RobotsTxt()

	assert.True(t, strings.HasPrefix(robots, "User-agent: *\nDisallow: /admin\n"))
	assert.Contains(t, robots, "Sitemap: https://shop.example.com/sitemap.xml\n")
	assert.Contains(t, robots, "User-agent: adsbot-google\nDisallow: /checkouts/\nDisallow: /checkout\nDisallow: /carts\nDisallow: /orders\n")
	assert.True(t, strings.HasSuffix(robots, "User-agent: Pinterest\nCrawl-delay: 1\n"))
}
