package usecase

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"fiber-storefront/config"
	"fiber-storefront/internal/domain"
	"fiber-storefront/pkg/cache"
)

const sitemapCacheKey = "sitemap:xml"

type sitemapImage struct {
	Loc string `xml:"image:loc"`
}

type SitemapItem struct {
	Loc        string        `xml:"loc"`
	LastMod    string        `xml:"lastmod,omitempty"`
	ChangeFreq string        `xml:"changefreq"`
	Image      *sitemapImage `xml:"image:image,omitempty"`
}

type urlSet struct {
	XMLName    xml.Name      `xml:"urlset"`
	Xmlns      string        `xml:"xmlns,attr"`
	XmlnsImage string        `xml:"xmlns:image,attr"`
	URLs       []SitemapItem `xml:"url"`
}

type SitemapUsecase struct {
	content domain.ContentRepository
	baseURL string
	cache   cache.CacheService
	group   singleflight.Group
	cfg     *config.Config
}

func NewSitemapUsecase(content domain.ContentRepository, baseURL string, cache cache.CacheService, cfg *config.Config) *SitemapUsecase {
	return &SitemapUsecase{
		content: content,
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache,
		cfg:     cfg,
	}
}

// GenerateSitemap renders sitemap.xml: home, products and collections daily, pages weekly.
func (u *SitemapUsecase) GenerateSitemap(ctx context.Context) ([]byte, error) {
	return cached(ctx, u.cache, &u.group, sitemapCacheKey, u.cfg.CacheSitemapTTL,
		func(ctx context.Context) ([]byte, error) {
			payload, err := u.content.GetSitemap(ctx, u.baseURL)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch sitemap documents: %w", err)
			}
			return renderSitemap(u.items(payload))
		})
}

func (u *SitemapUsecase) items(payload *domain.SitemapPayload) []SitemapItem {
	home := payload.Home
	if home.URL == "" {
		home.URL = u.baseURL
	}

	items := make([]SitemapItem, 0, 1+len(payload.Products)+len(payload.Collections)+len(payload.Pages))
	items = append(items, toSitemapItem(home, domain.ChangeFreqDaily))
	for _, p := range payload.Products {
		items = append(items, toSitemapItem(p, domain.ChangeFreqDaily))
	}
	for _, c := range payload.Collections {
		items = append(items, toSitemapItem(c, domain.ChangeFreqDaily))
	}
	for _, p := range payload.Pages {
		items = append(items, toSitemapItem(p, domain.ChangeFreqWeekly))
	}
	return items
}

func toSitemapItem(e domain.SitemapEntry, freq string) SitemapItem {
	item := SitemapItem{Loc: e.URL, LastMod: e.UpdatedAt, ChangeFreq: freq}
	if e.ImageURL != "" {
		item.Image = &sitemapImage{Loc: e.ImageURL}
	}
	return item
}

func renderSitemap(items []SitemapItem) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	err := enc.Encode(urlSet{
		Xmlns:      "http://www.sitemaps.org/schemas/sitemap/0.9",
		XmlnsImage: "http://www.google.com/schemas/sitemap-image/1.1",
		URLs:       items,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	return buf.Bytes(), nil
}

// RobotsTxt points crawlers at the sitemap and keeps them out of private paths.
func (u *SitemapUsecase) RobotsTxt() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	for _, p := range []string{"/admin", "/cart", "/orders", "/checkouts/", "/checkout", "/carts", "/account"} {
		b.WriteString("Disallow: " + p + "\n")
	}
	b.WriteString("Sitemap: " + u.baseURL + "/sitemap.xml\n\n")

	b.WriteString("# Google adsbot ignores robots.txt unless specifically named!\n")
	b.WriteString("User-agent: adsbot-google\n")
	for _, p := range []string{"/checkouts/", "/checkout", "/carts", "/orders"} {
		b.WriteString("Disallow: " + p + "\n")
	}
	b.WriteString("\nUser-agent: Pinterest\nCrawl-delay: 1\n")
	return b.String()
}
