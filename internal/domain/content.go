package domain

import (
	"context"
	"errors"
	"time"
)

// SEO holds page metadata managed in the CMS.
type SEO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Page is an editorial CMS page. Body is portable text kept opaque.
type Page struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Body      RawJSON   `json:"body,omitempty"`
	SEO       *SEO      `json:"seo,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type HomePage struct {
	Modules RawJSON `json:"modules,omitempty"`
	SEO     *SEO    `json:"seo,omitempty"`
}

type NavigationLink struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// Settings carries the site-wide chrome: header navigation, footer and SEO defaults.
type Settings struct {
	SEO         SEO              `json:"seo"`
	Navigation  []NavigationLink `json:"navigation"`
	FooterLinks []NavigationLink `json:"footerLinks"`
	FooterText  RawJSON          `json:"footerText,omitempty"`
}

// MergeSEO fills empty page fields from the site defaults.
func MergeSEO(defaults SEO, page *SEO) SEO {
	out := defaults
	if page == nil {
		return out
	}
	if page.Title != "" {
		out.Title = page.Title
	}
	if page.Description != "" {
		out.Description = page.Description
	}
	if page.ImageURL != "" {
		out.ImageURL = page.ImageURL
	}
	return out
}

// SitemapEntry is one document reference returned by the CMS sitemap query.
type SitemapEntry struct {
	UpdatedAt string `json:"_updatedAt"`
	ImageURL  string `json:"imageUrl,omitempty"`
	URL       string `json:"url,omitempty"`
}

type SitemapPayload struct {
	Home        SitemapEntry   `json:"home"`
	Pages       []SitemapEntry `json:"pages"`
	Products    []SitemapEntry `json:"products"`
	Collections []SitemapEntry `json:"collections"`
}

var (
	ErrContentNotFound = errors.New("content not found")
)

// --- Interfaces ---

// ContentRepository is implemented by both the CMS query client and the bucket snapshot source.
type ContentRepository interface {
	GetPage(ctx context.Context, slug string) (*Page, error)
	GetHome(ctx context.Context) (*HomePage, error)
	GetSettings(ctx context.Context) (*Settings, error)
	GetSitemap(ctx context.Context, baseURL string) (*SitemapPayload, error)
}
