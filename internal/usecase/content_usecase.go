package usecase

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"fiber-storefront/config"
	"fiber-storefront/internal/domain"
	"fiber-storefront/pkg/cache"
)

const (
	contentSettingsKey = "content:settings"
	contentHomeKey     = "content:home"
)

// PageView is a CMS page with SEO already merged over the site defaults.
type PageView struct {
	*domain.Page
	SEO domain.SEO `json:"seo"`
}

type HomeView struct {
	Modules domain.RawJSON `json:"modules,omitempty"`
	SEO     domain.SEO     `json:"seo"`
}

type ContentUsecase struct {
	repo  domain.ContentRepository
	cache cache.CacheService
	group singleflight.Group
	cfg   *config.Config
}

func NewContentUsecase(repo domain.ContentRepository, cache cache.CacheService, cfg *config.Config) *ContentUsecase {
	return &ContentUsecase{repo: repo, cache: cache, cfg: cfg}
}

func (u *ContentUsecase) GetSettings(ctx context.Context) (*domain.Settings, error) {
	return cached(ctx, u.cache, &u.group, contentSettingsKey, u.cfg.CacheContentTTL, u.repo.GetSettings)
}

func (u *ContentUsecase) GetPage(ctx context.Context, slug string) (*PageView, error) {
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return nil, domain.NewValidationError("slug", "Page slug is required")
	}
	page, err := cached(ctx, u.cache, &u.group, "content:page:"+slug, u.cfg.CacheContentTTL,
		func(ctx context.Context) (*domain.Page, error) {
			return u.repo.GetPage(ctx, slug)
		})
	if err != nil {
		return nil, err
	}
	return &PageView{Page: page, SEO: domain.MergeSEO(u.seoDefaults(ctx), page.SEO)}, nil
}

func (u *ContentUsecase) GetHome(ctx context.Context) (*HomeView, error) {
	home, err := cached(ctx, u.cache, &u.group, contentHomeKey, u.cfg.CacheContentTTL, u.repo.GetHome)
	if err != nil {
		return nil, err
	}
	return &HomeView{Modules: home.Modules, SEO: domain.MergeSEO(u.seoDefaults(ctx), home.SEO)}, nil
}

// seoDefaults never fails a page render; missing settings give empty defaults.
func (u *ContentUsecase) seoDefaults(ctx context.Context) domain.SEO {
	settings, err := u.GetSettings(ctx)
	if err != nil || settings == nil {
		return domain.SEO{}
	}
	return settings.SEO
}
