package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"fiber-storefront/config"
	"fiber-storefront/internal/domain"
	"fiber-storefront/internal/options"
	"fiber-storefront/pkg/cache"
	"fiber-storefront/pkg/logger"
)

const (
	defaultCollectionLimit = 24
	maxCollectionLimit     = 250
)

// ProductView is a product page: the product plus the resolver's answer for
// the requested selection.
type ProductView struct {
	Product            *domain.Product   `json:"product"`
	SelectedOptions    map[string]string `json:"selectedOptions"`
	SelectedVariant    *domain.Variant   `json:"selectedVariant"`
	HasMultipleOptions bool              `json:"hasMultipleOptions"`
	OptionSummary      string            `json:"optionSummary"`
	SEO                domain.SEO        `json:"seo"`
}

type sortOption struct {
	key     string
	reverse bool
}

var collectionSorts = map[string]sortOption{
	"":             {domain.SortCollectionDefault, false},
	"default":      {domain.SortCollectionDefault, false},
	"price-asc":    {domain.SortPrice, false},
	"price-desc":   {domain.SortPrice, true},
	"title-asc":    {domain.SortTitle, false},
	"title-desc":   {domain.SortTitle, true},
	"created":      {domain.SortCreated, true},
	"best-selling": {domain.SortBestSelling, false},
}

type CatalogUsecase struct {
	repo    domain.CatalogRepository
	content domain.ContentRepository
	cache   cache.CacheService
	group   singleflight.Group
	cfg     *config.Config
}

func NewCatalogUsecase(repo domain.CatalogRepository, content domain.ContentRepository, cache cache.CacheService, cfg *config.Config) *CatalogUsecase {
	return &CatalogUsecase{
		repo:    repo,
		content: content,
		cache:   cache,
		cfg:     cfg,
	}
}

func (uc *CatalogUsecase) GetProduct(ctx context.Context, handle string) (*domain.Product, error) {
	if handle == "" {
		return nil, domain.NewValidationError("handle", "Product handle is required")
	}
	return cached(ctx, uc.cache, &uc.group, "product:handle:"+handle, uc.cfg.CacheProductTTL,
		func(ctx context.Context) (*domain.Product, error) {
			return uc.repo.GetProductByHandle(ctx, handle)
		})
}

// ProductPage loads the product and the site SEO defaults together, then
// applies the requested variant and option selection.
func (uc *CatalogUsecase) ProductPage(ctx context.Context, handle, variantID string, selections map[string]string) (*ProductView, error) {
	var (
		product  *domain.Product
		settings *domain.Settings
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := uc.GetProduct(gctx, handle)
		product = p
		return err
	})
	g.Go(func() error {
		s, err := uc.settings(gctx)
		if err != nil {
			// SEO defaults are optional on a product page.
			logger.WithContext(ctx).Warn().Err(err).Msg("Failed to load site settings")
			return nil
		}
		settings = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resolver := options.NewResolver(product, variantID)

	// Parameters that name no declared option (tracking tags and the like) are not picks.
	names := make([]string, 0, len(selections))
	for name := range selections {
		if resolver.HasOption(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if err := resolver.SetSelectedOption(name, selections[name]); err != nil {
			var invalid *options.InvalidOptionValueError
			if errors.As(err, &invalid) {
				return nil, domain.NewValidationError(invalid.Option, fmt.Sprintf("Please choose an available %s", strings.ToLower(invalid.Option)))
			}
			return nil, err
		}
	}

	var defaults domain.SEO
	if settings != nil {
		defaults = settings.SEO
	}
	productSEO := &domain.SEO{Title: product.Title, Description: product.Description}
	if product.FeaturedImage != nil {
		productSEO.ImageURL = product.FeaturedImage.URL
	}

	return &ProductView{
		Product:            product,
		SelectedOptions:    resolver.SelectedOptions(),
		SelectedVariant:    resolver.SelectedVariant(),
		HasMultipleOptions: options.HasMultipleOptions(product.Options),
		OptionSummary:      options.OptionSummary(product.Options),
		SEO:                domain.MergeSEO(defaults, productSEO),
	}, nil
}

func (uc *CatalogUsecase) GetRecommendations(ctx context.Context, handle string) ([]domain.Product, error) {
	product, err := uc.GetProduct(ctx, handle)
	if err != nil {
		return nil, err
	}
	return cached(ctx, uc.cache, &uc.group, "product:recommendations:"+product.ID, uc.cfg.CacheProductTTL,
		func(ctx context.Context) ([]domain.Product, error) {
			return uc.repo.GetProductRecommendations(ctx, product.ID)
		})
}

// ParseCollectionFilter turns query parameters into a backend filter.
func ParseCollectionFilter(handle, sortParam, after string, limit int) (domain.CollectionFilter, error) {
	opt, ok := collectionSorts[strings.ToLower(sortParam)]
	if !ok {
		return domain.CollectionFilter{}, domain.NewValidationError("sort", fmt.Sprintf("Unknown sort option %q", sortParam))
	}
	switch {
	case limit <= 0:
		limit = defaultCollectionLimit
	case limit > maxCollectionLimit:
		limit = maxCollectionLimit
	}
	return domain.CollectionFilter{
		Handle:  handle,
		SortKey: opt.key,
		Reverse: opt.reverse,
		After:   after,
		Limit:   limit,
	}, nil
}

func (uc *CatalogUsecase) GetCollection(ctx context.Context, filter domain.CollectionFilter) (*domain.Collection, error) {
	if filter.Handle == "" {
		return nil, domain.NewValidationError("handle", "Collection handle is required")
	}
	key := fmt.Sprintf("collection:%s:%s:%t:%s:%d", filter.Handle, filter.SortKey, filter.Reverse, filter.After, filter.Limit)
	return cached(ctx, uc.cache, &uc.group, key, uc.cfg.CacheProductTTL,
		func(ctx context.Context) (*domain.Collection, error) {
			return uc.repo.GetCollection(ctx, filter)
		})
}

func (uc *CatalogUsecase) settings(ctx context.Context) (*domain.Settings, error) {
	return cached(ctx, uc.cache, &uc.group, contentSettingsKey, uc.cfg.CacheContentTTL, uc.content.GetSettings)
}
