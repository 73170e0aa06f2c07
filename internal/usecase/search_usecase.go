package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"fiber-storefront/config"
	"fiber-storefront/internal/domain"
	"fiber-storefront/pkg/cache"
)

const (
	defaultHitsPerPage    = 24
	maxHitsPerPage        = 100
	autocompleteHits      = 5
	recommendationsLimit  = 8
	maxSearchQueryLength  = 256
	facetFilterSeparator  = ":"
	searchCacheKeyVersion = "v1"
)

// clothingSizeOrder is the display order for lettered sizes.
var clothingSizeOrder = []string{"os", "xxs", "xs", "s", "m", "l", "xl", "2xl", "xxl"}

// SearchParams are the shopper-facing search inputs. Page is one-based.
type SearchParams struct {
	Query   string
	Page    int
	Limit   int
	Filters []string // "attribute:value"
}

type SearchUsecase struct {
	repo  domain.SearchRepository
	cache cache.CacheService
	group singleflight.Group
	cfg   *config.Config
}

func NewSearchUsecase(repo domain.SearchRepository, cache cache.CacheService, cfg *config.Config) *SearchUsecase {
	return &SearchUsecase{repo: repo, cache: cache, cfg: cfg}
}

func (u *SearchUsecase) Search(ctx context.Context, params SearchParams) (*domain.SearchResult, error) {
	q, err := buildSearchQuery(params)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("search:%s:%s:%d:%d:%v", searchCacheKeyVersion, q.Query, q.Page, q.HitsPerPage, q.FacetFilters)
	return cached(ctx, u.cache, &u.group, key, u.cfg.CacheSearchTTL,
		func(ctx context.Context) (*domain.SearchResult, error) {
			resp, err := u.repo.Search(ctx, q)
			if err != nil {
				return nil, err
			}
			return &domain.SearchResult{
				Hits:   nonNilHits(resp.Hits),
				Facets: shapeFacets(resp.Facets),
				Pagination: domain.Pagination{
					Page:       resp.Page + 1,
					Limit:      resp.HitsPerPage,
					TotalItems: int64(resp.NbHits),
					TotalPages: resp.NbPages,
				},
			}, nil
		})
}

// Autocomplete returns the top hits for a partial query without facets.
func (u *SearchUsecase) Autocomplete(ctx context.Context, query string) ([]domain.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchHit{}, nil
	}
	if len(query) > maxSearchQueryLength {
		return nil, domain.NewValidationError("q", "Search query is too long")
	}
	return cached(ctx, u.cache, &u.group, "search:autocomplete:"+query, u.cfg.CacheSearchTTL,
		func(ctx context.Context) ([]domain.SearchHit, error) {
			resp, err := u.repo.Search(ctx, domain.SearchQuery{Query: query, HitsPerPage: autocompleteHits})
			if err != nil {
				return nil, err
			}
			return nonNilHits(resp.Hits), nil
		})
}

func (u *SearchUsecase) Recommendations(ctx context.Context, objectID string) ([]domain.SearchHit, error) {
	if objectID == "" {
		return nil, domain.NewValidationError("objectID", "objectID is required")
	}
	return cached(ctx, u.cache, &u.group, "search:recommendations:"+objectID, u.cfg.CacheSearchTTL,
		func(ctx context.Context) ([]domain.SearchHit, error) {
			hits, err := u.repo.Recommendations(ctx, objectID, recommendationsLimit)
			if err != nil {
				return nil, err
			}
			return nonNilHits(hits), nil
		})
}

func buildSearchQuery(params SearchParams) (domain.SearchQuery, error) {
	query := strings.TrimSpace(params.Query)
	if len(query) > maxSearchQueryLength {
		return domain.SearchQuery{}, domain.NewValidationError("q", "Search query is too long")
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	switch {
	case limit < 1:
		limit = defaultHitsPerPage
	case limit > maxHitsPerPage:
		limit = maxHitsPerPage
	}

	filters, err := groupFacetFilters(params.Filters)
	if err != nil {
		return domain.SearchQuery{}, err
	}

	return domain.SearchQuery{
		Query:        query,
		Page:         page - 1,
		HitsPerPage:  limit,
		FacetFilters: filters,
		Facets:       domain.SearchFacets,
	}, nil
}

// groupFacetFilters ORs values of one attribute and ANDs across attributes.
func groupFacetFilters(raw []string) ([][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	allowed := make(map[string]bool, len(domain.SearchFacets))
	for _, f := range domain.SearchFacets {
		allowed[f] = true
	}

	var order []string
	groups := make(map[string][]string)
	for _, f := range raw {
		attr, value, ok := strings.Cut(f, facetFilterSeparator)
		if !ok || value == "" {
			return nil, domain.NewValidationError("filter", fmt.Sprintf("Invalid filter %q", f))
		}
		if !allowed[attr] {
			return nil, domain.NewValidationError("filter", fmt.Sprintf("Unknown filter %q", attr))
		}
		if _, seen := groups[attr]; !seen {
			order = append(order, attr)
		}
		groups[attr] = append(groups[attr], attr+facetFilterSeparator+value)
	}

	out := make([][]string, 0, len(order))
	for _, attr := range order {
		out = append(out, groups[attr])
	}
	return out, nil
}

// shapeFacets orders facets as requested and splits the size facet into
// clothing and shoe sizes.
func shapeFacets(raw map[string]map[string]int) []domain.Facet {
	facets := make([]domain.Facet, 0, len(raw)+1)
	for _, attr := range domain.SearchFacets {
		counts, ok := raw[attr]
		if !ok || len(counts) == 0 {
			continue
		}
		values := toFacetValues(counts)

		if attr == domain.FacetSize {
			clothing, shoe := splitSizes(values)
			if len(clothing) > 0 {
				sortClothingSizes(clothing)
				facets = append(facets, domain.Facet{Attribute: domain.FacetClothingSize, Values: clothing})
			}
			if len(shoe) > 0 {
				sortShoeSizes(shoe)
				facets = append(facets, domain.Facet{Attribute: domain.FacetShoeSize, Values: shoe})
			}
			continue
		}

		sortAlphabetical(values)
		facets = append(facets, domain.Facet{Attribute: attr, Values: values})
	}
	return facets
}

func toFacetValues(counts map[string]int) []domain.FacetValue {
	values := make([]domain.FacetValue, 0, len(counts))
	for v, n := range counts {
		values = append(values, domain.FacetValue{Value: v, Label: v, Count: n})
	}
	return values
}

// splitSizes puts lettered sizes in clothing. Shoe labels are upper-cased.
func splitSizes(values []domain.FacetValue) (clothing, shoe []domain.FacetValue) {
	for _, v := range values {
		if isLetteredSize(v.Value) {
			clothing = append(clothing, v)
			continue
		}
		v.Label = strings.ToUpper(v.Label)
		shoe = append(shoe, v)
	}
	return clothing, shoe
}

func isLetteredSize(v string) bool {
	return strings.ContainsAny(v, "XMSL") || clothingSizeRank(v) >= 0
}

func clothingSizeRank(v string) int {
	lower := strings.ToLower(v)
	for i, s := range clothingSizeOrder {
		if s == lower {
			return i
		}
	}
	return -1
}

// leadingInt parses the digits v starts with.
func leadingInt(v string) (int, bool) {
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(v[:end])
	return n, err == nil
}

// sortClothingSizes puts numeric sizes first in ascending order, ties broken
// by their suffix, then lettered sizes in clothingSizeOrder. Unknown letters
// lead the lettered group.
func sortClothingSizes(values []domain.FacetValue) {
	sort.SliceStable(values, func(i, j int) bool {
		a, b := strings.ToLower(values[i].Value), strings.ToLower(values[j].Value)
		ra, rb := clothingSizeRank(a), clothingSizeRank(b)

		na, aNum := leadingInt(a)
		nb, bNum := leadingInt(b)
		aNum = aNum && ra < 0
		bNum = bNum && rb < 0

		switch {
		case aNum && bNum:
			if na != nb {
				return na < nb
			}
			return a[len(strconv.Itoa(na)):] < b[len(strconv.Itoa(nb)):]
		case aNum != bNum:
			return aNum
		default:
			return ra < rb
		}
	})
}

// sortShoeSizes orders by numeric size, half sizes included.
func sortShoeSizes(values []domain.FacetValue) {
	sort.SliceStable(values, func(i, j int) bool {
		a, aErr := strconv.ParseFloat(values[i].Value, 64)
		b, bErr := strconv.ParseFloat(values[j].Value, 64)
		switch {
		case aErr == nil && bErr == nil && a != b:
			return a < b
		case (aErr == nil) != (bErr == nil):
			return aErr == nil
		default:
			return values[i].Value < values[j].Value
		}
	})
}

func sortAlphabetical(values []domain.FacetValue) {
	sort.SliceStable(values, func(i, j int) bool {
		a, b := strings.ToLower(values[i].Value), strings.ToLower(values[j].Value)
		if a != b {
			return a < b
		}
		return values[i].Value < values[j].Value
	})
}

func nonNilHits(hits []domain.SearchHit) []domain.SearchHit {
	if hits == nil {
		return []domain.SearchHit{}
	}
	return hits
}
