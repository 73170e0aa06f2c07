package usecase

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiber-storefront/internal/domain"
)

func facetLabels(values []domain.FacetValue) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.Label
	}
	return out
}

func facetValues(names ...string) []domain.FacetValue {
	out := make([]domain.FacetValue, len(names))
	for i, n := range names {
		out[i] = domain.FacetValue{Value: n, Label: n}
	}
	return out
}

func TestSortClothingSizes(t *testing.T) {
	values := facetValues("XL", "m", "32", "OS", "2XL", "s", "28L", "xxs", "28S", "XXL", "xs", "L")
	sortClothingSizes(values)

	want := []string{"28L", "28S", "32", "OS", "xxs", "xs", "s", "m", "L", "XL", "2XL", "XXL"}
	if diff := cmp.Diff(want, facetLabels(values)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortClothingSizes_UnknownLettersLead(t *testing.T) {
	values := facetValues("M", "XXXL", "S")
	sortClothingSizes(values)
	assert.Equal(t, []string{"XXXL", "S", "M"}, facetLabels(values))
}

func TestShapeFacets(t *testing.T) {
	raw := map[string]map[string]int{
		domain.FacetVendor: {"zeta": 1, "Acme": 3, "beta": 2},
		domain.FacetSize:   {"M": 4, "S": 2, "9.5": 1, "10": 1, "8": 2, "os": 1},
		domain.FacetColor:  {},
	}

	facets := shapeFacets(raw)
	require.Len(t, facets, 3)

	assert.Equal(t, domain.FacetVendor, facets[0].Attribute)
	assert.Equal(t, []string{"Acme", "beta", "zeta"}, facetLabels(facets[0].Values))

	assert.Equal(t, domain.FacetClothingSize, facets[1].Attribute)
	assert.Equal(t, []string{"os", "S", "M"}, facetLabels(facets[1].Values))

	assert.Equal(t, domain.FacetShoeSize, facets[2].Attribute)
	assert.Equal(t, []string{"8", "9.5", "10"}, facetLabels(facets[2].Values))
}

func TestShapeFacets_ShoeLabelsUpperCased(t *testing.T) {
	facets := shapeFacets(map[string]map[string]int{domain.FacetSize: {"7w": 1}})
	require.Len(t, facets, 1)
	assert.Equal(t, domain.FacetValue{Value: "7w", Label: "7W", Count: 1}, facets[0].Values[0])
}

func TestGroupFacetFilters(t *testing.T) {
	got, err := groupFacetFilters([]string{"vendor:Acme", "options.size:M", "vendor:Beta"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"vendor:Acme", "vendor:Beta"}, {"options.size:M"}}, got)

	_, err = groupFacetFilters([]string{"price:10"})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = groupFacetFilters([]string{"vendor"})
	assert.ErrorAs(t, err, &verr)
}

func TestSearchUsecase_Search(t *testing.T) {
	repo := &fakeSearchRepo{resp: &domain.SearchResponse{
		Hits:        []domain.SearchHit{{ObjectID: "1", Title: "Shirt"}},
		NbHits:      30,
		Page:        1,
		NbPages:     2,
		HitsPerPage: 24,
		Facets:      map[string]map[string]int{domain.FacetVendor: {"Acme": 30}},
	}}
	uc := NewSearchUsecase(repo, newTestCache(), testConfig())

	res, err := uc.Search(context.Background(), SearchParams{Query: " shirt ", Page: 2, Filters: []string{"vendor:Acme"}})
	require.NoError(t, err)

	assert.Equal(t, "shirt", repo.lastQuery.Query)
	assert.Equal(t, 1, repo.lastQuery.Page)
	assert.Equal(t, defaultHitsPerPage, repo.lastQuery.HitsPerPage)
	assert.Equal(t, domain.SearchFacets, repo.lastQuery.Facets)
	assert.Equal(t, domain.Pagination{Page: 2, Limit: 24, TotalItems: 30, TotalPages: 2}, res.Pagination)
	assert.Len(t, res.Hits, 1)
	assert.Len(t, res.Facets, 1)

	_, err = uc.Search(context.Background(), SearchParams{Query: "shirt", Page: 2, Filters: []string{"vendor:Acme"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, repo.calls.Load())
}

func TestSearchUsecase_Autocomplete(t *testing.T) {
	repo := &fakeSearchRepo{resp: &domain.SearchResponse{Hits: []domain.SearchHit{{ObjectID: "1"}}}}
	uc := NewSearchUsecase(repo, newTestCache(), testConfig())

	hits, err := uc.Autocomplete(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Zero(t, repo.calls.Load())

	hits, err = uc.Autocomplete(context.Background(), "sh")
	require.NoError(t, err)
	assert.Len(t, hits, 1)
	assert.Equal(t, autocompleteHits, repo.lastQuery.HitsPerPage)
	assert.Empty(t, repo.lastQuery.Facets)
}

func TestSearchUsecase_Recommendations(t *testing.T) {
	repo := &fakeSearchRepo{}
	uc := NewSearchUsecase(repo, newTestCache(), testConfig())

	hits, err := uc.Recommendations(context.Background(), "42")
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Equal(t, recommendationsLimit, repo.lastLimit)

	_, err = uc.Recommendations(context.Background(), "")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}
