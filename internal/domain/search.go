package domain

import "context"

type SearchQuery struct {
	Query string
	// Page is zero-based as the hosted index expects.
	Page         int
	HitsPerPage  int
	FacetFilters [][]string
	Facets       []string
}

type SearchHit struct {
	ObjectID    string   `json:"objectID"`
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Handle      string   `json:"handle"`
	Vendor      string   `json:"vendor,omitempty"`
	ProductType string   `json:"product_type,omitempty"`
	Image       string   `json:"image,omitempty"`
	Price       float64  `json:"price,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// SearchResponse is the raw index answer; Facets maps attribute -> value -> count.
type SearchResponse struct {
	Hits        []SearchHit               `json:"hits"`
	NbHits      int                       `json:"nbHits"`
	Page        int                       `json:"page"`
	NbPages     int                       `json:"nbPages"`
	HitsPerPage int                       `json:"hitsPerPage"`
	Facets      map[string]map[string]int `json:"facets,omitempty"`
}

type FacetValue struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Facet struct {
	Attribute string       `json:"attribute"`
	Values    []FacetValue `json:"values"`
}

// SearchResult is the shaped response served to clients.
type SearchResult struct {
	Hits       []SearchHit `json:"hits"`
	Facets     []Facet     `json:"facets"`
	Pagination Pagination  `json:"pagination"`
}

// --- Interfaces ---

type SearchRepository interface {
	Search(ctx context.Context, q SearchQuery) (*SearchResponse, error)
	Recommendations(ctx context.Context, objectID string, limit int) ([]SearchHit, error)
}
