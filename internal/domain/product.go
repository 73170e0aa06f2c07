package domain

import (
	"context"
)

type Product struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Handle           string          `json:"handle"`
	Description      string          `json:"description"`
	Vendor           string          `json:"vendor"`
	ProductType      string          `json:"productType"`
	Tags             []string        `json:"tags"`
	AvailableForSale bool            `json:"availableForSale"`
	FeaturedImage    *Image          `json:"featuredImage,omitempty"`
	Options          []ProductOption `json:"options"`
	Variants         []Variant       `json:"variants"`
}

// ProductOption is a named axis of variation with its declared values.
type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type Variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	AvailableForSale bool             `json:"availableForSale"`
	Price            Money            `json:"price"`
	CompareAtPrice   *Money           `json:"compareAtPrice,omitempty"`
	Image            *Image           `json:"image,omitempty"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Collection struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	Description string    `json:"description"`
	Image       *Image    `json:"image,omitempty"`
	Products    []Product `json:"products"`
	PageInfo    PageInfo  `json:"pageInfo"`
}

// Option returns the declared option with the given name.
func (p *Product) Option(name string) (ProductOption, bool) {
	for _, o := range p.Options {
		if o.Name == name {
			return o, true
		}
	}
	return ProductOption{}, false
}

// VariantByID returns a pointer into p.Variants.
func (p *Product) VariantByID(id string) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

func (o ProductOption) HasValue(value string) bool {
	for _, v := range o.Values {
		if v == value {
			return true
		}
	}
	return false
}

// Collection sort keys accepted by the commerce backend.
const (
	SortCollectionDefault = "COLLECTION_DEFAULT"
	SortPrice             = "PRICE"
	SortTitle             = "TITLE"
	SortCreated           = "CREATED"
	SortBestSelling       = "BEST_SELLING"
)

type CollectionFilter struct {
	Handle  string
	SortKey string
	Reverse bool
	After   string
	Limit   int
}

// --- Interfaces ---

type CatalogRepository interface {
	GetProductByHandle(ctx context.Context, handle string) (*Product, error)
	GetCollection(ctx context.Context, filter CollectionFilter) (*Collection, error)
	GetProductRecommendations(ctx context.Context, productID string) ([]Product, error)
}
