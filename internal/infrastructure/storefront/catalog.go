package storefront

import (
	"context"

	"fiber-storefront/internal/domain"
)

const productFragment = `
fragment ProductFields on Product {
  id
  title
  handle
  description
  vendor
  productType
  tags
  availableForSale
  featuredImage { url altText width height }
  options { name optionValues { name } }
  variants(first: 250) {
    nodes {
      id
      title
      availableForSale
      price { amount currencyCode }
      compareAtPrice { amount currencyCode }
      image { url altText width height }
      selectedOptions { name value }
    }
  }
}
`

const queryProduct = `
query ProductByHandle($handle: String!) {
  product(handle: $handle) { ...ProductFields }
}
` + productFragment

const queryCollection = `
query CollectionByHandle($handle: String!, $first: Int!, $after: String, $sortKey: ProductCollectionSortKeys, $reverse: Boolean) {
  collection(handle: $handle) {
    id
    title
    handle
    description
    image { url altText width height }
    products(first: $first, after: $after, sortKey: $sortKey, reverse: $reverse) {
      nodes { ...ProductFields }
      pageInfo { hasNextPage endCursor }
    }
  }
}
` + productFragment

const queryRecommendations = `
query ProductRecommendations($productId: ID!) {
  productRecommendations(productId: $productId) { ...ProductFields }
}
` + productFragment

type productNode struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Handle           string        `json:"handle"`
	Description      string        `json:"description"`
	Vendor           string        `json:"vendor"`
	ProductType      string        `json:"productType"`
	Tags             []string      `json:"tags"`
	AvailableForSale bool          `json:"availableForSale"`
	FeaturedImage    *domain.Image `json:"featuredImage"`
	Options          []struct {
		Name         string `json:"name"`
		OptionValues []struct {
			Name string `json:"name"`
		} `json:"optionValues"`
	} `json:"options"`
	Variants struct {
		Nodes []domain.Variant `json:"nodes"`
	} `json:"variants"`
}

func (n *productNode) toDomain() domain.Product {
	p := domain.Product{
		ID:               n.ID,
		Title:            n.Title,
		Handle:           n.Handle,
		Description:      n.Description,
		Vendor:           n.Vendor,
		ProductType:      n.ProductType,
		Tags:             n.Tags,
		AvailableForSale: n.AvailableForSale,
		FeaturedImage:    n.FeaturedImage,
		Options:          make([]domain.ProductOption, 0, len(n.Options)),
		Variants:         n.Variants.Nodes,
	}
	for _, o := range n.Options {
		opt := domain.ProductOption{Name: o.Name, Values: make([]string, 0, len(o.OptionValues))}
		for _, v := range o.OptionValues {
			opt.Values = append(opt.Values, v.Name)
		}
		p.Options = append(p.Options, opt)
	}
	if p.Variants == nil {
		p.Variants = []domain.Variant{}
	}
	return p
}

func (c *Client) GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	data, err := do[struct {
		Product *productNode `json:"product"`
	}](ctx, c, "ProductByHandle", map[string]interface{}{"handle": handle})
	if err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, domain.ErrNotFound
	}
	p := data.Product.toDomain()
	return &p, nil
}

func (c *Client) GetCollection(ctx context.Context, filter domain.CollectionFilter) (*domain.Collection, error) {
	vars := map[string]interface{}{
		"handle":  filter.Handle,
		"first":   filter.Limit,
		"reverse": filter.Reverse,
	}
	if filter.After != "" {
		vars["after"] = filter.After
	}
	if filter.SortKey != "" {
		vars["sortKey"] = filter.SortKey
	}

	data, err := do[struct {
		Collection *struct {
			ID          string        `json:"id"`
			Title       string        `json:"title"`
			Handle      string        `json:"handle"`
			Description string        `json:"description"`
			Image       *domain.Image `json:"image"`
			Products    struct {
				Nodes    []productNode   `json:"nodes"`
				PageInfo domain.PageInfo `json:"pageInfo"`
			} `json:"products"`
		} `json:"collection"`
	}](ctx, c, "CollectionByHandle", vars)
	if err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return nil, domain.ErrNotFound
	}

	col := data.Collection
	out := &domain.Collection{
		ID:          col.ID,
		Title:       col.Title,
		Handle:      col.Handle,
		Description: col.Description,
		Image:       col.Image,
		Products:    make([]domain.Product, 0, len(col.Products.Nodes)),
		PageInfo:    col.Products.PageInfo,
	}
	for i := range col.Products.Nodes {
		out.Products = append(out.Products, col.Products.Nodes[i].toDomain())
	}
	return out, nil
}

func (c *Client) GetProductRecommendations(ctx context.Context, productID string) ([]domain.Product, error) {
	data, err := do[struct {
		ProductRecommendations []productNode `json:"productRecommendations"`
	}](ctx, c, "ProductRecommendations", map[string]interface{}{"productId": productID})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(data.ProductRecommendations))
	for i := range data.ProductRecommendations {
		out = append(out, data.ProductRecommendations[i].toDomain())
	}
	return out, nil
}
