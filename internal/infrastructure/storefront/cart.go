package storefront

import (
	"context"

	"fiber-storefront/internal/domain"
)

const cartFragment = `
fragment CartFields on Cart {
  id
  checkoutUrl
  totalQuantity
  cost {
    subtotalAmount { amount currencyCode }
    totalAmount { amount currencyCode }
  }
  lines(first: 100) {
    nodes {
      id
      quantity
      cost { totalAmount { amount currencyCode } }
      merchandise {
        ... on ProductVariant {
          id
          title
          price { amount currencyCode }
          product {
            id
            title
            handle
            featuredImage { url altText width height }
          }
        }
      }
    }
  }
}
`

const queryCart = `
query CartQuery($cartId: ID!) {
  cart(id: $cartId) { ...CartFields }
}
` + cartFragment

const mutationCartCreate = `
mutation CartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart { ...CartFields }
    userErrors { field message code }
  }
}
` + cartFragment

const mutationCartLinesAdd = `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart { ...CartFields }
    userErrors { field message code }
  }
}
` + cartFragment

const mutationCartLinesUpdate = `
mutation CartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart { ...CartFields }
    userErrors { field message code }
  }
}
` + cartFragment

const mutationCartLinesRemove = `
mutation CartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart { ...CartFields }
    userErrors { field message code }
  }
}
` + cartFragment

type cartNode struct {
	ID            string          `json:"id"`
	CheckoutURL   string          `json:"checkoutUrl"`
	TotalQuantity int             `json:"totalQuantity"`
	Cost          domain.CartCost `json:"cost"`
	Lines         struct {
		Nodes []domain.CartLine `json:"nodes"`
	} `json:"lines"`
}

func (n *cartNode) toDomain() *domain.Cart {
	if n == nil {
		return nil
	}
	lines := n.Lines.Nodes
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return &domain.Cart{
		ID:            n.ID,
		CheckoutURL:   n.CheckoutURL,
		TotalQuantity: n.TotalQuantity,
		Cost:          n.Cost,
		Lines:         lines,
	}
}

type cartPayload struct {
	Cart       *cartNode   `json:"cart"`
	UserErrors []userError `json:"userErrors"`
}

func (p cartPayload) result() (*domain.Cart, error) {
	if len(p.UserErrors) > 0 {
		return nil, cartUserErrorsToErr(p.UserErrors)
	}
	if p.Cart == nil {
		return nil, errEmptyCart
	}
	return p.Cart.toDomain(), nil
}

// FetchCart returns (nil, nil) when the backend no longer knows the id.
func (c *Client) FetchCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	data, err := do[struct {
		Cart *cartNode `json:"cart"`
	}](ctx, c, "CartQuery", map[string]interface{}{"cartId": cartID})
	if err != nil {
		return nil, err
	}
	return data.Cart.toDomain(), nil
}

func (c *Client) CreateCart(ctx context.Context, lines []domain.CartLineInput) (*domain.Cart, error) {
	data, err := do[struct {
		CartCreate cartPayload `json:"cartCreate"`
	}](ctx, c, "CartCreate", map[string]interface{}{
		"input": map[string]interface{}{"lines": lines},
	})
	if err != nil {
		return nil, err
	}
	return data.CartCreate.result()
}

func (c *Client) AddLines(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error) {
	data, err := do[struct {
		CartLinesAdd cartPayload `json:"cartLinesAdd"`
	}](ctx, c, "CartLinesAdd", map[string]interface{}{"cartId": cartID, "lines": lines})
	if err != nil {
		return nil, err
	}
	return data.CartLinesAdd.result()
}

func (c *Client) UpdateLines(ctx context.Context, cartID string, lines []domain.CartLineUpdateInput) (*domain.Cart, error) {
	data, err := do[struct {
		CartLinesUpdate cartPayload `json:"cartLinesUpdate"`
	}](ctx, c, "CartLinesUpdate", map[string]interface{}{"cartId": cartID, "lines": lines})
	if err != nil {
		return nil, err
	}
	return data.CartLinesUpdate.result()
}

func (c *Client) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	data, err := do[struct {
		CartLinesRemove cartPayload `json:"cartLinesRemove"`
	}](ctx, c, "CartLinesRemove", map[string]interface{}{"cartId": cartID, "lineIds": lineIDs})
	if err != nil {
		return nil, err
	}
	return data.CartLinesRemove.result()
}
