package domain

import "context"

// --- Cart Entities ---

// Cart is a backend-authoritative snapshot. Nothing in it is computed locally.
type Cart struct {
	ID            string     `json:"id"`
	CheckoutURL   string     `json:"checkoutUrl"`
	TotalQuantity int        `json:"totalQuantity"`
	Cost          CartCost   `json:"cost"`
	Lines         []CartLine `json:"lines"`
}

type CartCost struct {
	SubtotalAmount Money `json:"subtotalAmount"`
	TotalAmount    Money `json:"totalAmount"`
}

type CartLine struct {
	ID          string       `json:"id"`
	Quantity    int          `json:"quantity"`
	Cost        CartLineCost `json:"cost"`
	Merchandise Merchandise  `json:"merchandise"`
}

type CartLineCost struct {
	TotalAmount Money `json:"totalAmount"`
}

// Merchandise is the purchasable variant attached to a cart line.
type Merchandise struct {
	ID      string             `json:"id"`
	Title   string             `json:"title"`
	Price   Money              `json:"price"`
	Product MerchandiseProduct `json:"product"`
}

type MerchandiseProduct struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Handle        string `json:"handle"`
	FeaturedImage *Image `json:"featuredImage,omitempty"`
}

type CartLineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

type CartLineUpdateInput struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// Line returns the line with the given id.
func (c *Cart) Line(id string) (CartLine, bool) {
	if c == nil {
		return CartLine{}, false
	}
	for _, l := range c.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return CartLine{}, false
}

// Clone returns a deep copy so callers can never mutate a held snapshot.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	if c.Lines != nil {
		out.Lines = make([]CartLine, len(c.Lines))
		for i, l := range c.Lines {
			if l.Merchandise.Product.FeaturedImage != nil {
				img := *l.Merchandise.Product.FeaturedImage
				l.Merchandise.Product.FeaturedImage = &img
			}
			out.Lines[i] = l
		}
	}
	return &out
}

// --- Interfaces ---

// CartSlotRepository persists the single cart id slot of each storefront session.
type CartSlotRepository interface {
	GetCartID(ctx context.Context, sessionID string) (string, error)
	SaveCartID(ctx context.Context, sessionID, cartID string) error
}
