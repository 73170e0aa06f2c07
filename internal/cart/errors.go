package cart

import (
	"errors"

	"fiber-storefront/internal/domain"
)

var (
	// ErrNoCart is returned by line mutations while no cart id is held. No request is issued.
	ErrNoCart = errors.New("cart: no cart")
	// ErrNonPositiveQuantity guards UpdateLine; quantities <= 0 must go through RemoveLine.
	ErrNonPositiveQuantity = errors.New("cart: quantity must be positive")
	// ErrEmptyPayload means the backend answered without a cart and without a reason.
	ErrEmptyPayload = errors.New("cart: backend returned no cart")
	// ErrCartNotFound is reported by a Backend when the held id is unknown upstream.
	ErrCartNotFound = domain.ErrCartNotFound
)
