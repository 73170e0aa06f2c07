// Package options maps shopper option picks to a concrete product variant.
package options

import (
	"errors"
	"fmt"

	"fiber-storefront/internal/domain"
)

var ErrInvalidOptionValue = errors.New("invalid option value")

// InvalidOptionValueError names the rejected pick.
type InvalidOptionValueError struct {
	Option string
	Value  string
}

func (e *InvalidOptionValueError) Error() string {
	return fmt.Sprintf("invalid option value %q for %q", e.Value, e.Option)
}

func (e *InvalidOptionValueError) Is(target error) bool {
	return target == ErrInvalidOptionValue
}

// Resolver holds the selection for one product view. It is not safe for
// concurrent use; create one per request.
type Resolver struct {
	product  *domain.Product
	declared []domain.ProductOption
	selected map[string]string
}

// NewResolver seeds the selection from initialVariantID, or from the first
// variant when the id is empty or unknown.
func NewResolver(product *domain.Product, initialVariantID string) *Resolver {
	r := &Resolver{}
	r.SetProduct(product, initialVariantID)
	return r
}

// SetProduct swaps the product and reseeds the selection.
func (r *Resolver) SetProduct(product *domain.Product, initialVariantID string) {
	r.product = product
	r.declared = declaredOptions(product)
	r.selected = make(map[string]string)

	if product == nil || len(product.Variants) == 0 {
		return
	}
	seed := &product.Variants[0]
	if initialVariantID != "" {
		if v, ok := product.VariantByID(initialVariantID); ok {
			seed = v
		}
	}
	for _, so := range seed.SelectedOptions {
		r.selected[so.Name] = so.Value
	}
}

// SetSelectedOption overwrites the pick for name. Values the product does not
// declare are rejected and leave the selection unchanged.
func (r *Resolver) SetSelectedOption(name, value string) error {
	if !r.declares(name, value) {
		return &InvalidOptionValueError{Option: name, Value: value}
	}
	r.selected[name] = value
	return nil
}

// SelectedOptions returns a copy of the current picks.
func (r *Resolver) SelectedOptions() map[string]string {
	out := make(map[string]string, len(r.selected))
	for k, v := range r.selected {
		out[k] = v
	}
	return out
}

// SelectedVariant returns the first variant whose every option matches the
// selection, or nil when the selection is incomplete or contradictory.
func (r *Resolver) SelectedVariant() *domain.Variant {
	if r.product == nil {
		return nil
	}
	for i := range r.product.Variants {
		if r.matches(&r.product.Variants[i]) {
			return &r.product.Variants[i]
		}
	}
	return nil
}

func (r *Resolver) matches(v *domain.Variant) bool {
	for _, so := range v.SelectedOptions {
		picked, ok := r.selected[so.Name]
		if !ok || picked != so.Value {
			return false
		}
	}
	return true
}

// HasOption reports whether the product declares an option called name.
func (r *Resolver) HasOption(name string) bool {
	for _, o := range r.declared {
		if o.Name == name {
			return true
		}
	}
	return false
}

func (r *Resolver) declares(name, value string) bool {
	for _, o := range r.declared {
		if o.Name == name {
			return o.HasValue(value)
		}
	}
	return false
}

// declaredOptions falls back to the option values the variants carry when the
// product lists no options of its own.
func declaredOptions(product *domain.Product) []domain.ProductOption {
	if product == nil {
		return nil
	}
	if len(product.Options) > 0 {
		return product.Options
	}

	var out []domain.ProductOption
	index := make(map[string]int)
	for _, v := range product.Variants {
		for _, so := range v.SelectedOptions {
			i, ok := index[so.Name]
			if !ok {
				i = len(out)
				index[so.Name] = i
				out = append(out, domain.ProductOption{Name: so.Name})
			}
			if !out[i].HasValue(so.Value) {
				out[i].Values = append(out[i].Values, so.Value)
			}
		}
	}
	return out
}
