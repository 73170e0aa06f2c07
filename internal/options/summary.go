package options

import (
	"strings"

	"fiber-storefront/internal/domain"
	"fiber-storefront/pkg/utils"
)

// HasMultipleOptions is false for single-variant products, which the backend
// models as one "Title" option with a "Default Title" value.
func HasMultipleOptions(opts []domain.ProductOption) bool {
	if len(opts) == 0 {
		return false
	}
	first := opts[0]
	if first.Name == "Title" {
		return false
	}
	return len(first.Values) == 0 || first.Values[0] != "Default Title"
}

// OptionSummary renders e.g. "2 Colors / 3 Sizes".
func OptionSummary(opts []domain.ProductOption) string {
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		parts = append(parts, utils.Pluralize(o.Name, len(o.Values)))
	}
	return strings.Join(parts, " / ")
}
