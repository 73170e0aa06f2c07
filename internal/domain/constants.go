package domain

// Cookies
const (
	StorefrontSessionCookie = "sfSession"
	CustomerSessionCookie   = "customerSession"
)

// Search facet attributes
const (
	FacetVendor      = "vendor"
	FacetProductType = "product_type"
	FacetColor       = "options.color"
	FacetSize        = "options.size"
	FacetMaterial    = "meta.product.material"
	FacetEra         = "meta.product.era"

	// Derived from FacetSize when shaping facets.
	FacetClothingSize = "options.size.clothing"
	FacetShoeSize     = "options.size.shoe"
)

// SearchFacets is requested on every full search.
var SearchFacets = []string{
	FacetVendor,
	FacetProductType,
	FacetColor,
	FacetSize,
	FacetMaterial,
	FacetEra,
}

// Sitemap change frequencies
const (
	ChangeFreqDaily  = "daily"
	ChangeFreqWeekly = "weekly"
)
