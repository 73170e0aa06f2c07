package v1

import (
	"net/http"

	"fiber-storefront/internal/delivery/http/middleware"
)

type Handlers struct {
	Account *AccountHandler
	Cart    *CartHandler
	Catalog *CatalogHandler
	Content *ContentHandler
	Search  *SearchHandler
	Sitemap *SitemapHandler
	Health  *HealthHandler
}

// RegisterRoutes mounts the storefront API on mux.
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	auth := func(fn http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(fn)
	}

	// Account
	mux.HandleFunc("POST /api/account/login", h.Account.Login)
	mux.HandleFunc("POST /api/account/logout", h.Account.Logout)
	mux.HandleFunc("POST /api/account/register", h.Account.Register)
	mux.HandleFunc("POST /api/account/recover", h.Account.Recover)
	mux.HandleFunc("POST /api/account/reset", h.Account.Reset)
	mux.Handle("GET /api/account", auth(h.Account.Me))
	mux.Handle("PATCH /api/account", auth(h.Account.Update))
	mux.Handle("POST /api/account/address", auth(h.Account.CreateAddress))
	mux.Handle("PATCH /api/account/address/{id}", auth(h.Account.UpdateAddress))
	mux.Handle("DELETE /api/account/address/{id}", auth(h.Account.DeleteAddress))

	// Cart
	mux.HandleFunc("GET /api/cart", h.Cart.GetCart)
	mux.HandleFunc("POST /api/cart/lines", h.Cart.AddLine)
	mux.HandleFunc("PATCH /api/cart/lines/{lineId}", h.Cart.UpdateLine)
	mux.HandleFunc("DELETE /api/cart/lines/{lineId}", h.Cart.RemoveLine)
	mux.HandleFunc("POST /api/cart/open", h.Cart.Open)
	mux.HandleFunc("POST /api/cart/close", h.Cart.Close)

	// Catalog
	mux.HandleFunc("GET /api/products/{handle}", h.Catalog.GetProduct)
	mux.HandleFunc("GET /api/products/{handle}/recommendations", h.Catalog.GetRecommendations)
	mux.HandleFunc("GET /api/collections/{handle}", h.Catalog.GetCollection)

	// Content
	mux.HandleFunc("GET /api/pages/{slug}", h.Content.GetPage)
	mux.HandleFunc("GET /api/home", h.Content.GetHome)
	mux.HandleFunc("GET /api/settings", h.Content.GetSettings)

	// Search
	mux.HandleFunc("GET /api/search", h.Search.Search)
	mux.HandleFunc("GET /api/search/autocomplete", h.Search.Autocomplete)
	mux.HandleFunc("GET /api/search/recommendations", h.Search.Recommendations)

	// Crawlers
	mux.HandleFunc("GET /sitemap.xml", h.Sitemap.Sitemap)
	mux.HandleFunc("GET /robots.txt", h.Sitemap.Robots)

	// Health Check
	mux.HandleFunc("GET /api/health", h.Health.Health)
	mux.HandleFunc("GET /health", h.Health.Health)
}
