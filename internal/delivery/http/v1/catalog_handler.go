package v1

import (
	"net/http"

	"fiber-storefront/internal/usecase"
	"fiber-storefront/pkg/utils"
)

type CatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUC: uc}
}

// GetProduct serves GET /api/products/{handle}?variant=...&Color=Blue.
// Parameters other than variant that name a product option are selections; the rest are ignored.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	selections := make(map[string]string, len(query))
	for name, values := range query {
		if name == "variant" || len(values) == 0 {
			continue
		}
		selections[name] = values[0]
	}

	view, err := h.catalogUC.ProductPage(r.Context(), r.PathValue("handle"), query.Get("variant"), selections)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CatalogHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogUC.GetRecommendations(r.Context(), r.PathValue("handle"))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": products})
}

func (h *CatalogHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := utils.ParseInt(query.Get("limit"), 0)

	filter, err := usecase.ParseCollectionFilter(r.PathValue("handle"), query.Get("sort"), query.Get("after"), limit)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	collection, err := h.catalogUC.GetCollection(r.Context(), filter)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, collection)
}
