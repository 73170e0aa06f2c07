package v1

import (
	"net/http"
	"strings"

	"fiber-storefront/internal/usecase"
	"fiber-storefront/pkg/utils"
)

type SearchHandler struct {
	searchUC *usecase.SearchUsecase
}

func NewSearchHandler(uc *usecase.SearchUsecase) *SearchHandler {
	return &SearchHandler{searchUC: uc}
}

// Search accepts filters as repeated filter=attr:value or comma separated filters=.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	limit := utils.ParseInt(query.Get("limit"), 0)

	filters := append([]string{}, query["filter"]...)
	if raw := query.Get("filters"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				filters = append(filters, f)
			}
		}
	}

	result, err := h.searchUC.Search(r.Context(), usecase.SearchParams{
		Query:   query.Get("q"),
		Page:    page,
		Limit:   limit,
		Filters: filters,
	})
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *SearchHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	hits, err := h.searchUC.Autocomplete(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"hits": hits})
}

func (h *SearchHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	hits, err := h.searchUC.Recommendations(r.Context(), r.URL.Query().Get("objectID"))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"hits": hits})
}
