package v1

import (
	"net/http"

	"fiber-storefront/internal/usecase"
	"fiber-storefront/pkg/utils"
)

type ContentHandler struct {
	contentUC *usecase.ContentUsecase
}

func NewContentHandler(uc *usecase.ContentUsecase) *ContentHandler {
	return &ContentHandler{contentUC: uc}
}

func (h *ContentHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.contentUC.GetPage(r.Context(), r.PathValue("slug"))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

func (h *ContentHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	home, err := h.contentUC.GetHome(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, home)
}

// GetSettings serves navigation, footer and SEO defaults.
func (h *ContentHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.contentUC.GetSettings(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, settings)
}
