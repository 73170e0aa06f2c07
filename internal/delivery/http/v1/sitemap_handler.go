package v1

import (
	"net/http"

	"fiber-storefront/internal/usecase"
	"fiber-storefront/pkg/logger"
	"fiber-storefront/pkg/utils"
)

const crawlerCacheControl = "max-age=86400"

type SitemapHandler struct {
	usecase *usecase.SitemapUsecase
}

func NewSitemapHandler(uc *usecase.SitemapUsecase) *SitemapHandler {
	return &SitemapHandler{usecase: uc}
}

func (h *SitemapHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	body, err := h.usecase.GenerateSitemap(r.Context())
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("Failed to generate sitemap")
		utils.WriteAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Cache-Control", crawlerCacheControl)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *SitemapHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", crawlerCacheControl)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.usecase.RobotsTxt()))
}
