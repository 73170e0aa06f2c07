package v1

import (
	"net/http"

	"fiber-storefront/internal/cart"
	"fiber-storefront/internal/delivery/http/middleware"
	"fiber-storefront/internal/usecase"
	"fiber-storefront/pkg/utils"
)

type CartHandler struct {
	cartUC *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{cartUC: uc}
}

type addLineReq struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

type updateLineReq struct {
	Quantity int `json:"quantity"`
}

func writeCartView(w http.ResponseWriter, view cart.View, err error) {
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartUC.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
	writeCartView(w, view, err)
}

func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req addLineReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	view, err := h.cartUC.AddLine(r.Context(), middleware.SessionIDFromContext(r.Context()), req.MerchandiseID, req.Quantity)
	writeCartView(w, view, err)
}

// UpdateLine goes through the quantity stepper path, so 0 removes the line.
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var req updateLineReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	view, err := h.cartUC.ChangeLineQuantity(r.Context(), middleware.SessionIDFromContext(r.Context()), r.PathValue("lineId"), req.Quantity)
	writeCartView(w, view, err)
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartUC.RemoveLine(r.Context(), middleware.SessionIDFromContext(r.Context()), r.PathValue("lineId"))
	writeCartView(w, view, err)
}

func (h *CartHandler) Open(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartUC.SetOpen(r.Context(), middleware.SessionIDFromContext(r.Context()), true)
	writeCartView(w, view, err)
}

func (h *CartHandler) Close(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartUC.SetOpen(r.Context(), middleware.SessionIDFromContext(r.Context()), false)
	writeCartView(w, view, err)
}
