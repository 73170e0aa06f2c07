package v1

import (
	"net/http"
	"time"

	"fiber-storefront/internal/delivery/http/middleware"
	"fiber-storefront/internal/domain"
	"fiber-storefront/internal/usecase"
	"fiber-storefront/pkg/logger"
	"fiber-storefront/pkg/utils"
)

type AccountHandler struct {
	accountUC    *usecase.AccountUsecase
	secureCookie bool
}

func NewAccountHandler(uc *usecase.AccountUsecase, secureCookie bool) *AccountHandler {
	return &AccountHandler{accountUC: uc, secureCookie: secureCookie}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type recoverReq struct {
	Email string `json:"email"`
}

type resetReq struct {
	ID         string `json:"id"`
	ResetToken string `json:"resetToken"`
	Password   string `json:"password"`
}

var emptyBody = struct{}{}

// startSession wraps the backend token in the signed session cookie.
func (h *AccountHandler) startSession(w http.ResponseWriter, r *http.Request, token *domain.CustomerAccessToken) bool {
	value, err := utils.GenerateSessionJWT(token.AccessToken, token.ExpiresAt)
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("Failed to sign customer session")
		utils.WriteAppError(w, err)
		return false
	}
	utils.SetSessionCookie(w, value, token.ExpiresAt, h.secureCookie)
	return true
}

func accessToken(r *http.Request) string {
	if session := middleware.CustomerSessionFromContext(r.Context()); session != nil {
		return session.AccessToken
	}
	return ""
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	token, err := h.accountUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	if h.startSession(w, r, token) {
		utils.WriteJSON(w, http.StatusOK, emptyBody)
	}
}

// Logout always clears the cookie, even without a valid session.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session, err := utils.ExtractCustomerSession(r); err == nil {
		h.accountUC.Logout(r.Context(), session.AccessToken)
	}
	utils.SetSessionCookie(w, "", time.Time{}, h.secureCookie)
	utils.WriteJSON(w, http.StatusOK, emptyBody)
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req usecase.RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	token, err := h.accountUC.Register(r.Context(), req)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	if h.startSession(w, r, token) {
		utils.WriteJSON(w, http.StatusOK, emptyBody)
	}
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	customer, err := h.accountUC.GetAccount(r.Context(), accessToken(r))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, customer)
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req usecase.UpdateAccountRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	rotated, err := h.accountUC.UpdateAccount(r.Context(), accessToken(r), req)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	if rotated != nil && !h.startSession(w, r, rotated) {
		return
	}
	utils.WriteJSON(w, http.StatusOK, emptyBody)
}

func (h *AccountHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var req usecase.AddressRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	id, err := h.accountUC.CreateAddress(r.Context(), accessToken(r), req)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *AccountHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var req usecase.AddressRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	if err := h.accountUC.UpdateAddress(r.Context(), accessToken(r), r.PathValue("id"), req); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, emptyBody)
}

func (h *AccountHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	if err := h.accountUC.DeleteAddress(r.Context(), accessToken(r), r.PathValue("id")); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, emptyBody)
}

func (h *AccountHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var req recoverReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	if err := h.accountUC.Recover(r.Context(), req.Email); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, emptyBody)
}

func (h *AccountHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	token, err := h.accountUC.Reset(r.Context(), req.ID, req.ResetToken, req.Password)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	if h.startSession(w, r, token) {
		utils.WriteJSON(w, http.StatusOK, emptyBody)
	}
}
