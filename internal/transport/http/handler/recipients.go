package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bloodlink/api/internal/application/recipient"
	"github.com/bloodlink/api/internal/domain"
	"github.com/bloodlink/api/internal/pkg/validate"
	"github.com/bloodlink/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// RecipientHandler handles the recipient-facing endpoints.
type RecipientHandler struct {
	svc recipient.Service
}

func NewRecipientHandler(svc recipient.Service) *RecipientHandler {
	return &RecipientHandler{svc: svc}
}

func (h *RecipientHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}
	var req domain.CreateBloodRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	br, err := h.svc.CreateRequest(r.Context(), claims.Username, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, br)
}

func (h *RecipientHandler) ListOwnRequests(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}
	reqs, err := h.svc.ListOwnRequests(r.Context(), claims.Username)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *RecipientHandler) CloseRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}
	isAdmin := claims.Role == domain.RoleAdmin
	if err := h.svc.CloseRequest(r.Context(), claims.Username, isAdmin, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Request closed")
}

func (h *RecipientHandler) SearchDonors(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.SearchDonors(r.Context(), r.URL.Query().Get("blood_group"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}
