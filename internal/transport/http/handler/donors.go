package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bloodlink/api/internal/application/donor"
	"github.com/bloodlink/api/internal/domain"
	"github.com/bloodlink/api/internal/pkg/validate"
	"github.com/bloodlink/api/internal/transport/http/middleware"
)

// DonorHandler handles the donor-facing endpoints.
type DonorHandler struct {
	svc donor.Service
}

func NewDonorHandler(svc donor.Service) *DonorHandler { return &DonorHandler{svc: svc} }

func (h *DonorHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}
	var req domain.UpsertDonorProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.UpsertProfile(r.Context(), claims.Username, claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *DonorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}
	p, err := h.svc.GetProfile(r.Context(), claims.Username)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *DonorHandler) ListOpenRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.ListOpenRequests(r.Context(), r.URL.Query().Get("blood_group"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}
