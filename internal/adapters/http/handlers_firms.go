package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/campaigngrade-hub/campaigngrade1/internal/application"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listFirms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := application.ListFirmsRequest{
		Query:   strings.TrimSpace(q.Get("q")),
		Service: strings.TrimSpace(q.Get("service")),
		Sort:    strings.TrimSpace(q.Get("sort")),
	}
	if raw := strings.TrimSpace(q.Get("min_rating")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeValidationError(r.Context(), w, "list_firms", errors.New("min_rating must be a number"))
			return
		}
		req.MinRating = v
	}
	req.HasPricing = q.Get("has_pricing") == "1"
	firms, err := h.service.ListFirms(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "list_firms", err)
		return
	}
	writeSuccess(w, http.StatusOK, firms)
}

func (h *Handler) searchFirms(w http.ResponseWriter, r *http.Request) {
	firms, err := h.service.SearchFirms(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeMappedError(r.Context(), w, "search_firms", err)
		return
	}
	writeSuccess(w, http.StatusOK, firms)
}

func (h *Handler) firmPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.GetFirmPage(r.Context(), chi.URLParam(r, "slug"), r.URL.Query().Get("sort"))
	if err != nil {
		writeMappedError(r.Context(), w, "firm_page", err)
		return
	}
	writeSuccess(w, http.StatusOK, page)
}

func (h *Handler) suggestFirm(w http.ResponseWriter, r *http.Request) {
	var req application.CreateFirmRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "suggest_firm", err)
		return
	}
	firm, err := h.service.SuggestFirm(r.Context(), mustActor(r), req)
	if err != nil {
		writeMappedError(r.Context(), w, "suggest_firm", err)
		return
	}
	writeSuccess(w, http.StatusCreated, firm)
}

func (h *Handler) notifyFirm(w http.ResponseWriter, r *http.Request) {
	var req application.NotifyFirmRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "notify_firm", err)
		return
	}
	if err := h.service.NotifyFirm(r.Context(), mustActor(r), req); err != nil {
		writeMappedError(r.Context(), w, "notify_firm", err)
		return
	}
	writeMessage(w, http.StatusAccepted, "Notification sent")
}

// submitClaim expects multipart/form-data with title_at_firm, notes and a document file.
func (h *Handler) submitClaim(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
		writeMappedError(r.Context(), w, "submit_claim", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	upload, file, err := formUpload(r, "document")
	if err != nil {
		writeMappedError(r.Context(), w, "submit_claim", err)
		return
	}
	if file != nil {
		defer file.Close()
	}
	req := application.SubmitClaimRequest{
		TitleAtFirm: r.FormValue("title_at_firm"),
		Notes:       r.FormValue("notes"),
	}
	claim, err := h.service.SubmitClaim(r.Context(), mustActor(r), chi.URLParam(r, "slug"), req, upload)
	if err != nil {
		writeMappedError(r.Context(), w, "submit_claim", err)
		return
	}
	writeSuccess(w, http.StatusCreated, claim)
}

func (h *Handler) updateFirmProfile(w http.ResponseWriter, r *http.Request) {
	firmID, err := uuidParam(r, "firmID")
	if err != nil {
		writeMappedError(r.Context(), w, "update_firm_profile", err)
		return
	}
	var req application.UpdateFirmRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_firm_profile", err)
		return
	}
	firm, err := h.service.UpdateFirmProfile(r.Context(), mustActor(r), firmID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_firm_profile", err)
		return
	}
	writeSuccess(w, http.StatusOK, firm)
}

func (h *Handler) setFirmPricing(w http.ResponseWriter, r *http.Request) {
	firmID, err := uuidParam(r, "firmID")
	if err != nil {
		writeMappedError(r.Context(), w, "set_firm_pricing", err)
		return
	}
	var req application.SetFirmPricingRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "set_firm_pricing", err)
		return
	}
	pricing, err := h.service.SetFirmPricing(r.Context(), mustActor(r), firmID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "set_firm_pricing", err)
		return
	}
	writeSuccess(w, http.StatusOK, pricing)
}

func (h *Handler) respondToReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuidParam(r, "reviewID")
	if err != nil {
		writeMappedError(r.Context(), w, "respond_to_review", err)
		return
	}
	var req application.RespondRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "respond_to_review", err)
		return
	}
	res, err := h.service.RespondToReview(r.Context(), mustActor(r), reviewID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "respond_to_review", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) adminCreateFirm(w http.ResponseWriter, r *http.Request) {
	var req application.CreateFirmRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_create_firm", err)
		return
	}
	firm, err := h.service.CreateFirm(r.Context(), mustActor(r), req)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_create_firm", err)
		return
	}
	writeSuccess(w, http.StatusCreated, firm)
}

