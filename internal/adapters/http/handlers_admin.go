package http

import (
	"net/http"

	"github.com/campaigngrade-hub/campaigngrade1/internal/application"
)

func (h *Handler) adminOverview(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.AdminOverview(r.Context(), mustActor(r))
	if err != nil {
		writeMappedError(r.Context(), w, "admin_overview", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminListReviews(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	res, err := h.service.AdminListReviews(r.Context(), mustActor(r), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_list_reviews", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminDecideReview(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "reviewID")
	if err != nil {
		writeMappedError(r.Context(), w, "admin_decide_review", err)
		return
	}
	var req application.DecisionRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_decide_review", err)
		return
	}
	res, err := h.service.AdminDecideReview(r.Context(), mustActor(r), id, req)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_decide_review", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminDeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "reviewID")
	if err != nil {
		writeMappedError(r.Context(), w, "admin_delete_review", err)
		return
	}
	if err := h.service.AdminDeleteReview(r.Context(), mustActor(r), id); err != nil {
		writeMappedError(r.Context(), w, "admin_delete_review", err)
		return
	}
	writeMessage(w, http.StatusOK, "Review deleted")
}

func (h *Handler) adminEvidenceURL(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.AdminEvidenceURL(r.Context(), mustActor(r), r.URL.Query().Get("key"))
	if err != nil {
		writeMappedError(r.Context(), w, "admin_evidence_url", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminListVerifications(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	res, err := h.service.AdminListVerifications(r.Context(), mustActor(r), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_list_verifications", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminDecideVerification(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeMappedError(r.Context(), w, "admin_decide_verification", err)
		return
	}
	var req application.DecisionRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_decide_verification", err)
		return
	}
	res, err := h.service.AdminDecideVerification(r.Context(), mustActor(r), id, req)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_decide_verification", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminListClaims(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	res, err := h.service.AdminListClaims(r.Context(), mustActor(r), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_list_claims", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminDecideClaim(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeMappedError(r.Context(), w, "admin_decide_claim", err)
		return
	}
	var req application.DecisionRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_decide_claim", err)
		return
	}
	res, err := h.service.AdminDecideClaim(r.Context(), mustActor(r), id, req)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_decide_claim", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminListFlags(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	res, err := h.service.AdminListFlags(r.Context(), mustActor(r), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_list_flags", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminResolveFlag(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeMappedError(r.Context(), w, "admin_resolve_flag", err)
		return
	}
	var req application.DecisionRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_resolve_flag", err)
		return
	}
	res, err := h.service.AdminResolveFlag(r.Context(), mustActor(r), id, req)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_resolve_flag", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminRemoveResponse(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeMappedError(r.Context(), w, "admin_remove_response", err)
		return
	}
	if err := h.service.AdminRemoveResponse(r.Context(), mustActor(r), id); err != nil {
		writeMappedError(r.Context(), w, "admin_remove_response", err)
		return
	}
	writeMessage(w, http.StatusOK, "Response removed")
}

func (h *Handler) adminListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	res, err := h.service.AdminListUsers(r.Context(), mustActor(r), limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_list_users", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminSetRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeMappedError(r.Context(), w, "admin_set_role", err)
		return
	}
	var req application.SetRoleRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_set_role", err)
		return
	}
	res, err := h.service.AdminSetRole(r.Context(), mustActor(r), id, req)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_set_role", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
