package http

import (
	"net/http"

	"github.com/campaigngrade-hub/campaigngrade1/internal/application"
)

// submitReview accepts either a JSON body or multipart/form-data with the
// review JSON in the "review" field and an optional "invoice" file.
func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request) {
	var input application.ReviewInput
	var invoice *application.Upload

	if isMultipart(r) {
		if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
			writeMappedError(r.Context(), w, "submit_review", err)
			return
		}
		defer r.MultipartForm.RemoveAll()
		if err := formJSON(r, "review", &input); err != nil {
			writeMappedError(r.Context(), w, "submit_review", err)
			return
		}
		upload, file, err := formUpload(r, "invoice")
		if err != nil {
			writeMappedError(r.Context(), w, "submit_review", err)
			return
		}
		if file != nil {
			defer file.Close()
		}
		invoice = upload
	} else if err := decodeBody(r, &input); err != nil {
		writeValidationError(r.Context(), w, "submit_review", err)
		return
	}

	review, err := h.service.SubmitReview(r.Context(), mustActor(r), input, invoice)
	if err != nil {
		writeMappedError(r.Context(), w, "submit_review", err)
		return
	}
	writeSuccess(w, http.StatusCreated, review)
}

func (h *Handler) editReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuidParam(r, "reviewID")
	if err != nil {
		writeMappedError(r.Context(), w, "edit_review", err)
		return
	}
	var input application.ReviewInput
	if err := decodeBody(r, &input); err != nil {
		writeValidationError(r.Context(), w, "edit_review", err)
		return
	}
	review, err := h.service.EditReview(r.Context(), mustActor(r), reviewID, input)
	if err != nil {
		writeMappedError(r.Context(), w, "edit_review", err)
		return
	}
	writeSuccess(w, http.StatusOK, review)
}

func (h *Handler) flagReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuidParam(r, "reviewID")
	if err != nil {
		writeMappedError(r.Context(), w, "flag_review", err)
		return
	}
	var req application.FlagReviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "flag_review", err)
		return
	}
	flag, err := h.service.FlagReview(r.Context(), mustActor(r), reviewID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "flag_review", err)
		return
	}
	writeSuccess(w, http.StatusCreated, flag)
}

func (h *Handler) submitVerification(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
		writeMappedError(r.Context(), w, "submit_verification", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := application.SubmitVerificationRequest{
		CommitteeName:   r.FormValue("committee_name"),
		State:           r.FormValue("state"),
		RaceType:        r.FormValue("race_type"),
		CycleYear:       parseIntDefault(r.FormValue("cycle_year"), 0),
		RoleOnCommittee: r.FormValue("role_on_committee"),
		EvidenceType:    r.FormValue("evidence_type"),
		Notes:           r.FormValue("notes"),
	}
	upload, file, err := formUpload(r, "evidence")
	if err != nil {
		writeMappedError(r.Context(), w, "submit_verification", err)
		return
	}
	if file != nil {
		defer file.Close()
	}
	sub, err := h.service.SubmitVerification(r.Context(), mustActor(r), req, upload)
	if err != nil {
		writeMappedError(r.Context(), w, "submit_verification", err)
		return
	}
	writeSuccess(w, http.StatusCreated, sub)
}
