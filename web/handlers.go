package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marvilon/leadgate/app"
	"github.com/marvilon/leadgate/pkg/clientid"
)

// User-facing response messages. These are part of the public contract the
// site's forms display verbatim.
const (
	msgRateLimited     = "Too many submissions. Please try again later."
	msgTokenMissing    = "Missing captcha token"
	msgCaptchaRejected = "Captcha verification failed. Please try again."
	msgDispatchFailed  = "Failed to send message"
	msgInternal        = "An unexpected error occurred. Please try again later."
	msgSpecSubmitted   = "Spec request submitted successfully"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ContactSubmit handles POST /api/contact.
func (h *Handler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	var sub app.ContactSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	sub.IP = clientid.IP(r)
	sub.UserAgent = r.UserAgent()

	err := h.contact.Submit(r.Context(), sub)
	if err != nil {
		h.writeSubmitError(w, "contact", err)
		return
	}

	h.countSubmission("contact", "success")
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// SpecRequestSubmit handles POST /api/spec-request.
func (h *Handler) SpecRequestSubmit(w http.ResponseWriter, r *http.Request) {
	var sub app.SpecRequestSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	sub.IP = clientid.IP(r)
	sub.UserAgent = r.UserAgent()

	err := h.specRequest.Submit(r.Context(), sub)
	if err != nil {
		h.writeSubmitError(w, "spec_request", err)
		return
	}

	h.countSubmission("spec_request", "success")
	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: msgSpecSubmitted})
}

// Products handles GET /api/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, h.catalog.Products())
}

// Product handles GET /api/products/{id}.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.catalog == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Product not found"})
		return
	}
	p, ok := h.catalog.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Product not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// writeSubmitError maps the service error taxonomy onto HTTP responses.
// Unknown errors become a non-leaking 500; details stay in the log.
func (h *Handler) writeSubmitError(w http.ResponseWriter, formName string, err error) {
	var verr *app.ValidationError
	var derr *app.DispatchError

	switch {
	case errors.Is(err, app.ErrRateLimited):
		h.countError(formName, "rate_limited")
		if h.metrics != nil {
			h.metrics.RateLimitHits.WithLabelValues(formName).Inc()
		}
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: msgRateLimited})

	case errors.Is(err, app.ErrCaptchaMissing):
		h.countError(formName, "token_missing")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgTokenMissing})

	case errors.Is(err, app.ErrCaptchaRejected):
		h.countError(formName, "captcha_rejected")
		if h.metrics != nil {
			h.metrics.CaptchaFailures.WithLabelValues("rejected").Inc()
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgCaptchaRejected})

	case errors.As(err, &verr):
		h.countError(formName, "validation")
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  verr.Message,
			Fields: fieldProblems(verr),
		})

	case errors.As(err, &derr):
		h.countError(formName, "dispatch")
		if h.metrics != nil {
			h.metrics.EmailDispatches.WithLabelValues("failure").Inc()
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgDispatchFailed})

	default:
		h.countError(formName, "internal")
		h.logger.Error().Err(err).Str("form", formName).Msg("submission failed unexpectedly")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
	}
}

func fieldProblems(verr *app.ValidationError) map[string]string {
	if len(verr.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(verr.Fields))
	for f, msg := range verr.Fields {
		out[string(f)] = msg
	}
	return out
}

func (h *Handler) countSubmission(formName, outcome string) {
	if h.metrics != nil {
		h.metrics.SubmissionsTotal.WithLabelValues(formName, outcome).Inc()
	}
}

func (h *Handler) countError(formName, reason string) {
	if h.metrics != nil {
		h.metrics.SubmissionsTotal.WithLabelValues(formName, "error").Inc()
		h.metrics.SubmissionErrors.WithLabelValues(formName, reason).Inc()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
