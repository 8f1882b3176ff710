package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/putsign/putsign/pkg/putsign"
)

// SignHandler handles HTTP requests for signed URLs
type SignHandler struct {
	service putsign.Service
}

// NewSignHandler creates a new sign handler
func NewSignHandler(service putsign.Service) *SignHandler {
	return &SignHandler{service: service}
}

// Routes returns the routes for signed URL operations
func (h *SignHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/sign", h.SignURL)
	r.Get("/grants", h.ListGrants)

	return r
}

// SignURLRequest is the request body for signing a URL. Minutes is a
// pointer so an explicit zero is rejected instead of silently defaulting.
type SignURLRequest struct {
	Backend     string `json:"backend,omitempty"`
	Bucket      string `json:"bucket"`
	ObjectKey   string `json:"object_key"`
	Method      string `json:"method,omitempty"`
	Minutes     *int   `json:"minutes,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// ErrResponse is the JSON body returned on failure
type ErrResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// SignURL issues a signed URL and returns the grant
func (h *SignHandler) SignURL(w http.ResponseWriter, r *http.Request) {
	var req SignURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	signReq := putsign.SignRequest{
		Backend:     req.Backend,
		Bucket:      req.Bucket,
		ObjectKey:   req.ObjectKey,
		Method:      req.Method,
		ContentType: req.ContentType,
	}
	if req.Minutes != nil {
		if *req.Minutes <= 0 {
			writeError(w, r, http.StatusBadRequest, "invalid_minutes", putsign.ErrInvalidTTL.Error())
			return
		}
		signReq.TTL = time.Duration(*req.Minutes) * time.Minute
	}

	grant, err := h.service.SignURL(r.Context(), signReq)
	if err != nil {
		status, code := classifyError(err)
		writeError(w, r, status, code, err.Error())
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, grant)
}

// ListGrants returns recorded grants, optionally filtered by bucket
func (h *SignHandler) ListGrants(w http.ResponseWriter, r *http.Request) {
	bucket := r.URL.Query().Get("bucket")

	grants, err := h.service.ListGrants(r.Context(), bucket)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	if grants == nil {
		grants = []*putsign.Grant{}
	}

	render.JSON(w, r, grants)
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, putsign.ErrMissingBucket):
		return http.StatusBadRequest, "missing_bucket"
	case errors.Is(err, putsign.ErrMissingObject):
		return http.StatusBadRequest, "missing_object_key"
	case errors.Is(err, putsign.ErrInvalidTTL):
		return http.StatusBadRequest, "invalid_minutes"
	case errors.Is(err, putsign.ErrInvalidMethod):
		return http.StatusBadRequest, "invalid_method"
	case errors.Is(err, putsign.ErrBackendNotFound):
		return http.StatusBadRequest, "backend_not_found"
	case errors.Is(err, putsign.ErrAuthentication):
		return http.StatusBadGateway, "authentication_failed"
	default:
		var signErr *putsign.SignError
		if errors.As(err, &signErr) {
			return http.StatusBadGateway, "signing_failed"
		}
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrResponse{Code: code, Error: message})
}
