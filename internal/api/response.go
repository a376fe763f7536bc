package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

// maxBodyBytes bounds request bodies. Ingredient lists are small.
const maxBodyBytes = 1 << 20

// Error codes for API responses.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_ERROR"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Response is the envelope of every API response.
type Response struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata describes the response itself.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError is the error part of a failed response.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	resp.Metadata = Metadata{
		Timestamp: time.Now().UTC(),
		RequestID: RequestIDFromContext(r.Context()),
	}

	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("marshal response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.log.Warn("write response: %v", err)
	}
}

func (s *Server) respondOK(w http.ResponseWriter, r *http.Request, data any) {
	s.respondJSON(w, r, http.StatusOK, &Response{Status: "success", Data: data})
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *APIError) {
	if status >= http.StatusInternalServerError {
		s.log.Error("%s %s: %s", r.Method, r.URL.Path, apiErr.Message)
	}
	s.respondJSON(w, r, status, &Response{Status: "error", Error: apiErr})
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, message string) {
	s.respondError(w, r, http.StatusBadRequest, &APIError{Code: ErrCodeBadRequest, Message: message})
}

// respondDomainError maps sentinel errors to HTTP statuses.
func (s *Server) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.respondError(w, r, http.StatusNotFound, &APIError{Code: ErrCodeNotFound, Message: err.Error()})
	case errors.Is(err, domain.ErrUnknownSystem),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrEmptyLine):
		s.badRequest(w, r, err.Error())
	default:
		s.respondError(w, r, http.StatusInternalServerError, &APIError{Code: ErrCodeInternalError, Message: err.Error()})
	}
}

// decodeRequest reads a JSON body into dst and validates it. It writes the
// error response itself and reports whether the handler may continue.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			s.badRequest(w, r, "request body is empty")
			return false
		}
		s.badRequest(w, r, fmt.Sprintf("invalid JSON: %v", err))
		return false
	}
	if apiErr := validateRequest(dst); apiErr != nil {
		s.respondError(w, r, http.StatusBadRequest, apiErr)
		return false
	}
	return true
}

// intParam reads an integer query parameter, falling back to def when it
// is absent. A malformed value is an error.
func intParam(r *http.Request, key string, def int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}
