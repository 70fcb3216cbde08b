package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/inputguard/pkg/guard"
	"github.com/dmitrymomot/inputguard/pkg/validator"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Code  string         `json:"code,omitempty"`
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// Response renders itself to w.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

type jsonResponse struct {
	status int
	body   Envelope
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON wraps data in a 200 envelope.
func JSON(code string, data any, meta map[string]any) Response {
	return jsonResponse{
		status: http.StatusOK,
		body:   Envelope{Code: code, Data: data, Meta: meta},
	}
}

// JSONError maps err to a status code and error envelope. Validation
// errors become 422 with per-field details, HTTPError keeps its status,
// bind failures are 400 and everything else is a 500 without internals.
func JSONError(err error) Response {
	var httpErr HTTPError
	switch {
	case validator.IsValidationError(err):
		return jsonResponse{
			status: http.StatusUnprocessableEntity,
			body: Envelope{
				Code: "validation_error",
				Error: &ErrorDetail{
					Code:    "validation_error",
					Message: "request contains invalid parameters",
					Details: validator.ExtractValidationErrors(err).Map(),
				},
			},
		}
	case errors.As(err, &httpErr):
		return errorResponse(httpErr)
	case errors.Is(err, guard.ErrFailedToBindQuery), errors.Is(err, guard.ErrFailedToBindForm):
		return errorResponse(ErrBadRequest)
	default:
		return errorResponse(ErrInternal)
	}
}

func errorResponse(e HTTPError) Response {
	return jsonResponse{
		status: e.Status,
		body: Envelope{
			Code:  e.Key,
			Error: &ErrorDetail{Code: e.Key, Message: http.StatusText(e.Status)},
		},
	}
}
