package web

import (
	"errors"
	"net/http"
)

// HTTPError is an error with a status code and a stable machine readable key.
type HTTPError struct {
	Status int
	Key    string
}

func (e HTTPError) Error() string { return e.Key }

var (
	ErrBadRequest = HTTPError{Status: http.StatusBadRequest, Key: "bad_request"}
	ErrNotFound   = HTTPError{Status: http.StatusNotFound, Key: "not_found"}
	ErrInternal   = HTTPError{Status: http.StatusInternalServerError, Key: "internal_error"}
)

var ErrSearchFailed = errors.New("web: search failed")
