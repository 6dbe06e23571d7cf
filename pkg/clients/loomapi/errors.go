package loomapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// ErrUnauthorized is returned when the backend rejects the bearer token.
// Callers surface it; only the startup validation path clears the session.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a normalized non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

// apiError mirrors the backend's error body shape.
type apiError struct {
	Detail string `json:"detail"`
}

// normalize turns a non-2xx response into an error. Precedence for the
// message: the body's detail field, then the call-specific fallback, then a
// generic "HTTP <status>" string.
func normalize(resp *resty.Response, body *apiError, fallback string) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}

	detail := ""
	if body != nil {
		detail = body.Detail
	}
	if detail == "" {
		detail = fallback
	}
	if detail == "" {
		detail = fmt.Sprintf("HTTP %d", resp.StatusCode())
	}

	apiErr := &APIError{StatusCode: resp.StatusCode(), Detail: detail}
	if resp.StatusCode() == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", apiErr.Detail, ErrUnauthorized)
	}
	return apiErr
}
