package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrInvalidCredentials is returned when the auth backend rejects a
	// sign-in attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthorized is returned when a request lacks a valid session.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrForbidden is returned when the backend's row-level policy rejects an
	// operation (e.g. deleting another author's notification).
	ErrForbidden = errors.New("operation forbidden by backend policy")

	// ErrNotFound is returned for a missing record.
	ErrNotFound = errors.New("record not found")
)

func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	switch code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}
	return fmt.Errorf("http %d: %s", code, body)
}

// mapAuthError narrows token-endpoint failures: GoTrue answers 400 with an
// invalid_grant payload for bad credentials, other statuses fall through to
// the generic mapping.
func mapAuthError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code == http.StatusBadRequest || code == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	return mapHTTPError(resp)
}
