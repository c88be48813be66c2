package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Sentinel errors for errors.Is matching.
var (
	// ErrUnauthorized means the service rejected the member token
	// even after a refresh.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means the requested message does not exist or is
	// not visible to the member.
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx response from the notification service.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("notification service returned status %d", e.Status)
	}
	return fmt.Sprintf("notification service returned status %d: %s", e.Status, e.Detail)
}

// Is allows errors.Is() to match the sentinel for the status class.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// newAPIError reads the error payload, preferring the problem-details
// fields the service emits over the raw body.
func newAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(body))

	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &problem); err == nil {
		if problem.Detail != "" {
			detail = problem.Detail
		} else if problem.Title != "" {
			detail = problem.Title
		}
	}
	return &APIError{Status: resp.StatusCode, Detail: detail}
}
