package backend

import (
	"encoding/json"
	"io"
	"net/http"
)

// APIError is the uniform failure shape for every backend call. Detail is
// always presentable: the backend's own message when it sent one, otherwise
// the operation's generic fallback.
type APIError struct {
	Op         string
	StatusCode int
	Detail     string
	Err        error
}

func (e *APIError) Error() string {
	return e.Detail
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// detailEnvelope is the backend's error body, e.g. {"detail": "Incorrect password"}.
type detailEnvelope struct {
	Detail string `json:"detail"`
}

func newAPIError(op string, resp *http.Response, fallback string) *APIError {
	apiErr := &APIError{Op: op, StatusCode: resp.StatusCode, Detail: fallback}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	var envelope detailEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		apiErr.Detail = envelope.Detail
	}
	return apiErr
}
