// Package httpclient provides generic helpers for JSON-over-HTTP resources.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
)

// Header is applied to every request built by this package's helpers.
type Header struct {
	Key   string
	Value string
}

// GetResource performs a GET against baseURL+endpoint and decodes the body into T.
func GetResource[T any](ctx context.Context, client *http.Client, baseURL, endpoint string, okStatuses []int, headers ...Header) (T, error) {
	return doResource[T](ctx, client, http.MethodGet, baseURL, endpoint, nil, okStatuses, headers...)
}

// PostResource performs a POST with a JSON-encoded body and decodes the response into T.
func PostResource[T any](ctx context.Context, client *http.Client, baseURL, endpoint string, body any, okStatuses []int, headers ...Header) (T, error) {
	return doResource[T](ctx, client, http.MethodPost, baseURL, endpoint, body, okStatuses, headers...)
}

// PutResource performs a PUT with a JSON-encoded body and decodes the response into T.
func PutResource[T any](ctx context.Context, client *http.Client, baseURL, endpoint string, body any, okStatuses []int, headers ...Header) (T, error) {
	return doResource[T](ctx, client, http.MethodPut, baseURL, endpoint, body, okStatuses, headers...)
}

func doResource[T any](ctx context.Context, client *http.Client, method, baseURL, endpoint string, body any, okStatuses []int, headers ...Header) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("couldn't encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+endpoint, reader)
	if err != nil {
		return zero, fmt.Errorf("couldn't build request %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		req.Header.Set(h.Key, h.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return zero, fmt.Errorf("couldn't request %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("couldn't read response of %s %s: %w", method, endpoint, err)
	}

	if !slices.Contains(okStatuses, resp.StatusCode) {
		return zero, &StatusError{Method: method, Endpoint: endpoint, StatusCode: resp.StatusCode, Body: truncate(raw, 300)}
	}

	var decoded T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return zero, fmt.Errorf("couldn't decode response of %s %s: %w", method, endpoint, err)
	}
	return decoded, nil
}

// StatusError reports a response outside the accepted status set.
type StatusError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s %s: %s", e.StatusCode, e.Method, e.Endpoint, e.Body)
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
