// Package dialogue is the public entry point for handling chat turns.
package dialogue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Responder is the general question-answering agent used for non-order turns.
// Calls may be long-running; the facade bounds them with a timeout.
type Responder interface {
	Respond(ctx context.Context, query string) (string, error)
}

// HTTPResponder forwards queries to the assistant service over HTTP.
type HTTPResponder struct {
	url    string
	client *http.Client
}

// NewHTTPResponder creates a responder posting to the given endpoint.
// Deadlines come from the caller's context.
func NewHTTPResponder(url string) *HTTPResponder {
	return &HTTPResponder{
		url:    strings.TrimRight(url, "/"),
		client: &http.Client{},
	}
}

// Respond sends the query and returns the agent's reply verbatim.
func (r *HTTPResponder) Respond(ctx context.Context, query string) (string, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return "", fmt.Errorf("encode responder request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build responder request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call responder: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("responder returned status %d", resp.StatusCode)
	}

	var body struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode responder response: %w", err)
	}

	return body.Reply, nil
}
