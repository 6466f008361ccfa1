// Package catalog answers product existence queries against the retrieval service.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

// HTTPOracle asks the document retrieval service for the single best match and
// reports existence by whether any match came back. No fuzziness or threshold
// logic is applied beyond what the service itself provides.
type HTTPOracle struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// NewHTTPOracle creates an oracle querying the retrieval service at baseURL.
func NewHTTPOracle(baseURL string, timeout time.Duration, log *slog.Logger) *HTTPOracle {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}

	return &HTTPOracle{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// ProductExists queries the top-1 match for name. Blank names never match.
func (o *HTTPOracle) ProductExists(ctx context.Context, name string) (bool, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return false, nil
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&k=1", o.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("query catalog: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var matches []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return false, fmt.Errorf("decode catalog response: %w", err)
	}

	return len(matches) > 0, nil
}
