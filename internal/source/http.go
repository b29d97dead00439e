package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/woozymasta/obrasmap/internal/geo"
)

// HTTP fetches the dataset with a single unauthenticated GET. There is no retry.
type HTTP struct {
	client *http.Client
	url    string
}

// NewHTTP returns an HTTP source; a nil client gets a 15 second timeout.
func NewHTTP(client *http.Client, url string) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTP{client: client, url: url}
}

func (h *HTTP) Name() string { return h.url }

func (h *HTTP) Load(ctx context.Context) (*geo.FeatureCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w %d", ErrStatus, resp.StatusCode)
	}

	return geo.DecodeReader(resp.Body)
}
