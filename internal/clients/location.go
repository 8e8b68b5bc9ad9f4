// Package clients holds the typed HTTP clients the order service uses to
// reach the location and warehouse services.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pds-platform/fulfillment/internal/contracts"
)

// LocationClient fetches the distance-ranked candidate warehouse list for a
// delivery address. The ranking itself (geocoding, driving distance) lives
// entirely in the location service.
type LocationClient struct {
	baseURL string
	http    *http.Client
}

func NewLocationClient(baseURL string, httpClient *http.Client) *LocationClient {
	return &LocationClient{baseURL: baseURL, http: httpClient}
}

// RankedWarehouses returns candidate warehouse IDs nearest-first. An empty
// slice is a valid answer meaning no warehouse can serve the address.
func (c *LocationClient) RankedWarehouses(ctx context.Context, address string) ([]int64, error) {
	u := fmt.Sprintf("%s/api/warehouses/ranked?address=%s", c.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("location service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("location service status %d", resp.StatusCode)
	}

	var ranked contracts.RankedWarehousesResponse
	if err := json.NewDecoder(resp.Body).Decode(&ranked); err != nil {
		return nil, fmt.Errorf("decode ranked warehouses: %w", err)
	}

	ids := make([]int64, 0, len(ranked.RankedWarehouses))
	for _, w := range ranked.RankedWarehouses {
		ids = append(ids, w.ID)
	}
	return ids, nil
}
