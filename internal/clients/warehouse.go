package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pds-platform/fulfillment/internal/contracts"
)

// WarehouseClient issues reservation attempts against the warehouse service.
type WarehouseClient struct {
	baseURL string
	http    *http.Client
}

func NewWarehouseClient(baseURL string, httpClient *http.Client) *WarehouseClient {
	return &WarehouseClient{baseURL: baseURL, http: httpClient}
}

// ReserveItem posts one reservation attempt. A non-2xx answer with a decodable
// body is returned as a declined response, not an error: declines (insufficient
// stock, unknown product) carry their detail in the body and the caller treats
// them the same as any other failed attempt.
func (c *WarehouseClient) ReserveItem(ctx context.Context, warehouseID int64, productCode string, quantity int) (contracts.StockReservationResponse, error) {
	payload := contracts.StockReservationRequest{
		WarehouseID: warehouseID,
		ProductCode: productCode,
		Quantity:    quantity,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return contracts.StockReservationResponse{}, fmt.Errorf("marshal reservation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reserve-item", bytes.NewReader(body))
	if err != nil {
		return contracts.StockReservationResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return contracts.StockReservationResponse{}, fmt.Errorf("warehouse service request: %w", err)
	}
	defer resp.Body.Close()

	var out contracts.StockReservationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return contracts.StockReservationResponse{}, fmt.Errorf("decode reservation response (status %d): %w", resp.StatusCode, err)
	}
	return out, nil
}
