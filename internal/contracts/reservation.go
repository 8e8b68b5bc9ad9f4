// Package contracts holds the wire types shared between the fulfillment
// orchestrator and the services it calls.
package contracts

// StockReservationRequest asks one warehouse to debit stock for a single
// order item.
type StockReservationRequest struct {
	WarehouseID int64  `json:"warehouseId"`
	ProductCode string `json:"productCode"`
	Quantity    int    `json:"quantity"`
}

// StockReservationResponse reports the outcome of one reservation attempt.
// ReservationID is set only on success. Available and Requested are filled
// on an insufficient-stock decline so callers can log the shortfall.
type StockReservationResponse struct {
	Success       bool   `json:"success"`
	ReservationID *int64 `json:"reservationId,omitempty"`
	Requested     int    `json:"requested,omitempty"`
	Available     int64  `json:"available,omitempty"`
	Error         string `json:"error,omitempty"`
}

// RankedWarehouse is one entry of the location service's distance ranking.
type RankedWarehouse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name,omitempty"`
	DistanceKm float64 `json:"distance_km"`
}

// RankedWarehousesResponse is the location service payload for
// GET /api/warehouses/ranked?address=... — warehouses sorted by ascending
// driving distance. An empty list is a valid "no candidates" answer.
type RankedWarehousesResponse struct {
	RankedWarehouses []RankedWarehouse `json:"ranked_warehouses"`
}
