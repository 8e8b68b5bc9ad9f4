package warehouse

import "time"

// Product is the catalog entry inventory rows and reservations hang off.
type Product struct {
	ID   int64  `json:"id"`
	Code string `json:"productCode"`
	Name string `json:"name,omitempty"`
}

// Inventory is one stock row, unique per (warehouseId, productCode).
// AvailableQuantity and ReservedQuantity move together: a reservation
// debits one and credits the other by the same amount, atomically.
type Inventory struct {
	WarehouseID       int64     `json:"warehouseId"`
	ProductCode       string    `json:"productCode"`
	AvailableQuantity int64     `json:"availableQuantity"`
	ReservedQuantity  int64     `json:"reservedQuantity"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Reservation is an append-only audit fact recording a successful debit.
type Reservation struct {
	ID          int64     `json:"reservationId"`
	WarehouseID int64     `json:"warehouseId"`
	ProductCode string    `json:"productCode"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"createdAt"`
}
