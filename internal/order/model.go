package order

import "time"

// Item is one line of an order. It belongs to exactly one order and records
// which warehouse ended up covering it once reserved.
type Item struct {
	ID                     string     `json:"-"`
	ProductCode            string     `json:"productCode"`
	Quantity               int        `json:"quantity"`
	Status                 ItemStatus `json:"status"`
	FulfilledByWarehouseID *int64     `json:"fulfilledByWarehouseId,omitempty"`
}

type Order struct {
	ID              string    `json:"orderId"`
	CustomerID      string    `json:"customerId"`
	DeliveryAddress string    `json:"deliveryAddress"`
	Items           []Item    `json:"items"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}
