package order

type Status string

const (
	// StatusReceived is set when the order is first persisted, before any
	// external call is made.
	StatusReceived Status = "received"
	// StatusStockReserved means every item was reserved at some warehouse.
	StatusStockReserved Status = "stock_reserved"
	StatusFailed        Status = "failed"
)

type ItemStatus string

const (
	ItemStatusPending      ItemStatus = "pending"
	ItemStatusReserved     ItemStatus = "reserved"
	ItemStatusNotAvailable ItemStatus = "not_available"
)
