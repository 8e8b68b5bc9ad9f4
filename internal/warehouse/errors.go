package warehouse

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInventoryNotFound = errors.New("inventory not found")
)

// InsufficientStockError is a definite decline: the row exists but cannot
// cover the requested quantity. It is never retried by the engine.
type InsufficientStockError struct {
	Requested int
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested=%d available=%d", e.Requested, e.Available)
}
