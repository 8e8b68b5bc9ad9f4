package warehouse

import (
	"context"
	"sync"
	"time"
)

type pairKey struct {
	warehouseID int64
	productID   int64
}

// MemoryRepository keeps the whole engine in process memory. Each inventory
// row has its own mutex, so attempts on the same (warehouse, product) pair
// are fully serialized while disjoint pairs never block each other.
// Used by tests and by local runs that have no Postgres around.
type MemoryRepository struct {
	mu            sync.Mutex // guards the maps, not the rows
	products      map[string]int64
	names         map[int64]string
	rows          map[pairKey]*memoryRow
	nextProductID int64
	nextResID     int64
	reservations  []Reservation
}

type memoryRow struct {
	mu        sync.Mutex
	available int64
	reserved  int64
	updatedAt time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		products: make(map[string]int64),
		names:    make(map[int64]string),
		rows:     make(map[pairKey]*memoryRow),
	}
}

func (r *MemoryRepository) Availability(ctx context.Context, warehouseID int64, productCode string) (Inventory, error) {
	r.mu.Lock()
	productID, ok := r.products[productCode]
	if !ok {
		r.mu.Unlock()
		return Inventory{}, ErrInventoryNotFound
	}
	row, ok := r.rows[pairKey{warehouseID, productID}]
	r.mu.Unlock()
	if !ok {
		return Inventory{}, ErrInventoryNotFound
	}

	row.mu.Lock()
	defer row.mu.Unlock()
	return Inventory{
		WarehouseID:       warehouseID,
		ProductCode:       productCode,
		AvailableQuantity: row.available,
		ReservedQuantity:  row.reserved,
		UpdatedAt:         row.updatedAt,
	}, nil
}

func (r *MemoryRepository) UpsertStock(ctx context.Context, warehouseID int64, productCode, productName string, available int64) error {
	r.mu.Lock()
	productID, ok := r.products[productCode]
	if !ok {
		r.nextProductID++
		productID = r.nextProductID
		r.products[productCode] = productID
	}
	if productName != "" {
		r.names[productID] = productName
	}
	key := pairKey{warehouseID, productID}
	row, ok := r.rows[key]
	if !ok {
		row = &memoryRow{}
		r.rows[key] = row
	}
	r.mu.Unlock()

	row.mu.Lock()
	row.available = available
	row.updatedAt = time.Now().UTC()
	row.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Reserve(ctx context.Context, warehouseID int64, productCode string, quantity int) (Reservation, error) {
	r.mu.Lock()
	productID, ok := r.products[productCode]
	if !ok {
		r.mu.Unlock()
		return Reservation{}, ErrProductNotFound
	}
	row, ok := r.rows[pairKey{warehouseID, productID}]
	r.mu.Unlock()
	if !ok {
		return Reservation{}, ErrInventoryNotFound
	}

	// Row-scoped critical section: check-then-debit under one lock.
	row.mu.Lock()
	defer row.mu.Unlock()

	if row.available < int64(quantity) {
		return Reservation{}, &InsufficientStockError{Requested: quantity, Available: row.available}
	}
	row.available -= int64(quantity)
	row.reserved += int64(quantity)
	row.updatedAt = time.Now().UTC()

	r.mu.Lock()
	r.nextResID++
	res := Reservation{
		ID:          r.nextResID,
		WarehouseID: warehouseID,
		ProductCode: productCode,
		Quantity:    quantity,
		CreatedAt:   row.updatedAt,
	}
	r.reservations = append(r.reservations, res)
	r.mu.Unlock()

	return res, nil
}

// ReservationCount reports how many reservation records exist; test helper.
func (r *MemoryRepository) ReservationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reservations)
}
