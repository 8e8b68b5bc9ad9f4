package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Repository interface {
	Availability(ctx context.Context, warehouseID int64, productCode string) (Inventory, error)
	UpsertStock(ctx context.Context, warehouseID int64, productCode, productName string, available int64) error
	Reserve(ctx context.Context, warehouseID int64, productCode string, quantity int) (Reservation, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Availability(ctx context.Context, warehouseID int64, productCode string) (Inventory, error) {
	var inv Inventory
	row := r.pool.QueryRow(ctx, `
		SELECT i.warehouse_id, p.product_code, i.available_quantity, i.reserved_quantity, i.updated_at
		FROM inventories i
		JOIN products p ON p.id = i.product_id
		WHERE i.warehouse_id=$1 AND p.product_code=$2
	`, warehouseID, productCode)
	if err := row.Scan(&inv.WarehouseID, &inv.ProductCode, &inv.AvailableQuantity, &inv.ReservedQuantity, &inv.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inventory{}, ErrInventoryNotFound
		}
		return Inventory{}, err
	}
	return inv, nil
}

// UpsertStock seeds or overwrites the free-to-sell quantity for one row,
// creating the product on first sight. Reserved stock is never touched here.
func (r *PostgresRepository) UpsertStock(ctx context.Context, warehouseID int64, productCode, productName string, available int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var productID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO products(product_code, name)
		VALUES($1, $2)
		ON CONFLICT (product_code) DO UPDATE SET name=COALESCE(NULLIF(EXCLUDED.name, ''), products.name)
		RETURNING id
	`, productCode, productName).Scan(&productID)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO inventories(warehouse_id, product_id, available_quantity, reserved_quantity)
		VALUES($1, $2, $3, 0)
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET available_quantity=EXCLUDED.available_quantity, updated_at=now()
	`, warehouseID, productID, available)
	if err != nil {
		return fmt.Errorf("upsert inventory: %w", err)
	}

	return tx.Commit(ctx)
}

// Reserve atomically checks and debits one inventory row and appends the
// reservation record:
//   - resolves the product by code
//   - locks the (warehouse_id, product_id) row with SELECT ... FOR UPDATE
//   - declines if available < quantity (no mutation)
//   - else available -= quantity, reserved += quantity, one stock_reservations row
//
// The row lock serializes every concurrent attempt on the same pair; nobody
// can observe the row between the availability check and the debit. The
// deferred rollback releases the lock on every exit path.
func (r *PostgresRepository) Reserve(ctx context.Context, warehouseID int64, productCode string, quantity int) (Reservation, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Reservation{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var productID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM products WHERE product_code=$1`, productCode).Scan(&productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Reservation{}, ErrProductNotFound
		}
		return Reservation{}, fmt.Errorf("select product: %w", err)
	}

	var available, reserved int64
	err = tx.QueryRow(ctx, `
		SELECT available_quantity, reserved_quantity
		FROM inventories
		WHERE warehouse_id=$1 AND product_id=$2
		FOR UPDATE
	`, warehouseID, productID).Scan(&available, &reserved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Reservation{}, ErrInventoryNotFound
		}
		return Reservation{}, fmt.Errorf("lock inventory: %w", err)
	}

	if available < int64(quantity) {
		return Reservation{}, &InsufficientStockError{Requested: quantity, Available: available}
	}

	_, err = tx.Exec(ctx, `
		UPDATE inventories
		SET available_quantity = available_quantity - $3,
		    reserved_quantity = reserved_quantity + $3,
		    updated_at = now()
		WHERE warehouse_id=$1 AND product_id=$2
	`, warehouseID, productID, quantity)
	if err != nil {
		return Reservation{}, fmt.Errorf("debit inventory: %w", err)
	}

	res := Reservation{WarehouseID: warehouseID, ProductCode: productCode, Quantity: quantity}
	err = tx.QueryRow(ctx, `
		INSERT INTO stock_reservations(warehouse_id, product_id, quantity)
		VALUES($1, $2, $3)
		RETURNING id, created_at
	`, warehouseID, productID, quantity).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return Reservation{}, fmt.Errorf("insert reservation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Reservation{}, fmt.Errorf("commit reserve: %w", err)
	}
	return res, nil
}
