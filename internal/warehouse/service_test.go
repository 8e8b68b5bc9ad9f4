package warehouse

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/pds-platform/fulfillment/internal/contracts"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestService_ReserveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("success carries the reservation id", func(t *testing.T) {
		repo := NewMemoryRepository()
		_ = repo.UpsertStock(ctx, 1, "p1", "", 5)
		svc := NewService(repo, testLogger())

		resp, err := svc.ReserveItem(ctx, contracts.StockReservationRequest{WarehouseID: 1, ProductCode: "p1", Quantity: 3})
		if err != nil {
			t.Fatalf("reserve: %v", err)
		}
		if !resp.Success || resp.ReservationID == nil || *resp.ReservationID == 0 {
			t.Fatalf("unexpected response: %+v", resp)
		}

		inv, err := repo.Availability(ctx, 1, "p1")
		if err != nil {
			t.Fatalf("availability: %v", err)
		}
		if inv.AvailableQuantity != 2 || inv.ReservedQuantity != 3 {
			t.Fatalf("row not debited: %+v", inv)
		}
	})

	t.Run("insufficient stock declines with the shortfall", func(t *testing.T) {
		repo := NewMemoryRepository()
		_ = repo.UpsertStock(ctx, 1, "p1", "", 2)
		svc := NewService(repo, testLogger())

		resp, err := svc.ReserveItem(ctx, contracts.StockReservationRequest{WarehouseID: 1, ProductCode: "p1", Quantity: 5})
		if err != nil {
			t.Fatalf("decline should not be an error: %v", err)
		}
		if resp.Success || resp.Requested != 5 || resp.Available != 2 {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("unknown product reports not found", func(t *testing.T) {
		svc := NewService(NewMemoryRepository(), testLogger())

		resp, err := svc.ReserveItem(ctx, contracts.StockReservationRequest{WarehouseID: 1, ProductCode: "missing", Quantity: 1})
		if err == nil || resp.Success {
			t.Fatalf("expected not-found failure, got resp=%+v err=%v", resp, err)
		}
	})
}

func TestService_ReserveItem_RejectsNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()

	for _, quantity := range []int{0, -1, -100} {
		repo := NewMemoryRepository()
		_ = repo.UpsertStock(ctx, 1, "p1", "", 5)
		svc := NewService(repo, testLogger())

		resp, err := svc.ReserveItem(ctx, contracts.StockReservationRequest{WarehouseID: 1, ProductCode: "p1", Quantity: quantity})
		if err != nil {
			t.Fatalf("quantity %d: validation failure should not be an error: %v", quantity, err)
		}
		if resp.Success {
			t.Fatalf("quantity %d: expected rejection", quantity)
		}

		inv, err := repo.Availability(ctx, 1, "p1")
		if err != nil {
			t.Fatalf("availability: %v", err)
		}
		if inv.AvailableQuantity != 5 || inv.ReservedQuantity != 0 {
			t.Fatalf("quantity %d: row mutated by rejected request: %+v", quantity, inv)
		}
		if repo.ReservationCount() != 0 {
			t.Fatalf("quantity %d: reservation recorded for rejected request", quantity)
		}
	}
}
