package order

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/pds-platform/fulfillment/internal/contracts"
)

// WarehouseLocator returns candidate warehouse IDs for a delivery address,
// ranked nearest-first by the location service.
type WarehouseLocator interface {
	RankedWarehouses(ctx context.Context, address string) ([]int64, error)
}

// StockReserver is one reservation attempt against a specific warehouse.
type StockReserver interface {
	ReserveItem(ctx context.Context, warehouseID int64, productCode string, quantity int) (contracts.StockReservationResponse, error)
}

// EventPublisher announces the terminal fulfillment outcome. Best-effort:
// Submit logs publish failures and still returns the fulfilled order.
type EventPublisher interface {
	PublishFulfillmentResult(ctx context.Context, o *Order) error
}

var ErrMissingAddress = errors.New("delivery address is required")

// Service drives the order lifecycle: persist, rank candidates, reserve
// per item, persist the outcome.
type Service struct {
	repo      Repository
	locator   WarehouseLocator
	reserver  StockReserver
	publisher EventPublisher
	logger    *log.Logger
}

func NewService(repo Repository, locator WarehouseLocator, reserver StockReserver, publisher EventPublisher, logger *log.Logger) *Service {
	return &Service{
		repo:      repo,
		locator:   locator,
		reserver:  reserver,
		publisher: publisher,
		logger:    logger,
	}
}

// Submit runs the whole fulfillment workflow for a new order:
//
//  1. Persist the order as received before any external call, so a crash
//     mid-fulfillment still leaves a recoverable record.
//  2. Fetch the ranked candidate list. No candidates fails the order with
//     no reservation attempt made.
//  3. For each item, try candidates nearest-first until one reserves.
//  4. Persist the terminal order + item state and publish the result.
//
// One unreservable item fails the whole order. Reservations already made for
// earlier items are NOT released: those debits stay committed at their
// warehouses even though the order fails. There is deliberately no
// compensation step here.
func (s *Service) Submit(ctx context.Context, o *Order) (*Order, error) {
	if o.DeliveryAddress == "" {
		return nil, ErrMissingAddress
	}

	o.Status = StatusReceived
	o.CreatedAt = time.Now().UTC()
	for i := range o.Items {
		o.Items[i].Status = ItemStatusPending
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	candidates := s.findCandidateWarehouses(ctx, o.DeliveryAddress)
	if len(candidates) == 0 {
		s.logger.Printf("order %s: no candidate warehouses for %q", o.ID, o.DeliveryAddress)
		o.Status = StatusFailed
	} else if s.fulfill(ctx, o, candidates) {
		o.Status = StatusStockReserved
	} else {
		o.Status = StatusFailed
	}

	if err := s.repo.UpdateFulfillment(ctx, o); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishFulfillmentResult(ctx, o); err != nil {
			s.logger.Printf("order %s: publish fulfillment result: %v", o.ID, err)
		}
	}

	return o, nil
}

// findCandidateWarehouses delegates to the location service. A communication
// failure degrades to "no candidates" rather than failing the submission.
func (s *Service) findCandidateWarehouses(ctx context.Context, address string) []int64 {
	ids, err := s.locator.RankedWarehouses(ctx, address)
	if err != nil {
		s.logger.Printf("location service: %v", err)
		return nil
	}
	return ids
}

// fulfill walks the items in order, trying each candidate warehouse in rank
// order and stopping at the first success per item. Returns true only when
// every item reserved. The first item that no candidate can cover is marked
// not_available and fulfillment stops; later items stay pending.
func (s *Service) fulfill(ctx context.Context, o *Order, candidates []int64) bool {
	for i := range o.Items {
		item := &o.Items[i]
		reserved := false

		for _, warehouseID := range candidates {
			resp, err := s.attemptReservation(ctx, warehouseID, item)
			if err != nil {
				// A transport failure counts the same as a decline: move on
				// to the next candidate, never retry this one.
				s.logger.Printf("order %s: warehouse %d attempt for %s: %v", o.ID, warehouseID, item.ProductCode, err)
				continue
			}
			if resp.Success {
				id := warehouseID
				item.FulfilledByWarehouseID = &id
				item.Status = ItemStatusReserved
				reserved = true
				break
			}
		}

		if !reserved {
			item.Status = ItemStatusNotAvailable
			return false
		}
	}
	return true
}

func (s *Service) attemptReservation(ctx context.Context, warehouseID int64, item *Item) (contracts.StockReservationResponse, error) {
	return s.reserver.ReserveItem(ctx, warehouseID, item.ProductCode, item.Quantity)
}
