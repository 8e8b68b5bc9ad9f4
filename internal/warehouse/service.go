package warehouse

import (
	"context"
	"errors"
	"log"

	"github.com/pds-platform/fulfillment/internal/contracts"
)

// Service fronts the reservation engine: it rejects invalid requests before
// any row is touched and maps repository outcomes onto the wire response.
type Service struct {
	repo   Repository
	logger *log.Logger
}

func NewService(repo Repository, logger *log.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ReserveItem handles one reservation attempt. Quantity <= 0 fails without
// a lookup. Product/row absence and insufficient stock are definite declines
// reported in the response; only unexpected failures surface as errors.
func (s *Service) ReserveItem(ctx context.Context, req contracts.StockReservationRequest) (contracts.StockReservationResponse, error) {
	if req.Quantity <= 0 {
		return contracts.StockReservationResponse{Success: false, Error: "quantity must be positive"}, nil
	}

	res, err := s.repo.Reserve(ctx, req.WarehouseID, req.ProductCode, req.Quantity)
	if err != nil {
		var short *InsufficientStockError
		switch {
		case errors.As(err, &short):
			s.logger.Printf("decline warehouse=%d product=%s requested=%d available=%d",
				req.WarehouseID, req.ProductCode, short.Requested, short.Available)
			return contracts.StockReservationResponse{
				Success:   false,
				Requested: short.Requested,
				Available: short.Available,
				Error:     short.Error(),
			}, nil
		case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrInventoryNotFound):
			return contracts.StockReservationResponse{Success: false, Error: err.Error()}, err
		default:
			return contracts.StockReservationResponse{Success: false}, err
		}
	}

	s.logger.Printf("reserved id=%d warehouse=%d product=%s quantity=%d",
		res.ID, req.WarehouseID, req.ProductCode, req.Quantity)
	return contracts.StockReservationResponse{Success: true, ReservationID: &res.ID}, nil
}
