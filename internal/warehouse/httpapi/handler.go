package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pds-platform/fulfillment/internal/contracts"
	"github.com/pds-platform/fulfillment/internal/warehouse"
)

type Handler struct {
	svc  *warehouse.Service
	repo warehouse.Repository
}

func NewHandler(svc *warehouse.Service, repo warehouse.Repository) *Handler {
	return &Handler{svc: svc, repo: repo}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ReserveItem is the endpoint the orchestrator calls per attempt.
// Declines answer 409 so the caller's candidate loop moves on.
func (h *Handler) ReserveItem(w http.ResponseWriter, r *http.Request) {
	var req contracts.StockReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, contracts.StockReservationResponse{Success: false, Error: "bad request"})
		return
	}

	resp, err := h.svc.ReserveItem(r.Context(), req)
	switch {
	case err == nil && resp.Success:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, warehouse.ErrProductNotFound), errors.Is(err, warehouse.ErrInventoryNotFound):
		writeJSON(w, http.StatusNotFound, resp)
	case err == nil:
		// validation failure or insufficient stock
		writeJSON(w, http.StatusConflict, resp)
	default:
		writeJSON(w, http.StatusInternalServerError, contracts.StockReservationResponse{Success: false, Error: "internal error"})
	}
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	warehouseID, err := strconv.ParseInt(chi.URLParam(r, "warehouseId"), 10, 64)
	if err != nil {
		http.Error(w, "bad warehouse id", http.StatusBadRequest)
		return
	}
	productCode := chi.URLParam(r, "productCode")

	inv, err := h.repo.Availability(r.Context(), warehouseID, productCode)
	if err != nil {
		if errors.Is(err, warehouse.ErrInventoryNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, inv)
}

type adjustRequest struct {
	WarehouseID int64  `json:"warehouseId"`
	ProductCode string `json:"productCode"`
	ProductName string `json:"productName,omitempty"`
	Available   int64  `json:"available"`
}

func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.WarehouseID <= 0 || req.ProductCode == "" || req.Available < 0 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpsertStock(r.Context(), req.WarehouseID, req.ProductCode, req.ProductName, req.Available); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
