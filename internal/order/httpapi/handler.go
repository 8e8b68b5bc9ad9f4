package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pds-platform/fulfillment/internal/order"
)

type OrderHandler struct {
	svc  *order.Service
	repo order.Repository
}

func NewOrderHandler(svc *order.Service, repo order.Repository) *OrderHandler {
	return &OrderHandler{svc: svc, repo: repo}
}

type submitItem struct {
	ProductCode string `json:"productCode"`
	Quantity    int    `json:"quantity"`
}

type submitRequest struct {
	CustomerID      string       `json:"customerId"`
	DeliveryAddress string       `json:"deliveryAddress"`
	Items           []submitItem `json:"items"`
}

// SubmitOrder accepts a new order, runs fulfillment synchronously, and
// replies with the terminal order state.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	for _, it := range req.Items {
		if it.ProductCode == "" || it.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "items need a productCode and a positive quantity")
			return
		}
	}

	o := &order.Order{
		CustomerID:      req.CustomerID,
		DeliveryAddress: req.DeliveryAddress,
	}
	for _, it := range req.Items {
		o.Items = append(o.Items, order.Item{ProductCode: it.ProductCode, Quantity: it.Quantity})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := h.svc.Submit(ctx, o)
	if err != nil {
		if errors.Is(err, order.ErrMissingAddress) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to process order")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderId")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing orderId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.repo.GetByID(ctx, orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.repo.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}
