package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lukelektro/storefront-api/internal/orders"
)

// OrderStore is the slice of orders.Repo the handler consumes; injected at
// startup rather than reached for globally.
type OrderStore interface {
	PlaceOrder(ctx context.Context, customerID, statusID int64, lines []orders.Line) (int64, error)
	GetOrder(ctx context.Context, orderID int64) (orders.Order, []orders.Line, error)
}

type OrdersHandler struct {
	Orders OrderStore
}

type PlaceOrderReq struct {
	CustomerID int64         `json:"cliente_id"`
	StatusID   int64         `json:"estado_id"`
	Lines      []orders.Line `json:"productos"`
}

type PlaceOrderResp struct {
	OrderID int64 `json:"pedido_id"`
}

type OrderResp struct {
	orders.Order
	Lines []orders.Line `json:"productos"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/api/pedidos", h.placeOrder)
	r.Get("/api/pedidos/{id}", h.getOrder)
}

func (h *OrdersHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orderID, err := h.Orders.PlaceOrder(ctx, req.CustomerID, req.StatusID, req.Lines)
	if err != nil {
		var insufficient *orders.InsufficientStockError
		var unknown *orders.UnknownProductError
		var badQty *orders.InvalidQuantityError
		switch {
		case errors.As(err, &insufficient):
			writeError(w, http.StatusBadRequest, "Stock insuficiente")
		case errors.As(err, &unknown):
			writeError(w, http.StatusBadRequest, "Producto no encontrado")
		case errors.Is(err, orders.ErrEmptyOrder):
			writeError(w, http.StatusBadRequest, "El pedido no tiene productos")
		case errors.As(err, &badQty):
			writeError(w, http.StatusBadRequest, "Cantidad inválida")
		default:
			// Storage detail stays in the log, never in the response.
			log.Printf("place order: %v", err)
			writeError(w, http.StatusInternalServerError, "Error del servidor")
		}
		return
	}

	writeJSON(w, http.StatusCreated, PlaceOrderResp{OrderID: orderID})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, lines, err := h.Orders.GetOrder(ctx, id)
	if errors.Is(err, orders.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "Pedido no encontrado")
		return
	}
	if err != nil {
		log.Printf("get order %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Error del servidor")
		return
	}
	writeJSON(w, http.StatusOK, OrderResp{Order: o, Lines: lines})
}
