package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/lukelektro/storefront-api/internal/kafka"
	"github.com/lukelektro/storefront-api/internal/orders"
	"github.com/lukelektro/storefront-api/internal/payment"
)

type OrderTotaler interface {
	Total(ctx context.Context, orderID int64) (int64, error)
}

type Gateway interface {
	Create(ctx context.Context, orderID, amount int64, returnURL string) (payment.Transaction, error)
	Commit(ctx context.Context, token string) (payment.Result, error)
}

type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type PaymentHandler struct {
	Orders   OrderTotaler
	Gateway  Gateway
	Producer EventPublisher
	Service  string
}

func (h *PaymentHandler) Register(r *chi.Mux) {
	r.Post("/api/webpay/create", h.create)
	r.Post("/api/webpay/commit", h.commit)
}

func (h *PaymentHandler) create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		OrderID   int64  `json:"pedido_id"`
		ReturnURL string `json:"return_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.OrderID == 0 {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// Amount comes from the stored lines, never from the client.
	total, err := h.Orders.Total(ctx, in.OrderID)
	if errors.Is(err, orders.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "Pedido no encontrado")
		return
	}
	if err != nil {
		log.Printf("order total %d: %v", in.OrderID, err)
		writeError(w, http.StatusInternalServerError, "Error del servidor")
		return
	}

	tx, err := h.Gateway.Create(ctx, in.OrderID, total, in.ReturnURL)
	if err != nil {
		log.Printf("webpay create order %d: %v", in.OrderID, err)
		writeError(w, http.StatusBadGateway, "Error al iniciar el pago")
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *PaymentHandler) commit(w http.ResponseWriter, r *http.Request) {
	var in struct {
		OrderID int64  `json:"pedido_id"`
		Token   string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Token == "" || in.OrderID == 0 {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := h.Gateway.Commit(ctx, in.Token)
	if err != nil {
		log.Printf("webpay commit %s: %v", in.Token, err)
		writeError(w, http.StatusBadGateway, "Error al confirmar el pago")
		return
	}
	if res.Status != payment.StatusAuthorized {
		writeError(w, http.StatusBadRequest, "Pago rechazado")
		return
	}
	// The token is the only proof of payment; the claimed order must match
	// the buy_order the gateway transaction was opened with, or any
	// authorized token could mark an unrelated order as paid.
	if res.BuyOrder != fmt.Sprintf("pedido-%d", in.OrderID) {
		log.Printf("webpay commit %s: buy_order %q does not match pedido %d", in.Token, res.BuyOrder, in.OrderID)
		writeError(w, http.StatusBadRequest, "El pago no corresponde al pedido")
		return
	}

	h.publishConfirmed(r, in.OrderID, in.Token, res.Amount)
	writeJSON(w, http.StatusOK, res)
}

func (h *PaymentHandler) publishConfirmed(r *http.Request, orderID int64, token string, amount int64) {
	ev := payment.Envelope{
		EventID:       uuid.NewString(),
		EventType:     payment.EventPaymentConfirmed,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: fmt.Sprintf("pedido-%d", orderID),
		Payload: kafkax.MustMarshal(payment.ConfirmedPayload{
			OrderID: orderID,
			Token:   token,
			Amount:  amount,
		}),
	}
	h.Producer.Publish(payment.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(payment.EventPaymentConfirmed)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
