package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/lukelektro/storefront-api/internal/kafka"
	"github.com/lukelektro/storefront-api/internal/orders"
	"github.com/lukelektro/storefront-api/internal/payment"
)

// StatusUpdater is the slice of orders.Repo the consumer needs.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID int64, to orders.Status) error
}

// Deduper remembers event ids that reached a terminal outcome; redisx.Deduper
// satisfies it.
type Deduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// Service moves orders to PAGADO when the gateway confirms payment.
type Service struct {
	Orders StatusUpdater
	Dedup  Deduper
}

// HandlePaymentConfirmed is the consumer handler for the payment.confirmed
// topic. Returning nil commits the offset, so only transient errors are
// propagated; malformed or stale events are logged and dropped. The dedup
// key is written only once the update reached a terminal outcome, so a
// transient failure leaves the event eligible for redelivery.
func (s *Service) HandlePaymentConfirmed(ctx context.Context, m kafkago.Message) error {
	var env payment.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		log.Printf("fulfillment: bad envelope: %v", err)
		return nil
	}
	if env.EventType != payment.EventPaymentConfirmed {
		return nil
	}

	if s.Dedup != nil {
		if seen, err := s.Dedup.Seen(ctx, env.EventID); err == nil && seen {
			return nil
		}
	}

	p, err := kafkax.UnwrapPayload[payment.ConfirmedPayload](env.Payload)
	if err != nil {
		log.Printf("fulfillment: %v", err)
		return nil
	}

	err = s.Orders.UpdateStatus(ctx, p.OrderID, orders.StatusPaid)
	var transition *orders.InvalidTransitionError
	switch {
	case err == nil:
		log.Printf("fulfillment: order %d marked paid", p.OrderID)
	case errors.As(err, &transition):
		// Replayed or out-of-order event; the order already moved on.
		log.Printf("fulfillment: order %d: %v", p.OrderID, err)
	case errors.Is(err, orders.ErrOrderNotFound):
		log.Printf("fulfillment: order %d not found", p.OrderID)
	default:
		return err
	}

	s.mark(ctx, env.EventID)
	return nil
}

func (s *Service) mark(ctx context.Context, eventID string) {
	if s.Dedup == nil {
		return
	}
	if err := s.Dedup.Mark(ctx, eventID); err != nil {
		log.Printf("fulfillment: dedup mark %s: %v", eventID, err)
	}
}
