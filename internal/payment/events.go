package payment

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	TopicPaymentConfirmed = "payment.confirmed"

	EventPaymentConfirmed = "PaymentConfirmed"
)

// Envelope is the versioned wrapper every published event rides in.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type ConfirmedPayload struct {
	OrderID int64  `json:"pedido_id"`
	Token   string `json:"token"`
	Amount  int64  `json:"amount"`
}

// PartitionKey keys messages by order so events for one order stay ordered.
func PartitionKey(orderID int64) []byte {
	return []byte(strconv.FormatInt(orderID, 10))
}
