package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventSaleRecorded     = "sale.recorded"
	EventPurchaseRecorded = "purchase.recorded"
	EventStockAdjusted    = "stock.adjusted"
)

// Producer names this service on every envelope
const Producer = "stockledger-api"

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // the record id
	Payload       json.RawMessage `json:"payload"`
}

type LineQty struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// TransactionRecordedPayload is sent for both sale.recorded and purchase.recorded
type TransactionRecordedPayload struct {
	TransactionID string    `json:"transaction_id"`
	Kind          string    `json:"kind"`
	Counterparty  string    `json:"counterparty"`
	Items         []LineQty `json:"items"`
	Subtotal      string    `json:"subtotal"`
	Tax           string    `json:"tax"`
	Total         string    `json:"total"`
}

type StockAdjustedPayload struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Delta     int    `json:"delta"`
	NewStock  int    `json:"new_stock"`
}

// NewEnvelope wraps payload as version 1 of eventType
func NewEnvelope(eventType, correlationID string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      Producer,
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}
