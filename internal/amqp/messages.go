package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventCreated  = "transaction.created"
	EventDeleted  = "transaction.deleted"
	EventReplaced = "transactions.replaced"
)

// TransactionEvent is a lightweight message announcing a ledger mutation.
// It carries only the transaction ID (or record count for bulk replaces);
// consumers fetch the full data themselves.
type TransactionEvent struct {
	Event     string    `json:"event"`
	ID        string    `json:"id,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCreatedEvent creates an event for a newly recorded transaction.
func NewCreatedEvent(id string) *TransactionEvent {
	return &TransactionEvent{
		Event:     EventCreated,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// NewDeletedEvent creates an event for a removed transaction.
func NewDeletedEvent(id string) *TransactionEvent {
	return &TransactionEvent{
		Event:     EventDeleted,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// NewReplacedEvent creates an event for an import that replaced the whole
// collection.
func NewReplacedEvent(count int) *TransactionEvent {
	return &TransactionEvent{
		Event:     EventReplaced,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON creates an event from JSON bytes.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
