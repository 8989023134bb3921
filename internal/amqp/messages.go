package amqp

import (
	"encoding/json"
	"time"

	"gastos/internal/core"
)

// TransactionEvent is the body published after a transaction changes.
// Amount is a fixed two-decimal string.
type TransactionEvent struct {
	Event      string    `json:"event"`
	ID         int64     `json:"id"`
	PersonID   int64     `json:"personId"`
	CategoryID int64     `json:"categoryId"`
	Type       int       `json:"type"`
	Amount     string    `json:"amount"`
	Date       time.Time `json:"date"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewTransactionEvent(event string, t core.Transaction, now time.Time) *TransactionEvent {
	return &TransactionEvent{
		Event:      event,
		ID:         t.ID,
		PersonID:   t.PersonID,
		CategoryID: t.CategoryID,
		Type:       int(t.Type),
		Amount:     t.Amount.StringFixed(2),
		Date:       t.Date.UTC(),
		Timestamp:  now.UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
