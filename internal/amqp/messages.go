package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// EventType doubles as the routing key on the topic exchange.
type EventType string

const (
	EventEntryRecorded    EventType = "entry.recorded"
	EventDebtRecorded     EventType = "debt.recorded"
	EventDebtPaid         EventType = "debt.paid"
	EventDeductionAdded   EventType = "deduction.added"
	EventDeductionRemoved EventType = "deduction.removed"
	EventBillDue          EventType = "bill.due"
)

// Event notifies subscribers that the ledger changed. Only the fields relevant
// to Type are set.
type Event struct {
	Type      EventType       `json:"type"`
	ID        int64           `json:"id"`
	Who       string          `json:"who,omitempty"`
	Title     string          `json:"title,omitempty"`
	Category  string          `json:"category,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// ToJSON converts the event to JSON bytes
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes an event published by Client.Publish.
func EventFromJSON(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
