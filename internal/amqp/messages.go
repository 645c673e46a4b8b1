package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"
)

// EventType names what happened to an expense.
type EventType string

const (
	EventExpenseCreated EventType = "expense.created"
	EventExpenseDeleted EventType = "expense.deleted"
)

// ExpenseEvent is published after the store accepted a change. Deleted events
// carry only the ids.
type ExpenseEvent struct {
	Type        EventType  `json:"type"`
	ExpenseID   string     `json:"expense_id"`
	OwnerID     string     `json:"owner_id"`
	Date        *core.Date  `json:"date,omitempty"`
	Category    string      `json:"category,omitempty"`
	Description string      `json:"description,omitempty"`
	Amount      *core.Money `json:"amount,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

// NewCreatedEvent describes a freshly stored expense.
func NewCreatedEvent(e core.Expense) *ExpenseEvent {
	date, amount := e.Date, e.Amount
	return &ExpenseEvent{
		Type:        EventExpenseCreated,
		ExpenseID:   e.ID,
		OwnerID:     e.OwnerID,
		Date:        &date,
		Category:    e.Category.Name,
		Description: e.Description,
		Amount:      &amount,
		Timestamp:   time.Now().UTC(),
	}
}

// NewDeletedEvent describes a removed expense.
func NewDeletedEvent(ownerID, expenseID string) *ExpenseEvent {
	return &ExpenseEvent{
		Type:      EventExpenseDeleted,
		ExpenseID: expenseID,
		OwnerID:   ownerID,
		Timestamp: time.Now().UTC(),
	}
}

// Validate rejects events a consumer cannot act on.
func (e *ExpenseEvent) Validate() error {
	switch e.Type {
	case EventExpenseCreated, EventExpenseDeleted:
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.ExpenseID == "" {
		return errors.New("missing expense id")
	}
	if e.OwnerID == "" {
		return errors.New("missing owner id")
	}
	if e.Type == EventExpenseCreated && (e.Date == nil || e.Amount == nil) {
		return errors.New("created event without date or amount")
	}
	return nil
}

// ToJSON converts the event to JSON bytes
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes and validates an event.
func EventFromJSON(data []byte) (*ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}
