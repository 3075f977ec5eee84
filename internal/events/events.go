// Package events announces ledger changes to interested consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ExpensesChanged is published after every mutation of an owner's expenses.
type ExpensesChanged struct {
	Owner  string          `json:"owner"`
	Action string          `json:"action"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
	At     time.Time       `json:"at"`
}

const (
	ActionAdded    = "added"
	ActionEdited   = "edited"
	ActionRemoved  = "removed"
	ActionImported = "imported"
)

func (m ExpensesChanged) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpensesChangedFromJSON(data []byte) (ExpensesChanged, error) {
	var m ExpensesChanged
	err := json.Unmarshal(data, &m)

	return m, err
}

type Notifier interface {
	Publish(ctx context.Context, msg ExpensesChanged) error
}

// Nop discards every message.
type Nop struct{}

func (Nop) Publish(context.Context, ExpensesChanged) error { return nil }
