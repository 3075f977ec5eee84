// Package matching learns description patterns that map to categories and
// applies them to imported expenses that arrive without one.
package matching

import (
	"errors"
	"time"
)

var (
	ErrEmptyPattern  = errors.New("empty pattern")
	ErrEmptyCategory = errors.New("empty category")
)

// Rule assigns Category to any description containing Pattern, compared
// case-insensitively.
type Rule struct {
	Pattern   string
	Category  string
	CreatedAt time.Time
}
