package calc

import (
	"errors"
	"fmt"
)

var (
	ErrRange              = errors.New("value out of range")
	ErrInvalidCombination = errors.New("invalid combination")
	ErrInvalidTable       = errors.New("invalid level table")
)

// RangeError reports an input that violates its documented bounds.
// Max < Min means the bound is open-ended above.
type RangeError struct {
	Field string
	Value int
	Min   int
	Max   int
	Msg   string // optional override, e.g. for ordering constraints
}

func (e *RangeError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Max < e.Min {
		return fmt.Sprintf("%s must be >= %d, got %d", e.Field, e.Min, e.Value)
	}
	return fmt.Sprintf("%s must be between %d and %d, got %d", e.Field, e.Min, e.Max, e.Value)
}

func (e *RangeError) Unwrap() error { return ErrRange }

// InvalidCombinationError is returned when a (from, to) pair has no entry
// in a requirement table.
type InvalidCombinationError struct {
	From int
	To   int
}

func (e *InvalidCombinationError) Error() string {
	return fmt.Sprintf("invalid rarity combination %d-%d", e.From, e.To)
}

func (e *InvalidCombinationError) Unwrap() error { return ErrInvalidCombination }
