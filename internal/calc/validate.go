package calc

import "fmt"

// validateLevelPair enforces 1 <= from <= max-1, 2 <= to <= max, from < to.
func validateLevelPair(kind string, from, to, max int) error {
	msg := fmt.Sprintf(`%s: "from" must be 1-%d, "to" must be 2-%d, and "from" < "to" (got %d -> %d)`,
		kind, max-1, max, from, to)
	switch {
	case from < 1 || from > max-1:
		return &RangeError{Field: kind + " from", Value: from, Min: 1, Max: max - 1, Msg: msg}
	case to < 2 || to > max:
		return &RangeError{Field: kind + " to", Value: to, Min: 2, Max: max, Msg: msg}
	case from >= to:
		return &RangeError{Field: kind + " from", Value: from, Min: 1, Max: to - 1, Msg: msg}
	}
	return nil
}

func validateNonNegative(field string, v int) error {
	if v < 0 {
		return &RangeError{Field: field, Value: v, Min: 0, Max: -1}
	}
	return nil
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
