package calc

import "fmt"

// Level is one row of a level-progress table: the cumulative value needed
// to reach Index from level 1.
type Level struct {
	Index int
	Total int
}

// Table is an immutable level-progress table addressed by level number.
// Level 1 lives at position 0; lookups never rely on a dummy zeroth row.
type Table struct {
	name   string
	levels []Level
}

// NewTable copies levels and checks that indices run 1..N without gaps and
// that totals strictly increase.
func NewTable(name string, levels []Level) (*Table, error) {
	if len(levels) < 2 {
		return nil, fmt.Errorf("%w: %s needs at least 2 levels, got %d", ErrInvalidTable, name, len(levels))
	}
	cp := make([]Level, len(levels))
	copy(cp, levels)
	for i, l := range cp {
		if l.Index != i+1 {
			return nil, fmt.Errorf("%w: %s row %d has index %d, want %d", ErrInvalidTable, name, i, l.Index, i+1)
		}
		if i > 0 && l.Total <= cp[i-1].Total {
			return nil, fmt.Errorf("%w: %s total at level %d (%d) not above level %d (%d)",
				ErrInvalidTable, name, l.Index, l.Total, cp[i-1].Index, cp[i-1].Total)
		}
	}
	return &Table{name: name, levels: cp}, nil
}

// Name is the table's label, used in error messages.
func (t *Table) Name() string { return t.name }

// MaxLevel is N, the highest addressable level.
func (t *Table) MaxLevel() int { return len(t.levels) }

// CumulativeAt returns the cumulative value required to reach level.
func (t *Table) CumulativeAt(level int) (int, error) {
	if level < 1 || level > len(t.levels) {
		return 0, &RangeError{Field: t.name + " level", Value: level, Min: 1, Max: len(t.levels)}
	}
	return t.levels[level-1].Total, nil
}

// Delta returns the value needed to go from level from to level to.
func (t *Table) Delta(from, to int) (int, error) {
	if from >= to {
		return 0, &RangeError{
			Field: t.name + " level",
			Value: from,
			Msg:   fmt.Sprintf("%s: from level (%d) must be below to level (%d)", t.name, from, to),
		}
	}
	a, err := t.CumulativeAt(from)
	if err != nil {
		return 0, err
	}
	b, err := t.CumulativeAt(to)
	if err != nil {
		return 0, err
	}
	return b - a, nil
}

// Levels returns a copy of the rows.
func (t *Table) Levels() []Level {
	out := make([]Level, len(t.levels))
	copy(out, t.levels)
	return out
}
