package core

type (
	// Header names tuple slots.
	Header []string

	// Tuple is one materialized row: a value and a null flag per schema
	// attribute. Values[i] is nil whenever Nulls[i] is set.
	Tuple struct {
		Values []any
		Nulls  []bool
	}
)

func newTuple(n int) *Tuple {
	return &Tuple{
		Values: make([]any, n),
		Nulls:  make([]bool, n),
	}
}

func (t *Tuple) setNull(i int) {
	t.Values[i] = nil
	t.Nulls[i] = true
}

func (t *Tuple) set(i int, v any) {
	t.Values[i] = v
	t.Nulls[i] = false
}

// Len returns the number of slots.
func (t *Tuple) Len() int {
	return len(t.Values)
}

// IsNull reports whether slot i is NULL.
func (t *Tuple) IsNull(i int) bool {
	return t.Nulls[i]
}
