package versioning

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Field names one comparable property of T and how to read it.
type Field[T any] struct {
	Name  string
	Value func(*T) any
}

// F is shorthand for building a Field.
func F[T any](name string, value func(*T) any) Field[T] {
	return Field[T]{Name: name, Value: value}
}

// ChangedFields lists, in declaration order, the fields whose values differ between a and b.
// Nil and empty slices or maps compare equal.
func ChangedFields[T any](fields []Field[T], a, b *T) []string {
	changed := make([]string, 0, len(fields))
	if a == nil || b == nil {
		return changed
	}
	for _, f := range fields {
		if !cmp.Equal(f.Value(a), f.Value(b), cmpopts.EquateEmpty()) {
			changed = append(changed, f.Name)
		}
	}
	return changed
}
