package docstore

// Condition is an equality match on a (possibly dotted) field path.
type Condition struct {
	Field string
	Value any
}

// Filter selects documents. The zero value matches everything.
type Filter struct {
	id         string
	hasID      bool
	conditions []Condition
	version    int
	hasVersion bool
}

func All() Filter {
	return Filter{}
}

func ByID(id string) Filter {
	return Filter{id: id, hasID: true}
}

func Eq(field string, value any) Filter {
	return Filter{}.And(field, value)
}

// And returns a copy of f with an additional equality condition.
func (f Filter) And(field string, value any) Filter {
	conds := make([]Condition, 0, len(f.conditions)+1)
	conds = append(conds, f.conditions...)
	f.conditions = append(conds, Condition{Field: field, Value: value})
	return f
}

// WithVersion restricts f to documents whose version equals expected or that carry no
// version at all (documents written before versioning existed).
func (f Filter) WithVersion(expected int) Filter {
	f.version = expected
	f.hasVersion = true
	return f
}

func (f Filter) ID() (string, bool) {
	return f.id, f.hasID
}

func (f Filter) Conditions() []Condition {
	return f.conditions
}

func (f Filter) Version() (int, bool) {
	return f.version, f.hasVersion
}
