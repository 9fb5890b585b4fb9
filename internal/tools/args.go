package tools

// Value is one coerced parameter. Raw keeps the caller's text, which is what
// gets forwarded upstream; Number is set for float parameters.
type Value struct {
	Raw    string
	Number float64
}

// Args holds the coerced parameters of one call. Absent optional parameters
// have no entry.
type Args struct {
	values map[string]Value
}

// NewArgs wraps already-coerced values.
func NewArgs(values map[string]Value) Args {
	if values == nil {
		values = map[string]Value{}
	}
	return Args{values: values}
}

// Has reports whether name was supplied or defaulted.
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// String returns the raw text of name, or "" when absent.
func (a Args) String(name string) string {
	return a.values[name].Raw
}

// Float returns the numeric value of name and whether it is present.
func (a Args) Float(name string) (float64, bool) {
	v, ok := a.values[name]
	return v.Number, ok
}
