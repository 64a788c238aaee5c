package dao

// Parameter narrows List results; its interpretation belongs to the store's matcher.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a parameter; several values become a []string value.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
