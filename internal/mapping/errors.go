package mapping

import "fmt"

// NumericParseError reports a stored quantity that is not a valid integer.
type NumericParseError struct {
	Field string
	Value string
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("invalid numeric value for %s: %q", e.Field, e.Value)
}
