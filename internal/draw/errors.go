package draw

import "fmt"

// InvalidInputError reports a fixed number outside [MinNumber, MaxNumber]
// or raw input that is not an integer at all.
type InvalidInputError struct {
	Input string
	// NotANumber is set when Input could not be parsed as an integer.
	NotANumber bool
}

func (e *InvalidInputError) Error() string {
	if e.NotANumber {
		return fmt.Sprintf("invalid input %q: not a whole number", e.Input)
	}
	return fmt.Sprintf("invalid input %s: please enter a number between %d-%d", e.Input, MinNumber, MaxNumber)
}
