package forecast

import "fmt"

// InvalidInputError reports structurally invalid input (out-of-range loan
// terms, unknown enum values). Empty collections are not errors; every
// detector and projector returns a valid empty result for them.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func invalidInput(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: reason}
}

// NonAmortizingError reports a periodic payment that cannot reduce the
// balance to zero. Surfaced instead of a truncated schedule so the caller
// can suggest a higher payment.
type NonAmortizingError struct {
	Payment      float64
	InterestOnly float64
}

func (e *NonAmortizingError) Error() string {
	return fmt.Sprintf("payment %.2f cannot amortize the loan (interest-only amount is %.2f)", e.Payment, e.InterestOnly)
}
