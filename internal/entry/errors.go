package entry

import "fmt"

// Reasons a field fails validation.
const (
	ReasonMissing   = "missing"
	ReasonNotString = "not a string"
	ReasonBlank     = "blank"
)

// ValidationError reports an entry field that is missing, mistyped, or
// blank after trimming. It rejects only the operation that produced it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid entry: %s is %s", e.Field, e.Reason)
}
