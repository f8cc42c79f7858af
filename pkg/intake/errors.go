package intake

import "fmt"

type Reason string

const (
	ReasonUnsupportedType Reason = "unsupported_type"
	ReasonTooLarge        Reason = "too_large"
	ReasonLimitReached    Reason = "limit_reached"
)

// RejectionError reports why a selection was not staged.
type RejectionError struct {
	Reason Reason
	Name   string
	Detail string
}

func (e *RejectionError) Error() string {
	switch e.Reason {
	case ReasonUnsupportedType:
		return fmt.Sprintf("%s: unsupported file type %s", e.Name, e.Detail)
	case ReasonTooLarge:
		return fmt.Sprintf("%s: file is larger than %s", e.Name, e.Detail)
	case ReasonLimitReached:
		return fmt.Sprintf("%s: at most %s files can be staged", e.Name, e.Detail)
	default:
		return fmt.Sprintf("%s: rejected (%s)", e.Name, e.Reason)
	}
}
