package measure

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every error the validator and evaluator can raise.
// All kinds are recoverable.
type ErrorKind string

const (
	EmptyExpression      ErrorKind = "EmptyExpression"
	ConsecutiveOperator  ErrorKind = "ConsecutiveOperator"
	MixedType            ErrorKind = "MixedType"
	DivisionByZero       ErrorKind = "DivisionByZero"
	UnsupportedOperation ErrorKind = "UnsupportedOperation"
	InvalidExpression    ErrorKind = "InvalidExpression"
	NoEqualsFound        ErrorKind = "NoEqualsFound"
)

// Error is a typed calculator error. Detail carries the operation for
// UnsupportedOperation and the reason for InvalidExpression.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	switch e.Kind {
	case EmptyExpression:
		return "That doesn't make any sense"
	case ConsecutiveOperator:
		return "Cannot enter consecutive operators"
	case MixedType:
		return "Cannot mix scalar and Imperial measurements"
	case DivisionByZero:
		return "Division by zero"
	case UnsupportedOperation:
		return "Unsupported operation: " + e.Detail
	case InvalidExpression:
		return "Invalid expression: " + e.Detail
	case NoEqualsFound:
		return "No equals operator found"
	}
	return string(e.Kind)
}

// Is matches any *Error of the same kind, so callers can compare against
// the sentinels with errors.Is regardless of Detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrEmptyExpression      = &Error{Kind: EmptyExpression}
	ErrConsecutiveOperator  = &Error{Kind: ConsecutiveOperator}
	ErrMixedType            = &Error{Kind: MixedType}
	ErrDivisionByZero       = &Error{Kind: DivisionByZero}
	ErrUnsupportedOperation = &Error{Kind: UnsupportedOperation}
	ErrInvalidExpression    = &Error{Kind: InvalidExpression}
	ErrNoEqualsFound        = &Error{Kind: NoEqualsFound}
)

// KindOf extracts the ErrorKind from err, if it wraps an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func newError(kind ErrorKind) *Error {
	return &Error{Kind: kind}
}

func invalidExpression(format string, args ...any) *Error {
	return &Error{Kind: InvalidExpression, Detail: fmt.Sprintf(format, args...)}
}

func unsupported(left TokenKind, op Operator, right TokenKind) *Error {
	return &Error{Kind: UnsupportedOperation, Detail: fmt.Sprintf("%s %s %s", left, op, right)}
}
