// Package kernel implements the native statistics tier: pure, allocation-
// light functions over finite ordered float64 sequences. Every function
// takes the input sequence plus typed parameters and returns either a
// result plus provenance or one of the errors below.
package kernel

// Code is the kernel's failure taxonomy. It is deliberately small and
// closed — callers (the pipeline's statusFor) switch on it to map
// failures onto RPC status codes, so new kernel failures should map onto
// one of these rather than growing the set.
type Code string

const (
	EmptyInput       Code = "EmptyInput"
	InsufficientData Code = "InsufficientData"
	InvalidNumeric   Code = "InvalidNumeric"
	ParamMissing     Code = "ParamMissing"
	ParamOutOfRange  Code = "ParamOutOfRange"
	Unsupported      Code = "Unsupported"
)

// Error is the kernel's error type. It never wraps an allocation beyond
// the message string itself, per §4.1 rule 5.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

func newErr(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// NewError constructs a kernel-taxonomy error for callers outside this
// package (the registry validates request params against the same Code
// vocabulary the kernel itself uses, so the dispatcher has one error
// shape to map onto RPC status codes).
func NewError(code Code, msg string) *Error {
	return newErr(code, msg)
}

func errEmptyInput() *Error {
	return newErr(EmptyInput, "input sequence is empty")
}

func errInsufficientData(msg string) *Error {
	return newErr(InsufficientData, msg)
}

func errInvalidNumeric(msg string) *Error {
	return newErr(InvalidNumeric, msg)
}

func errParamMissing(name string) *Error {
	return newErr(ParamMissing, "missing required parameter: "+name)
}

func errParamOutOfRange(msg string) *Error {
	return newErr(ParamOutOfRange, msg)
}
