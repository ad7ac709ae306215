// Package pipeline implements the unary Analyze and streaming BatchAnalyze
// request paths (C5): admission gating, param validation, dispatch,
// structured logging, and metrics, all wired around the lower-level
// registry/dispatcher/admission packages.
package pipeline

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"analyticsengine/internal/bridge"
	"analyticsengine/pkg/kernel"
)

// statusFor maps a dispatcher error code (drawn from either the kernel.Code
// or bridge.ErrorKind taxonomy) onto the canonical gRPC status vocabulary,
// following the §7 error-kind table exactly: ParamMissing/ParamOutOfRange
// are InvalidArgument, EmptyInput/InvalidNumeric/InsufficientData are
// FailedPrecondition, bridge busy is Unavailable (not ResourceExhausted —
// the bridge queue is not a rate limit, it is a transient capacity issue).
func statusFor(code, message string) *status.Status {
	switch code {
	case string(kernel.ParamMissing), string(kernel.ParamOutOfRange):
		return status.New(codes.InvalidArgument, message)
	case string(kernel.EmptyInput), string(kernel.InvalidNumeric), string(kernel.InsufficientData):
		return status.New(codes.FailedPrecondition, message)
	case string(kernel.Unsupported), string(bridge.ErrUnsupported):
		return status.New(codes.Unimplemented, message)
	case string(bridge.ErrBusy), busyCode:
		return status.New(codes.Unavailable, message)
	case string(bridge.ErrDeadline), deadlineCode:
		return status.New(codes.DeadlineExceeded, message)
	case cancelledCode:
		return status.New(codes.Cancelled, message)
	case string(bridge.ErrRuntime):
		return status.New(codes.Internal, message)
	default:
		return status.New(codes.Internal, message)
	}
}

const (
	deadlineCode  = "DeadlineExceeded"
	cancelledCode = "Cancelled"
)
