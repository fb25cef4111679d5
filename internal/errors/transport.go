package errors

import (
	"context"
	"errors"
	"net"
)

// MapTransportError maps failures of an outbound API call to AppError instances.
// It handles:
// - context deadline exceeded → Timeout
// - context canceled → Canceled
// - network errors (dial, reset, DNS) → Transport
//
// AppErrors pass through unchanged; anything else becomes a Transport error.
func MapTransportError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	}

	return &AppError{
		Code:    ErrCodeTransport,
		Message: "Unable to reach the EduEvents API.",
		Cause:   err,
	}
}
