package nbmark

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrMalformedTree = Statusf(400, "Malformed document tree")
	ErrUnknownFilter = Statusf(400, "Unknown filter name")

	ErrTransformDisabled = Statusf(400, "Source transform disabled in configuration")
)

var _ error = &statusError{}

type statusError struct {
	Code int
	Text string

	WrappedError error
}

func (s *statusError) LogValue() slog.Value {
	if s == nil {
		return slog.Value{}
	}
	return slog.StringValue(s.Text)
}

func (s *statusError) Error() string {
	return s.Text
}

func (s *statusError) Unwrap() error {
	return s.WrappedError
}

func (s *statusError) Is(target error) bool {
	if err, ok := target.(*statusError); ok {
		return err.Text == s.Text
	}
	return false
}

func Statusf(status int, format string, args ...any) error {
	return &statusError{Code: status, Text: fmt.Sprintf(format, args...)}
}

// WrapError keeps the cause reachable through errors.Unwrap while presenting
// a status-coded message to the caller.
func WrapError(status int, err error, format string, args ...any) error {
	return &statusError{Code: status, Text: fmt.Sprintf(format, args...), WrappedError: err}
}

func ErrorCode(err error) int {
	if err == nil {
		return 200
	}
	var err2 *statusError
	if errors.As(err, &err2) {
		return err2.Code
	}
	return 500
}
