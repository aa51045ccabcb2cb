package sdkerror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"

	"github.com/identio/onboarding-go/model"
)

type Code string

const (
	// Precondition violations, detected locally before any network call.
	ErrInProgress     Code = "IN_PROGRESS"
	ErrNotRunning     Code = "NOT_RUNNING"
	ErrCannotActivate Code = "CANNOT_ACTIVATE"
	ErrMissingStatus  Code = "MISSING_STATUS"

	// Backend and flow errors.
	ErrRemote              Code = "REMOTE"
	ErrRateLimited         Code = "RATE_LIMITED"
	ErrOTPFailed           Code = "OTP_FAILED"
	ErrActivationNotActive Code = "ACTIVATION_NOT_ACTIVE"
	ErrContractViolation   Code = "CONTRACT_VIOLATION"
	ErrBundleFailed        Code = "BUNDLE_FAILED"
	ErrInvalidInput        Code = "INVALID_INPUT"
	ErrClosed              Code = "CLOSED"
)

// Error is the SDK error surfaced to callers. Alongside the code it can carry
// OTP attempt metadata and an optional UI state the caller can still navigate
// to on failure.
type Error struct {
	Code    Code
	Message string
	Err     error

	// RemainingAttempts is set on OTP rejections when the backend reported a
	// remaining-attempts count.
	RemainingAttempts *int
	// AllowRetry marks an OTP rejection the user may answer with another code.
	AllowRetry bool
	// State, when set, tells the caller which screen still makes sense to show.
	State *model.State
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, err error, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Of extracts the *Error from an error chain, or nil.
func Of(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// CodeOf returns the code of the first *Error in the chain, or empty.
func CodeOf(err error) Code {
	if e := Of(err); e != nil {
		return e.Code
	}
	return ""
}

// RemainingAttempts returns the attempt count attached to the error chain, or
// nil when none was reported.
func RemainingAttempts(err error) *int {
	if e := Of(err); e != nil {
		return e.RemainingAttempts
	}
	return nil
}

// IsConnectivity reports whether the error is a pure transport reachability
// failure (DNS, refused connection, timeout) as opposed to a backend response.
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
