package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching with errors.Is. Each corresponds to one
// ErrorKind; ErrNotFound additionally matches both not-found kinds.
var (
	// ErrAuthentication indicates missing, invalid, or expired credentials.
	ErrAuthentication = errors.New("authentication failure")

	// ErrPermissionDenied indicates the account lacks access to the resource.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNetwork indicates a transport-level failure. Retryable.
	ErrNetwork = errors.New("network error")

	// ErrInvalidData indicates malformed input or an unparseable value.
	ErrInvalidData = errors.New("invalid data")

	// ErrProvider indicates the backend rejected the request or misbehaved.
	ErrProvider = errors.New("provider error")

	// ErrRateLimited indicates the API rate limit was exceeded. Retryable.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNotFound matches any not-found failure, calendar or event.
	ErrNotFound = errors.New("not found")

	// ErrCalendarNotFound indicates the calendar does not exist.
	ErrCalendarNotFound = errors.New("calendar not found")

	// ErrEventNotFound indicates the event does not exist.
	ErrEventNotFound = errors.New("event not found")

	// ErrSerialization indicates a payload could not be encoded.
	ErrSerialization = errors.New("serialization error")

	// ErrTokenStorage indicates the token store failed.
	ErrTokenStorage = errors.New("token storage error")

	// ErrUnsupported indicates the provider does not implement the operation.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrInternal indicates a bug or invariant violation.
	ErrInternal = errors.New("internal error")

	// ErrConfiguration indicates required configuration is missing.
	ErrConfiguration = errors.New("configuration error")

	// ErrHTTP indicates an HTTP exchange failed outside the mapped cases.
	ErrHTTP = errors.New("http error")

	// ErrDeserialization indicates a response could not be decoded.
	ErrDeserialization = errors.New("deserialization error")
)

// ErrorKind classifies an Error.
type ErrorKind string

// Error kinds.
const (
	KindAuthentication   ErrorKind = "authentication_failure"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindNetwork          ErrorKind = "network_error"
	KindInvalidData      ErrorKind = "invalid_data"
	KindProvider         ErrorKind = "provider_error"
	KindRateLimit        ErrorKind = "rate_limit_exceeded"
	KindCalendarNotFound ErrorKind = "calendar_not_found"
	KindEventNotFound    ErrorKind = "event_not_found"
	KindSerialization    ErrorKind = "serialization_error"
	KindTokenStorage     ErrorKind = "token_storage_error"
	KindUnsupported      ErrorKind = "unsupported_operation"
	KindInternal         ErrorKind = "internal_error"
	KindConfiguration    ErrorKind = "configuration_error"
	KindHTTP             ErrorKind = "http_error"
	KindDeserialization  ErrorKind = "deserialization_error"
)

// kindSentinels maps each kind to its errors.Is sentinel.
var kindSentinels = map[ErrorKind]error{
	KindAuthentication:   ErrAuthentication,
	KindPermissionDenied: ErrPermissionDenied,
	KindNetwork:          ErrNetwork,
	KindInvalidData:      ErrInvalidData,
	KindProvider:         ErrProvider,
	KindRateLimit:        ErrRateLimited,
	KindCalendarNotFound: ErrCalendarNotFound,
	KindEventNotFound:    ErrEventNotFound,
	KindSerialization:    ErrSerialization,
	KindTokenStorage:     ErrTokenStorage,
	KindUnsupported:      ErrUnsupported,
	KindInternal:         ErrInternal,
	KindConfiguration:    ErrConfiguration,
	KindHTTP:             ErrHTTP,
	KindDeserialization:  ErrDeserialization,
}

// kindCodes maps each kind to its stable numeric code. These codes are
// part of the public contract and must never be renumbered.
var kindCodes = map[ErrorKind]int{
	KindAuthentication:   1001,
	KindPermissionDenied: 1002,
	KindNetwork:          2001,
	KindInvalidData:      3001,
	KindProvider:         4001,
	KindRateLimit:        4002,
	KindCalendarNotFound: 5001,
	KindEventNotFound:    5002,
	KindSerialization:    6001,
	KindTokenStorage:     7001,
	KindUnsupported:      8001,
	KindInternal:         9001,
	KindConfiguration:    10001,
	KindHTTP:             10002,
	KindDeserialization:  10003,
}

// Error is the failure type crossing every port boundary. It carries a
// kind for programmatic matching, a stable code for embedders, a human
// message, and an optional wrapped cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewError builds an Error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf builds an Error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds an Error wrapping an underlying cause.
func WrapError(kind ErrorKind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind. Both not-found kinds
// also match the shared ErrNotFound sentinel.
func (e *Error) Is(target error) bool {
	if target == ErrNotFound {
		return e.Kind == KindCalendarNotFound || e.Kind == KindEventNotFound
	}
	return target == kindSentinels[e.Kind]
}

// Code returns the stable numeric code for the error's kind.
func (e *Error) Code() int {
	if code, ok := kindCodes[e.Kind]; ok {
		return code
	}
	return kindCodes[KindInternal]
}

// Retryable reports whether the failure is transient. Only network
// failures and rate limiting qualify; everything else needs intervention.
func Retryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindNetwork || e.Kind == KindRateLimit
	}
	return false
}

// IsNotFound reports whether err is a calendar- or event-not-found failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAuthentication reports whether err is an authentication failure.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsRateLimited reports whether err is a rate limit failure.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsUnsupported reports whether err is an unsupported-operation failure.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
