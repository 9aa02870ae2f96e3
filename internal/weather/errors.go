package weather

import (
	"errors"
	"fmt"
)

// ErrorKind classifies fetch-client failures so that callers can branch
// on the failure class without string matching.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidURL
	KindInvalidResponse
	KindHTTP
	KindNetwork
	KindDecoding
	KindCityNotFound
	KindRateLimited
	KindInvalidAPIKey
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid url"
	case KindInvalidResponse:
		return "invalid response"
	case KindHTTP:
		return "http error"
	case KindNetwork:
		return "network error"
	case KindDecoding:
		return "decoding error"
	case KindCityNotFound:
		return "city not found"
	case KindRateLimited:
		return "rate limit exceeded"
	case KindInvalidAPIKey:
		return "invalid api key"
	default:
		return "unknown error"
	}
}

// Error is the typed failure produced by the fetch client. Status is set
// for KindHTTP; Err carries the underlying cause when one exists.
type Error struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindHTTP:
		return fmt.Sprintf("%s: status %d", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is (or wraps) a weather *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var we *Error
	return errors.As(err, &we) && we.Kind == kind
}

func ErrInvalidURL(cause error) *Error { return &Error{Kind: KindInvalidURL, Err: cause} }

func ErrInvalidResponse() *Error { return &Error{Kind: KindInvalidResponse} }

func ErrHTTP(status int) *Error { return &Error{Kind: KindHTTP, Status: status} }

func ErrNetwork(cause error) *Error { return &Error{Kind: KindNetwork, Err: cause} }

func ErrDecoding(cause error) *Error { return &Error{Kind: KindDecoding, Err: cause} }

func ErrCityNotFound() *Error { return &Error{Kind: KindCityNotFound} }

func ErrRateLimited() *Error { return &Error{Kind: KindRateLimited} }

func ErrInvalidAPIKey() *Error { return &Error{Kind: KindInvalidAPIKey} }

func ErrUnknown(cause error) *Error { return &Error{Kind: KindUnknown, Err: cause} }
