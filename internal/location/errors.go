package location

import (
	"errors"
	"fmt"
)

// ErrRequestInFlight is returned when a second permission or location
// request is started while the first is still pending. The pending slot
// is single-use; overwriting it would silently drop a waiting caller.
var ErrRequestInFlight = errors.New("location request already pending")

// ErrorKind classifies location bridge failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindPermissionDenied
	KindPermissionRestricted
	KindLocationUnavailable
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindPermissionDenied:
		return "location permission denied"
	case KindPermissionRestricted:
		return "location services restricted"
	case KindLocationUnavailable:
		return "location unavailable"
	case KindNetwork:
		return "network error while getting location"
	default:
		return "unknown location error"
	}
}

// Error is the typed failure produced by the bridge.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is (or wraps) a location *Error of the
// given kind.
func IsKind(err error, kind ErrorKind) bool {
	var le *Error
	return errors.As(err, &le) && le.Kind == kind
}

// translateFailure maps device subsystem failure codes to the typed set.
func translateFailure(code FailureCode, cause error) *Error {
	switch code {
	case FailureDenied:
		return &Error{Kind: KindPermissionDenied}
	case FailureNetwork:
		return &Error{Kind: KindNetwork}
	case FailureUnavailable:
		return &Error{Kind: KindLocationUnavailable}
	default:
		return &Error{Kind: KindUnknown, Err: cause}
	}
}
