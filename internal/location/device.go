package location

// AuthorizationStatus is the device subsystem's permission state.
type AuthorizationStatus int

const (
	AuthorizationNotDetermined AuthorizationStatus = iota
	AuthorizationGranted
	AuthorizationDenied
	AuthorizationRestricted
)

// Decided reports whether the user (or policy) already answered the
// permission question.
func (s AuthorizationStatus) Decided() bool {
	return s != AuthorizationNotDetermined
}

// FailureCode classifies device subsystem location failures before they
// are translated into the typed error set.
type FailureCode int

const (
	FailureDenied FailureCode = iota
	FailureNetwork
	FailureUnavailable
	FailureOther
)

// Fix is a raw coordinate delivered by the device subsystem.
type Fix struct {
	Latitude  float64
	Longitude float64
}

// DeviceCallbacks receives the device subsystem's signals. The bridge
// is the sole subscriber.
type DeviceCallbacks struct {
	AuthorizationChanged func(AuthorizationStatus)
	LocationUpdated      func(Fix)
	LocationFailed       func(code FailureCode, cause error)
}

// DeviceSource abstracts the callback-driven device location subsystem:
// permission state, an authorization-change signal, a location-update
// signal and an error signal.
type DeviceSource interface {
	AuthorizationStatus() AuthorizationStatus
	RequestAuthorization()
	RequestLocation()
	Subscribe(DeviceCallbacks)
}

// StaticSource is a DeviceSource for deployments without a positioning
// device: it grants authorization immediately and reports a fixed
// coordinate configured at startup.
type StaticSource struct {
	fix       Fix
	callbacks DeviceCallbacks
}

// NewStaticSource creates a source reporting the given coordinate.
func NewStaticSource(lat, lon float64) *StaticSource {
	return &StaticSource{fix: Fix{Latitude: lat, Longitude: lon}}
}

func (s *StaticSource) AuthorizationStatus() AuthorizationStatus {
	return AuthorizationGranted
}

func (s *StaticSource) RequestAuthorization() {
	if s.callbacks.AuthorizationChanged != nil {
		s.callbacks.AuthorizationChanged(AuthorizationGranted)
	}
}

func (s *StaticSource) RequestLocation() {
	if s.callbacks.LocationUpdated != nil {
		s.callbacks.LocationUpdated(s.fix)
	}
}

func (s *StaticSource) Subscribe(cb DeviceCallbacks) {
	s.callbacks = cb
}

var _ DeviceSource = (*StaticSource)(nil)
