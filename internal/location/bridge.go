package location

import (
	"context"
	"log"
	"sync"

	"github.com/glasscast/weathercore/internal/weather"
)

// placeholderName names a location whose coordinate is known but whose
// reverse geocoding failed or returned nothing.
const placeholderName = "Current Location"

type fixResult struct {
	fix Fix
	err error
}

// Bridge converts the callback-driven device location subsystem into
// single-shot request/response calls. It holds two independent
// single-slot pending registers, one for an in-flight permission
// request and one for an in-flight location request. Each slot is
// resolved exactly once and cleared atomically, so a stale signal can
// never satisfy a later, unrelated request.
type Bridge struct {
	device DeviceSource
	geo    Geocoder

	mu     sync.Mutex
	permCh chan bool
	locCh  chan fixResult
}

// NewBridge wires the bridge as the sole subscriber of the device
// subsystem's signals.
func NewBridge(device DeviceSource, geo Geocoder) *Bridge {
	b := &Bridge{device: device, geo: geo}
	device.Subscribe(DeviceCallbacks{
		AuthorizationChanged: b.onAuthorizationChanged,
		LocationUpdated:      b.onLocationUpdated,
		LocationFailed:       b.onLocationFailed,
	})
	return b
}

// RequestPermission resolves to true when location access is granted.
// An already-decided authorization short-circuits without emitting a
// request to the device subsystem; otherwise the caller suspends until
// the authorization-changed signal arrives.
func (b *Bridge) RequestPermission(ctx context.Context) (bool, error) {
	switch b.device.AuthorizationStatus() {
	case AuthorizationGranted:
		return true, nil
	case AuthorizationDenied, AuthorizationRestricted:
		return false, nil
	}

	b.mu.Lock()
	if b.permCh != nil {
		b.mu.Unlock()
		return false, ErrRequestInFlight
	}
	ch := make(chan bool, 1)
	b.permCh = ch
	b.mu.Unlock()

	b.device.RequestAuthorization()

	select {
	case granted := <-ch:
		return granted, nil
	case <-ctx.Done():
		b.abandonPermissionSlot(ch)
		return false, ctx.Err()
	}
}

// CurrentLocation awaits permission, requests a single fix and converts
// it to a domain Location via reverse geocoding. Geocoding failure is
// recoverable: the call still succeeds with a placeholder name. Only a
// missing coordinate fails the call.
func (b *Bridge) CurrentLocation(ctx context.Context) (weather.Location, error) {
	if b.device.AuthorizationStatus() == AuthorizationRestricted {
		return weather.Location{}, &Error{Kind: KindPermissionRestricted}
	}

	granted, err := b.RequestPermission(ctx)
	if err != nil {
		return weather.Location{}, err
	}
	if !granted {
		return weather.Location{}, &Error{Kind: KindPermissionDenied}
	}

	b.mu.Lock()
	if b.locCh != nil {
		b.mu.Unlock()
		return weather.Location{}, ErrRequestInFlight
	}
	ch := make(chan fixResult, 1)
	b.locCh = ch
	b.mu.Unlock()

	b.device.RequestLocation()

	select {
	case result := <-ch:
		if result.err != nil {
			return weather.Location{}, result.err
		}
		return b.locationFromFix(ctx, result.fix), nil
	case <-ctx.Done():
		b.abandonLocationSlot(ch)
		return weather.Location{}, ctx.Err()
	}
}

// AuthorizationStatus exposes the device subsystem's permission state.
func (b *Bridge) AuthorizationStatus() AuthorizationStatus {
	return b.device.AuthorizationStatus()
}

func (b *Bridge) locationFromFix(ctx context.Context, fix Fix) weather.Location {
	place, err := b.geo.ReverseGeocode(ctx, fix.Latitude, fix.Longitude)
	if err != nil || place.Name == "" {
		if err != nil {
			log.Printf("INFO: reverse geocoding failed, using placeholder: %v", err)
		}
		return weather.NewLocation(placeholderName, "", fix.Latitude, fix.Longitude)
	}

	loc := weather.NewLocation(place.Name, place.Country, fix.Latitude, fix.Longitude)
	loc.Timezone = place.Timezone
	return loc
}

// takePermissionSlot clears and returns the pending permission channel.
func (b *Bridge) takePermissionSlot() chan bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := b.permCh
	b.permCh = nil
	return ch
}

// takeLocationSlot clears and returns the pending location channel.
func (b *Bridge) takeLocationSlot() chan fixResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := b.locCh
	b.locCh = nil
	return ch
}

// abandonPermissionSlot clears the slot only if it still belongs to the
// abandoning caller; a signal that already took it wins.
func (b *Bridge) abandonPermissionSlot(ch chan bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.permCh == ch {
		b.permCh = nil
	}
}

func (b *Bridge) abandonLocationSlot(ch chan fixResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.locCh == ch {
		b.locCh = nil
	}
}

func (b *Bridge) onAuthorizationChanged(status AuthorizationStatus) {
	if ch := b.takePermissionSlot(); ch != nil {
		ch <- (status == AuthorizationGranted)
	}
}

func (b *Bridge) onLocationUpdated(fix Fix) {
	if ch := b.takeLocationSlot(); ch != nil {
		ch <- fixResult{fix: fix}
	}
}

func (b *Bridge) onLocationFailed(code FailureCode, cause error) {
	if ch := b.takeLocationSlot(); ch != nil {
		ch <- fixResult{err: translateFailure(code, cause)}
	}
}
