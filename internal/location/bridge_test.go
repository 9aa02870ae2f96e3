package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice is a scriptable DeviceSource. Signals are emitted
// synchronously from Request* unless the corresponding emit func is nil.
type fakeDevice struct {
	status AuthorizationStatus

	callbacks DeviceCallbacks

	authRequests     int
	locationRequests int

	onRequestAuthorization func(d *fakeDevice)
	onRequestLocation      func(d *fakeDevice)
}

func (d *fakeDevice) AuthorizationStatus() AuthorizationStatus { return d.status }

func (d *fakeDevice) RequestAuthorization() {
	d.authRequests++
	if d.onRequestAuthorization != nil {
		d.onRequestAuthorization(d)
	}
}

func (d *fakeDevice) RequestLocation() {
	d.locationRequests++
	if d.onRequestLocation != nil {
		d.onRequestLocation(d)
	}
}

func (d *fakeDevice) Subscribe(cb DeviceCallbacks) { d.callbacks = cb }

type fakeGeocoder struct {
	place Place
	err   error
	calls int
}

func (g *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error) {
	g.calls++
	return g.place, g.err
}

func grantingDevice() *fakeDevice {
	return &fakeDevice{
		status: AuthorizationNotDetermined,
		onRequestAuthorization: func(d *fakeDevice) {
			d.status = AuthorizationGranted
			d.callbacks.AuthorizationChanged(AuthorizationGranted)
		},
		onRequestLocation: func(d *fakeDevice) {
			d.callbacks.LocationUpdated(Fix{Latitude: 52.52, Longitude: 13.405})
		},
	}
}

func TestRequestPermissionShortCircuitsDecidedStatus(t *testing.T) {
	for _, tc := range []struct {
		status AuthorizationStatus
		want   bool
	}{
		{AuthorizationGranted, true},
		{AuthorizationDenied, false},
		{AuthorizationRestricted, false},
	} {
		device := &fakeDevice{status: tc.status}
		b := NewBridge(device, &fakeGeocoder{})

		granted, err := b.RequestPermission(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tc.want, granted, "status %v", tc.status)
		assert.Zero(t, device.authRequests, "decided status must not re-prompt")
	}
}

func TestRequestPermissionAwaitsAuthorizationSignal(t *testing.T) {
	device := grantingDevice()
	b := NewBridge(device, &fakeGeocoder{})

	granted, err := b.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, 1, device.authRequests)
}

func TestCurrentLocationRestricted(t *testing.T) {
	device := &fakeDevice{status: AuthorizationRestricted}
	b := NewBridge(device, &fakeGeocoder{})

	_, err := b.CurrentLocation(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindPermissionRestricted))
	assert.Zero(t, device.locationRequests)
}

func TestCurrentLocationDenied(t *testing.T) {
	device := &fakeDevice{status: AuthorizationDenied}
	b := NewBridge(device, &fakeGeocoder{})

	_, err := b.CurrentLocation(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindPermissionDenied))
	assert.Zero(t, device.locationRequests, "a denied request never reaches the device")
}

func TestCurrentLocationResolvesName(t *testing.T) {
	device := grantingDevice()
	tz := "Europe/Berlin"
	geo := &fakeGeocoder{place: Place{Name: "Berlin", Country: "Germany", Timezone: &tz}}
	b := NewBridge(device, geo)

	loc, err := b.CurrentLocation(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Berlin", loc.Name)
	assert.Equal(t, "Germany", loc.Country)
	assert.Equal(t, 52.52, loc.Latitude)
	assert.Equal(t, 13.405, loc.Longitude)
	require.NotNil(t, loc.Timezone)
	assert.Equal(t, "Europe/Berlin", *loc.Timezone)
	assert.Equal(t, 1, geo.calls)
}

func TestCurrentLocationGeocodeFailureUsesPlaceholder(t *testing.T) {
	device := grantingDevice()
	geo := &fakeGeocoder{err: errors.New("quota exceeded")}
	b := NewBridge(device, geo)

	loc, err := b.CurrentLocation(context.Background())
	require.NoError(t, err, "geocoding failure is not fatal")

	assert.Equal(t, "Current Location", loc.Name)
	assert.Equal(t, 52.52, loc.Latitude)
	assert.Equal(t, 13.405, loc.Longitude)
}

func TestCurrentLocationDeviceFailureTranslates(t *testing.T) {
	device := &fakeDevice{
		status: AuthorizationGranted,
		onRequestLocation: func(d *fakeDevice) {
			d.callbacks.LocationFailed(FailureUnavailable, nil)
		},
	}
	b := NewBridge(device, &fakeGeocoder{})

	_, err := b.CurrentLocation(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindLocationUnavailable))
}

func TestCurrentLocationSecondRequestWhileInFlight(t *testing.T) {
	// The device never answers, so the first caller stays suspended on
	// its slot while the second caller collides with it.
	device := &fakeDevice{status: AuthorizationGranted}
	b := NewBridge(device, &fakeGeocoder{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := b.CurrentLocation(context.Background())
		firstDone <- err
	}()

	// Wait for the first caller to register its slot.
	require.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.locCh != nil
	}, time.Second, time.Millisecond)

	_, err := b.CurrentLocation(context.Background())
	require.ErrorIs(t, err, ErrRequestInFlight)

	// The late fix resolves the first caller, not the rejected one.
	device.callbacks.LocationUpdated(Fix{Latitude: 1, Longitude: 2})
	require.NoError(t, <-firstDone)
}

func TestCurrentLocationCancellationFreesSlot(t *testing.T) {
	device := &fakeDevice{status: AuthorizationGranted}
	b := NewBridge(device, &fakeGeocoder{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := b.CurrentLocation(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.locCh != nil
	}, time.Second, time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	// A fresh request can register again after abandonment.
	device.onRequestLocation = func(d *fakeDevice) {
		d.callbacks.LocationUpdated(Fix{Latitude: 3, Longitude: 4})
	}
	loc, err := b.CurrentLocation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3.0, loc.Latitude)
}

func TestStaleSignalWithoutWaiterIsDropped(t *testing.T) {
	device := &fakeDevice{status: AuthorizationGranted}
	b := NewBridge(device, &fakeGeocoder{})

	// No request is pending, so these must be no-ops.
	assert.NotPanics(t, func() {
		device.callbacks.AuthorizationChanged(AuthorizationGranted)
		device.callbacks.LocationUpdated(Fix{Latitude: 9, Longitude: 9})
		device.callbacks.LocationFailed(FailureOther, errors.New("spurious"))
	})
	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Nil(t, b.locCh)
	assert.Nil(t, b.permCh)
}
