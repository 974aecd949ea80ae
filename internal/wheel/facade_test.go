package wheel_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/g29wheel/g29wheel/internal/input"
	"github.com/g29wheel/g29wheel/internal/log"
	"github.com/g29wheel/g29wheel/internal/wheel"
)

// fakeEndpoint is an in-memory wheel.Endpoint: every WriteReportBlocking
// call records the report, and queued bytes can be fed back in as if they
// arrived from the host's force feedback output endpoint.
type fakeEndpoint struct {
	mu        sync.Mutex
	ready     bool
	udcBound  bool
	writes    [][13]byte
	readQueue []byte
}

func newFakeEndpoint() *fakeEndpoint {
	return &fakeEndpoint{ready: true, udcBound: true}
}

func (f *fakeEndpoint) IsReady() bool { f.mu.Lock(); defer f.mu.Unlock(); return f.ready }
func (f *fakeEndpoint) IsUDCBound() bool { f.mu.Lock(); defer f.mu.Unlock(); return f.udcBound }
func (f *fakeEndpoint) BindUDC() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.udcBound = true
	return true
}
func (f *fakeEndpoint) WaitForEndpointReady(timeout time.Duration) bool { return f.IsReady() }
func (f *fakeEndpoint) ResetEndpoint() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ready = false
}
func (f *fakeEndpoint) SetNonBlockingMode(enabled bool) {}
func (f *fakeEndpoint) WriteReportBlocking(report [wheel.InputReportLength]byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.ready {
		return false
	}
	f.writes = append(f.writes, report)
	return true
}
func (f *fakeEndpoint) PollReadable(timeout time.Duration) (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.readQueue) > 0, false
}
func (f *fakeEndpoint) ReadNonblocking(buf []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := copy(buf, f.readQueue)
	f.readQueue = f.readQueue[n:]
	return n, nil
}

func (f *fakeEndpoint) lastWrite() ([13]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return [13]byte{}, false
	}
	return f.writes[len(f.writes)-1], true
}

func (f *fakeEndpoint) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

var _ wheel.Endpoint = (*fakeEndpoint)(nil)

// stubManager is a minimal input.Manager for facade tests.
type stubManager struct {
	grabbed       bool
	grabShouldFail bool
}

func (m *stubManager) GrabDevices(grab bool) bool {
	if grab && m.grabShouldFail {
		return false
	}
	m.grabbed = grab
	return true
}
func (m *stubManager) AllRequiredGrabbed() bool { return m.grabbed }
func (m *stubManager) ResyncKeyStates()         {}
func (m *stubManager) WaitForFrame(ctx context.Context) (input.Frame, bool) {
	<-ctx.Done()
	return input.Frame{}, false
}
func (m *stubManager) TryGetFrame() (input.Frame, bool) { return input.Frame{}, false }

func TestDeviceCreateStartsDisabled(t *testing.T) {
	ep := newFakeEndpoint()
	dev := wheel.New(ep, nil, log.NewRaw(nil))
	defer dev.ShutdownThreads()

	assert.True(t, dev.Create())
	assert.False(t, dev.IsEnabled())
}

func TestDeviceEnableDisableRoundTrip(t *testing.T) {
	ep := newFakeEndpoint()
	dev := wheel.New(ep, nil, log.NewRaw(nil))
	defer dev.ShutdownThreads()
	assert.True(t, dev.Create())

	im := &stubManager{}
	dev.SetEnabled(true, im)
	assert.True(t, dev.IsEnabled())
	assert.True(t, im.AllRequiredGrabbed())

	dev.SetEnabled(false, im)
	assert.False(t, dev.IsEnabled())
	assert.False(t, im.AllRequiredGrabbed())

	report, ok := ep.lastWrite()
	assert.True(t, ok)
	assert.Equal(t, byte(0x0f), report[8])
}

// TestDeviceToggleDoesNotDuplicatePumps drives enable/disable/enable/disable
// and checks that steering still applies after the re-enable and that the
// last report written on the final disable is neutral. A regression where
// disable stopped the gadget pumps without joining them, and enable then
// raced a second pump into existence, would show up here as steering state
// getting stomped or as a data race under -race.
func TestDeviceToggleDoesNotDuplicatePumps(t *testing.T) {
	ep := newFakeEndpoint()
	dev := wheel.New(ep, nil, log.NewRaw(nil))
	defer dev.ShutdownThreads()
	assert.True(t, dev.Create())

	im := &stubManager{}

	dev.SetEnabled(true, im)
	assert.True(t, dev.IsEnabled())

	dev.SetEnabled(false, im)
	assert.False(t, dev.IsEnabled())

	dev.SetEnabled(true, im)
	assert.True(t, dev.IsEnabled())

	dev.ProcessInputFrame(input.Frame{MouseDX: 1000}, 300)
	assert.Eventually(t, func() bool {
		return dev.Status().Steering != 0
	}, time.Second, time.Millisecond)

	dev.SetEnabled(false, im)
	assert.False(t, dev.IsEnabled())

	report, ok := ep.lastWrite()
	assert.True(t, ok)
	assert.Equal(t, byte(0x0f), report[8])
}

func TestDeviceEnableFailsWhenGrabFails(t *testing.T) {
	ep := newFakeEndpoint()
	dev := wheel.New(ep, nil, log.NewRaw(nil))
	defer dev.ShutdownThreads()
	assert.True(t, dev.Create())

	im := &stubManager{grabShouldFail: true}
	dev.SetEnabled(true, im)
	assert.False(t, dev.IsEnabled())
}

func TestProcessInputFrameNoopWhenDisabled(t *testing.T) {
	ep := newFakeEndpoint()
	dev := wheel.New(ep, nil, log.NewRaw(nil))
	defer dev.ShutdownThreads()
	assert.True(t, dev.Create())

	before := ep.writeCount()
	dev.ProcessInputFrame(input.Frame{MouseDX: 500}, 300)
	assert.Equal(t, before, ep.writeCount())
	assert.Equal(t, 0.0, dev.Status().Steering)
}

func TestProcessInputFrameAppliesSteeringWhenEnabled(t *testing.T) {
	ep := newFakeEndpoint()
	dev := wheel.New(ep, nil, log.NewRaw(nil))
	defer dev.ShutdownThreads()
	assert.True(t, dev.Create())

	im := &stubManager{}
	dev.SetEnabled(true, im)

	dev.ProcessInputFrame(input.Frame{MouseDX: 1000}, 300)

	assert.Eventually(t, func() bool {
		return dev.Status().Steering != 0
	}, time.Second, time.Millisecond)
}

func TestSetFFBGainClamps(t *testing.T) {
	ep := newFakeEndpoint()
	dev := wheel.New(ep, nil, log.NewRaw(nil))
	defer dev.ShutdownThreads()
	assert.True(t, dev.Create())

	dev.SetFFBGain(100)
	assert.Equal(t, 4.0, dev.Status().FFBGain)

	dev.SetFFBGain(-100)
	assert.Equal(t, 0.1, dev.Status().FFBGain)
}

func TestSendNeutralResetsAxes(t *testing.T) {
	ep := newFakeEndpoint()
	dev := wheel.New(ep, nil, log.NewRaw(nil))
	defer dev.ShutdownThreads()
	assert.True(t, dev.Create())

	im := &stubManager{}
	dev.SetEnabled(true, im)
	dev.ProcessInputFrame(input.Frame{Logical: input.WheelInputState{Throttle: true}}, 300)
	assert.Eventually(t, func() bool { return dev.Status().Throttle == 100 }, time.Second, time.Millisecond)

	dev.SendNeutral(true)
	assert.Eventually(t, func() bool { return dev.Status().Throttle == 0 }, time.Second, time.Millisecond)
}
