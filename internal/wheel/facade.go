// Package wheel implements the wheel's data model, report codec, force
// feedback controller, and the state coordinator and facade that tie them
// to a HID transport.
package wheel

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/g29wheel/g29wheel/internal/input"
	"github.com/g29wheel/g29wheel/internal/log"
)

// warmupFrameCount is how many extra report writes are forced immediately
// after enabling, so the host sees a steady stream even before the first
// real input frame arrives.
const warmupFrameCount = 25

// neutralFlushTimeout bounds how long SetEnabled waits for a neutral
// report to make it out through the write pump before falling back to a
// direct blocking write.
const neutralFlushTimeout = 150 * time.Millisecond

// enableReadyTimeout bounds how long the enable path waits for the
// endpoint to become writable after BindUDC, since a freshly bound gadget
// can take well over the write-retry poll interval to come up.
const enableReadyTimeout = 1500 * time.Millisecond

// Device is the wheel's single outward surface: construct it with an
// Endpoint, Create it once, then drive it with SetEnabled/ToggleEnabled/
// SetFFBGain/ProcessInputFrame/SendNeutral from the caller's main loop.
type Device struct {
	st *state

	stateWake *wakeSignal
	ffbWake   *wakeSignal

	stateDirty    atomic.Bool
	outputEnabled atomic.Bool
	warmupFrames  atomic.Int32

	running             atomic.Bool
	gadgetRunning       atomic.Bool
	gadgetOutputRunning atomic.Bool
	ffbRunning          atomic.Bool

	enableMu sync.Mutex

	endpoint Endpoint
	logger   *slog.Logger
	rawLog   log.RawLogger

	wg sync.WaitGroup
}

// New constructs a Device bound to the given Endpoint. Create must be
// called before the device does anything useful. rawLogger may be nil, in
// which case report hex-dumping is a no-op.
func New(endpoint Endpoint, logger *slog.Logger, rawLogger log.RawLogger) *Device {
	if logger == nil {
		logger = slog.Default()
	}
	if rawLogger == nil {
		rawLogger = log.NewRaw(nil)
	}
	d := &Device{
		st:        newState(),
		stateWake: newWakeSignal(),
		ffbWake:   newWakeSignal(),
		endpoint:  endpoint,
		logger:    logger.With("component", "wheel"),
		rawLog:    rawLogger,
	}
	d.running.Store(true)
	return d
}

// Create forces a neutral frame and starts the FFB controller. It does not
// initialize the HID endpoint; the caller brings the endpoint up before
// calling Create. The gadget write/read pumps are started later, by
// SetEnabled, since there is no point polling an endpoint nobody is
// driving.
func (d *Device) Create() bool {
	d.logger.Info("creating wheel device")
	d.SendNeutral(true)

	d.ffbRunning.Store(true)
	d.wg.Add(1)
	go d.ffbLoop()
	return true
}

// ShutdownThreads stops every background goroutine and blocks until they
// exit. Safe to call once, from the owner's shutdown path.
func (d *Device) ShutdownThreads() {
	d.ffbRunning.Store(false)
	d.running.Store(false)
	d.gadgetRunning.Store(false)
	d.gadgetOutputRunning.Store(false)
	d.warmupFrames.Store(0)
	d.outputEnabled.Store(false)

	d.notifyAllShutdownCVs()
	d.wg.Wait()
}

func (d *Device) ensureGadgetThreadsStarted() {
	d.endpoint.SetNonBlockingMode(true)
	if !d.gadgetRunning.Swap(true) {
		d.wg.Add(1)
		go d.writePump()
	}
	if !d.gadgetOutputRunning.Swap(true) {
		d.wg.Add(1)
		go d.readPump()
	}
}

// IsEnabled reports whether emulation is currently enabled.
func (d *Device) IsEnabled() bool {
	d.st.mu.Lock()
	defer d.st.mu.Unlock()
	return d.st.enabled
}

// SetEnabled runs the enable/disable state machine: grabbing or releasing
// input devices, binding the USB gadget on enable (disable leaves it
// bound), and priming a neutral report. The gadget write/read pumps, once started by the first enable,
// are never stopped by a later disable; they idle on outputEnabled=false
// until ShutdownThreads. enableMu serializes concurrent
// SetEnabled/ToggleEnabled calls.
func (d *Device) SetEnabled(enable bool, im input.Manager) {
	d.enableMu.Lock()
	defer d.enableMu.Unlock()

	changed := false
	d.st.mu.Lock()
	if d.st.enabled != enable {
		d.st.enabled = enable
		changed = true
	}
	d.st.mu.Unlock()

	if !changed {
		if !enable {
			im.GrabDevices(false)
		}
		return
	}

	if enable {
		d.enable(im)
	} else {
		d.disable(im)
	}
	d.logger.Info("emulation state changed", "enabled", enable)
}

func (d *Device) enable(im input.Manager) {
	if !im.GrabDevices(true) {
		d.st.mu.Lock()
		d.st.enabled = false
		d.st.mu.Unlock()
		d.logger.Warn("enable aborted: unable to grab input devices")
		return
	}
	if !im.AllRequiredGrabbed() {
		im.GrabDevices(false)
		d.st.mu.Lock()
		d.st.enabled = false
		d.st.mu.Unlock()
		d.logger.Warn("enable aborted: missing required input device")
		return
	}
	im.ResyncKeyStates()

	d.outputEnabled.Store(false)
	d.warmupFrames.Store(0)
	d.stateDirty.Store(false)

	d.st.mu.Lock()
	d.st.applyNeutralLocked(false)
	neutralReport := BuildInputReport(d.st.snapshotLocked())
	d.st.mu.Unlock()

	if !d.endpoint.IsUDCBound() && !d.endpoint.BindUDC() {
		d.st.mu.Lock()
		d.st.applyNeutralLocked(true)
		d.st.enabled = false
		d.st.mu.Unlock()
		im.GrabDevices(false)
		return
	}

	if !d.endpoint.WaitForEndpointReady(enableReadyTimeout) {
		d.logger.Warn("HID endpoint never became ready; holding neutral")
		im.GrabDevices(false)
		d.st.mu.Lock()
		d.st.enabled = false
		d.st.mu.Unlock()
		return
	}

	d.ensureGadgetThreadsStarted()

	d.outputEnabled.Store(true)
	d.warmupFrames.Store(0)
	d.stateDirty.Store(false)

	d.st.mu.Lock()
	d.st.applyNeutralLocked(false)
	d.st.mu.Unlock()
	d.notifyStateChanged()

	neutralSent := d.waitForStateFlush(neutralFlushTimeout)
	if !neutralSent {
		d.outputEnabled.Store(false)
		d.stateDirty.Store(false)
		if !d.endpoint.WriteReportBlocking(neutralReport) {
			d.logger.Warn("failed to prime HID reports; holding neutral")
			im.GrabDevices(false)
			d.st.mu.Lock()
			d.st.enabled = false
			d.st.mu.Unlock()
			return
		}
		d.outputEnabled.Store(true)
	}

	d.warmupFrames.Store(warmupFrameCount)
	d.stateWake.Broadcast()
}

func (d *Device) disable(im input.Manager) {
	d.warmupFrames.Store(0)

	d.st.mu.Lock()
	d.st.applyNeutralLocked(true)
	neutralReport := BuildInputReport(d.st.snapshotLocked())
	d.st.mu.Unlock()

	neutralSent := false
	if d.gadgetRunning.Load() && d.outputEnabled.Load() {
		d.notifyStateChanged()
		neutralSent = d.waitForStateFlush(neutralFlushTimeout)
	}

	d.outputEnabled.Store(false)
	d.stateDirty.Store(false)

	if !neutralSent && !d.endpoint.WriteReportBlocking(neutralReport) {
		d.logger.Warn("failed to send neutral frame while disabling")
	}
	im.ResyncKeyStates()
	im.GrabDevices(false)
}

// ToggleEnabled flips the current enabled state.
func (d *Device) ToggleEnabled(im input.Manager) {
	d.SetEnabled(!d.IsEnabled(), im)
}

// SetFFBGain clamps and applies a new force feedback gain multiplier.
func (d *Device) SetFFBGain(gain float64) {
	d.st.mu.Lock()
	d.st.setFFBGainLocked(gain)
	d.st.mu.Unlock()
}

// ProcessInputFrame applies one captured input frame: relative mouse
// motion feeds the steering integrator, the logical pedal/dpad/button
// snapshot replaces the corresponding state wholesale. A no-op when
// emulation is disabled or output isn't yet enabled (e.g. mid-enable).
func (d *Device) ProcessInputFrame(frame input.Frame, sensitivity int) {
	if !d.IsEnabled() || !d.outputEnabled.Load() {
		return
	}
	d.st.mu.Lock()
	changed := d.st.applySteeringDeltaLocked(frame.MouseDX, sensitivity)
	changed = d.st.applySnapshotLocked(frame.Logical) || changed
	d.st.mu.Unlock()
	if changed {
		d.notifyStateChanged()
	}
}

// SendNeutral zeroes every axis/button (and, if resetFFB, the force
// feedback offset/velocity too) and, if the endpoint is open, wakes the
// write pump to flush it.
func (d *Device) SendNeutral(resetFFB bool) {
	d.st.mu.Lock()
	d.st.applyNeutralLocked(resetFFB)
	d.st.mu.Unlock()
	if d.endpoint.IsReady() {
		d.notifyStateChanged()
	}
}

// StateView is a read-only snapshot for status reporting.
type StateView struct {
	Enabled    bool
	Steering   float64
	Throttle   float64
	Brake      float64
	Clutch     float64
	FFBGain    float64
	FFBOffset  float64
	Autocenter int16
}

// Status copies out a read-only view of the current state, for status
// reporting and for tests.
func (d *Device) Status() StateView {
	d.st.mu.Lock()
	defer d.st.mu.Unlock()
	return StateView{
		Enabled:    d.st.enabled,
		Steering:   d.st.steering,
		Throttle:   d.st.throttle,
		Brake:      d.st.brake,
		Clutch:     d.st.clutch,
		FFBGain:    d.st.ffbGain,
		FFBOffset:  d.st.ffbOffset,
		Autocenter: d.st.ffbAutocenter,
	}
}
