// Package input defines the boundary between the wheel emulator core and
// whatever captures keyboard/mouse events on the host. Real device
// discovery and evdev capture live outside this module; this package only
// specifies the contract a capture backend must satisfy.
package input

import (
	"context"
	"time"

	"github.com/g29wheel/g29wheel/pkg/g29hid"
)

// WheelInputState is a logical snapshot of the pedal/dpad/button inputs a
// capture backend has derived from raw key state, independent of which
// physical keys produced it.
type WheelInputState struct {
	Throttle bool
	Brake    bool
	Clutch   bool
	DpadX    int8
	DpadY    int8
	Buttons  g29hid.ButtonState
}

// Frame is one capture tick: the logical pedal/button state plus the
// accumulated relative mouse motion driving steering since the last frame.
type Frame struct {
	Logical       WheelInputState
	MouseDX       int
	Timestamp     time.Time
	TogglePressed bool
}

// Manager is the contract the wheel facade drives: grabbing exclusive
// input when emulation is enabled, releasing it when disabled, and
// surfacing frames for the facade to apply.
type Manager interface {
	// GrabDevices acquires (grab=true) or releases (grab=false) exclusive
	// access to the underlying input devices. Returns false if a required
	// device could not be grabbed.
	GrabDevices(grab bool) bool
	// AllRequiredGrabbed reports whether every required device is
	// currently grabbed.
	AllRequiredGrabbed() bool
	// ResyncKeyStates clears any latched key state, used around
	// enable/disable transitions so stale key-down state doesn't leak
	// across them.
	ResyncKeyStates()
	// WaitForFrame blocks until a frame is available or ctx is done.
	WaitForFrame(ctx context.Context) (Frame, bool)
	// TryGetFrame returns the latest frame without blocking.
	TryGetFrame() (Frame, bool)
}
