package wheel

import (
	"sync"

	"github.com/g29wheel/g29wheel/internal/input"
)

// Snapshot is a point-in-time, lock-free copy of everything the report
// codec needs to build an input report.
type Snapshot struct {
	Steering float64
	Clutch   float64
	Throttle float64
	Brake    float64
	DpadX    int8
	DpadY    int8
	Buttons  ButtonState
}

// state holds every field that mutates under mu. Device holds it by pointer
// (field st) rather than exporting it, so every access goes through Device
// and the *Locked helpers below.
type state struct {
	mu sync.Mutex

	enabled bool

	steering     float64
	userSteering float64

	ffbOffset   float64
	ffbVelocity float64
	ffbGain     float64

	ffbForce      int16
	ffbAutocenter int16

	throttle, brake, clutch float64
	dpadX, dpadY            int8
	buttons                 ButtonState
}

func newState() *state {
	return &state{ffbGain: 1.0}
}

// snapshotLocked copies out the fields the report codec needs. Caller must
// hold mu.
func (s *state) snapshotLocked() Snapshot {
	return Snapshot{
		Steering: s.steering,
		Clutch:   s.clutch,
		Throttle: s.throttle,
		Brake:    s.brake,
		DpadX:    s.dpadX,
		DpadY:    s.dpadY,
		Buttons:  s.buttons,
	}
}

// applySteeringDeltaLocked integrates relative mouse motion into
// userSteering and re-derives the combined steering value. Returns whether
// the combined steering value changed.
func (s *state) applySteeringDeltaLocked(delta int, sensitivity int) bool {
	if delta == 0 {
		return false
	}
	const baseGain = 0.05
	const maxStep = 2000.0
	const maxAngle = 32767.0

	gain := float64(sensitivity) * baseGain
	step := clamp(float64(delta)*gain, -maxStep, maxStep)
	s.userSteering = clamp(s.userSteering+step, -maxAngle, maxAngle)
	return s.applySteeringLocked()
}

// applySnapshotLocked applies a logical input snapshot (pedals coerced to
// fully-off/fully-on, dpad and button bitmap) and reports whether anything
// changed.
func (s *state) applySnapshotLocked(snap input.WheelInputState) bool {
	changed := false
	setAxis := func(axis *float64, pressed bool) {
		next := 0.0
		if pressed {
			next = 100.0
		}
		if *axis != next {
			*axis = next
			changed = true
		}
	}
	setAxis(&s.throttle, snap.Throttle)
	setAxis(&s.brake, snap.Brake)
	setAxis(&s.clutch, snap.Clutch)

	if s.dpadX != snap.DpadX {
		s.dpadX = snap.DpadX
		changed = true
	}
	if s.dpadY != snap.DpadY {
		s.dpadY = snap.DpadY
		changed = true
	}
	if s.buttons != snap.Buttons {
		s.buttons = snap.Buttons
		changed = true
	}
	return changed
}

// applyNeutralLocked zeroes every input axis and button. resetFFB also
// zeroes the force feedback offset/velocity, used on a real disable but
// not on the neutral-flush step of enable.
func (s *state) applyNeutralLocked(resetFFB bool) {
	s.steering = 0
	s.userSteering = 0
	if resetFFB {
		s.ffbOffset = 0
		s.ffbVelocity = 0
	}
	s.throttle = 0
	s.brake = 0
	s.clutch = 0
	s.dpadX = 0
	s.dpadY = 0
	s.buttons = ButtonState{}
}

// applySteeringLocked re-derives the combined steering value from user
// input plus the force feedback offset, clamped to the report's range. A
// 0.1-unit dead zone avoids spurious dirty flags from floating point
// noise.
func (s *state) applySteeringLocked() bool {
	combined := clamp(s.userSteering+s.ffbOffset, -32768, 32767)
	if abs64(combined-s.steering) < 0.1 {
		return false
	}
	s.steering = combined
	return true
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// applyFFBCommandLocked resolves a decoded FFBCommand against current
// state, returning whether anything changed.
func (s *state) applyFFBCommandLocked(cmd FFBCommand) bool {
	switch cmd.Kind {
	case FFBSetForce:
		if s.ffbForce == cmd.Force {
			return false
		}
		s.ffbForce = cmd.Force
		return true
	case FFBSetAutocenter:
		if s.ffbAutocenter == cmd.Autocenter {
			return false
		}
		s.ffbAutocenter = cmd.Autocenter
		return true
	case FFBEnableDefaultAutocenter:
		if s.ffbAutocenter != 0 {
			return false
		}
		s.ffbAutocenter = 1024
		return true
	default:
		return false
	}
}

func (s *state) setFFBGainLocked(gain float64) {
	s.ffbGain = clamp(gain, 0.1, 4.0)
}
