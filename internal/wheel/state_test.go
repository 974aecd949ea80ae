package wheel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/g29wheel/g29wheel/internal/input"
)

func TestApplySteeringDeltaLockedClampsStep(t *testing.T) {
	s := newState()
	changed := s.applySteeringDeltaLocked(1_000_000, 300)
	assert.True(t, changed)
	// base_gain=0.05, sensitivity=300 -> gain=15, max_step=2000, so one
	// call can move userSteering by at most 2000 regardless of delta size.
	assert.Equal(t, 2000.0, s.userSteering)
}

func TestApplySteeringDeltaLockedClampsTotal(t *testing.T) {
	s := newState()
	for i := 0; i < 100; i++ {
		s.applySteeringDeltaLocked(1_000_000, 300)
	}
	assert.LessOrEqual(t, s.userSteering, 32767.0)
}

func TestApplySteeringDeltaLockedZeroDeltaNoop(t *testing.T) {
	s := newState()
	s.applySteeringDeltaLocked(500, 300)
	before := s.userSteering
	changed := s.applySteeringDeltaLocked(0, 300)
	assert.False(t, changed)
	assert.Equal(t, before, s.userSteering)
}

func TestApplySnapshotLockedIdempotent(t *testing.T) {
	s := newState()
	snap := input.WheelInputState{Throttle: true, DpadX: 1, DpadY: -1}

	assert.True(t, s.applySnapshotLocked(snap))
	assert.False(t, s.applySnapshotLocked(snap))
}

func TestApplyNeutralLockedResetsEverythingExceptFFBWhenNotRequested(t *testing.T) {
	s := newState()
	s.applySnapshotLocked(input.WheelInputState{Throttle: true, Brake: true, Clutch: true, DpadX: 1, DpadY: 1})
	s.userSteering = 5000
	s.ffbOffset = 1234
	s.ffbVelocity = 99

	s.applyNeutralLocked(false)

	assert.Equal(t, 0.0, s.userSteering)
	assert.Equal(t, 0.0, s.throttle)
	assert.Equal(t, 0.0, s.brake)
	assert.Equal(t, 0.0, s.clutch)
	assert.Equal(t, int8(0), s.dpadX)
	assert.Equal(t, int8(0), s.dpadY)
	assert.Equal(t, 1234.0, s.ffbOffset)
	assert.Equal(t, 99.0, s.ffbVelocity)
}

func TestApplyNeutralLockedResetsFFBWhenRequested(t *testing.T) {
	s := newState()
	s.ffbOffset = 1234
	s.ffbVelocity = 99

	s.applyNeutralLocked(true)

	assert.Equal(t, 0.0, s.ffbOffset)
	assert.Equal(t, 0.0, s.ffbVelocity)
}

func TestApplyFFBCommandLockedSetForce(t *testing.T) {
	s := newState()
	changed := s.applyFFBCommandLocked(FFBCommand{Kind: FFBSetForce, Force: 500})
	assert.True(t, changed)
	assert.Equal(t, int16(500), s.ffbForce)

	changed = s.applyFFBCommandLocked(FFBCommand{Kind: FFBSetForce, Force: 500})
	assert.False(t, changed)
}

func TestApplyFFBCommandLockedEnableDefaultAutocenterOnlyWhenDisabled(t *testing.T) {
	s := newState()
	changed := s.applyFFBCommandLocked(FFBCommand{Kind: FFBEnableDefaultAutocenter})
	assert.True(t, changed)
	assert.Equal(t, int16(1024), s.ffbAutocenter)

	// Already enabled: a second "enable default" request is a no-op.
	changed = s.applyFFBCommandLocked(FFBCommand{Kind: FFBEnableDefaultAutocenter})
	assert.False(t, changed)
	assert.Equal(t, int16(1024), s.ffbAutocenter)
}

func TestSetFFBGainLockedClamps(t *testing.T) {
	s := newState()
	s.setFFBGainLocked(10)
	assert.Equal(t, 4.0, s.ffbGain)
	s.setFFBGainLocked(-10)
	assert.Equal(t, 0.1, s.ffbGain)
}
