package wheel

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShapeFFBTorqueSubThresholdIsQuadraticallyAttenuated(t *testing.T) {
	// Below ffbSoftThreshold the shaped output must always be smaller in
	// magnitude than the raw input (quadratic attenuation), and zero stays
	// zero.
	assert.Equal(t, 0.0, shapeFFBTorque(0))

	for _, raw := range []float64{10, 40, 79} {
		got := shapeFFBTorque(raw)
		assert.Less(t, math.Abs(got), math.Abs(raw))
		assert.Greater(t, got, 0.0)
	}
}

func TestShapeFFBTorqueIsOddSymmetric(t *testing.T) {
	for _, raw := range []float64{10, 79, 500, 5000, 20000} {
		assert.InDelta(t, shapeFFBTorque(raw), -shapeFFBTorque(-raw), 1e-9)
	}
}

func TestShapeFFBTorqueAboveSlipFullSaturatesGain(t *testing.T) {
	// Well above ffbSlipFull the gain should settle at 1.0*ffbBoost.
	raw := ffbSlipFull * 2
	got := shapeFFBTorque(raw)
	assert.InDelta(t, raw*ffbBoost, got, 1e-6)
}

func TestShapeFFBTorqueIncreasesAcrossSampledForces(t *testing.T) {
	// Checks sampled forces only: just past ffbSlipKnee the gain switches
	// to the heavy blend and drops back towards ffbMinGain, so the curve is
	// not monotonic everywhere above the threshold.
	prev := shapeFFBTorque(ffbSoftThreshold)
	for _, raw := range []float64{200, 1000, 4000, 8000, 14000, 20000} {
		got := shapeFFBTorque(raw)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, clamp(5, 0, 10))
	assert.Equal(t, 0.0, clamp(-5, 0, 10))
	assert.Equal(t, 10.0, clamp(15, 0, 10))
}

func TestStepFFBIntegratorOffsetNeverExceedsLimit(t *testing.T) {
	filtered := 0.0
	in := ffbIntegratorInput{force: 32767, autocenter: 0, steering: 0, offset: 0, velocity: 0, gain: 4.0}
	for i := 0; i < 5000; i++ {
		out := stepFFBIntegrator(in, &filtered, 5*time.Millisecond)
		assert.LessOrEqual(t, out.offset, ffbOffsetLimit)
		assert.GreaterOrEqual(t, out.offset, -ffbOffsetLimit)
		in.offset, in.velocity = out.offset, out.velocity
	}
}

func TestStepFFBIntegratorClampZeroesVelocity(t *testing.T) {
	filtered := 30000.0
	in := ffbIntegratorInput{force: 32767, autocenter: 0, steering: 0, offset: ffbOffsetLimit - 1, velocity: ffbMaxVelocity, gain: 4.0}
	out := stepFFBIntegrator(in, &filtered, 10*time.Millisecond)
	if out.offset == ffbOffsetLimit || out.offset == -ffbOffsetLimit {
		assert.Equal(t, 0.0, out.velocity)
	}
}

func TestStepFFBIntegratorAutocenterPullsTowardZero(t *testing.T) {
	filtered := 0.0
	in := ffbIntegratorInput{force: 0, autocenter: 8000, steering: 10000, offset: 0, velocity: 0, gain: 1.0}
	var out ffbIntegratorOutput
	for i := 0; i < 200; i++ {
		out = stepFFBIntegrator(in, &filtered, 5*time.Millisecond)
		in.offset, in.velocity = out.offset, out.velocity
	}
	// Positive steering with autocenter engaged should pull the offset
	// negative (restoring force opposes user steering).
	assert.Less(t, out.offset, 0.0)
}

func TestClampDuration(t *testing.T) {
	assert.Equal(t, ffbMinDt, clampDuration(0))
	assert.Equal(t, ffbMaxDt, clampDuration(time.Second))
	assert.Equal(t, 5*time.Millisecond, clampDuration(5*time.Millisecond))
}
