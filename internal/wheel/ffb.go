package wheel

import (
	"math"
	"time"
)

// Force feedback shaping and integration constants, carried over unchanged
// from the original tuning for behavioral parity.
const (
	ffbSoftThreshold = 80.0
	ffbMinGain       = 0.25
	ffbSlipKnee      = 4000.0
	ffbSlipFull      = 14000.0
	ffbBoost         = 3.0

	ffbFilterHz = 38.0

	ffbOffsetLimit = 22000.0
	ffbStiffness   = 120.0
	ffbDamping     = 8.0
	ffbMaxVelocity = 90000.0

	ffbMinDt = 1 * time.Millisecond
	ffbMaxDt = 10 * time.Millisecond
)

// shapeFFBTorque maps a raw commanded force onto a perceptually useful
// output curve: below the soft threshold the response is quadratically
// attenuated so small forces feel smooth, above it a slip-aware gain
// blends from a soft knee into a boosted "breakaway" feel.
func shapeFFBTorque(raw float64) float64 {
	abs := math.Abs(raw)
	if abs < ffbSoftThreshold {
		return raw * (abs / ffbSoftThreshold)
	}

	t := clamp((abs-ffbSoftThreshold)/(ffbSlipFull-ffbSoftThreshold), 0, 1)
	slipWeight := t * t

	var gain float64
	if abs > ffbSlipKnee {
		heavy := clamp((abs-ffbSlipKnee)/(ffbSlipFull-ffbSlipKnee), 0, 1)
		gain = ffbMinGain + (1-ffbMinGain)*heavy
	} else {
		gain = ffbMinGain + slipWeight*(1-ffbMinGain)
	}

	return raw * gain * ffbBoost
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ffbIntegratorInput is a point-in-time snapshot of everything the
// integrator needs, copied out from under the state mutex so the math runs
// lock-free.
type ffbIntegratorInput struct {
	force      int16
	autocenter int16
	steering   float64
	offset     float64
	velocity   float64
	gain       float64
}

// ffbIntegratorOutput is the next offset/velocity pair to write back under
// the state mutex.
type ffbIntegratorOutput struct {
	offset   float64
	velocity float64
}

// stepFFBIntegrator advances the force feedback offset/velocity by one
// tick: shape the commanded torque, low-pass filter it, add the autocenter
// spring, then integrate a damped spring toward that target.
// filtered is both read and updated in place across ticks by the caller.
func stepFFBIntegrator(in ffbIntegratorInput, filtered *float64, dt time.Duration) ffbIntegratorOutput {
	dtSeconds := clampDuration(dt).Seconds()

	commanded := shapeFFBTorque(float64(in.force))

	alpha := clamp(1-math.Exp(-dtSeconds*ffbFilterHz), 0, 1)
	*filtered += (commanded - *filtered) * alpha

	spring := 0.0
	if in.autocenter > 0 {
		spring = -(in.steering * float64(in.autocenter)) / 32768.0
	}

	target := clamp((*filtered+spring)*in.gain, -ffbOffsetLimit, ffbOffsetLimit)

	velocity := in.velocity
	err := target - in.offset
	velocity += err * ffbStiffness * dtSeconds
	velocity *= math.Exp(-ffbDamping * dtSeconds)
	velocity = clamp(velocity, -ffbMaxVelocity, ffbMaxVelocity)

	offset := in.offset + velocity*dtSeconds
	if offset > ffbOffsetLimit {
		offset = ffbOffsetLimit
		velocity = 0
	} else if offset < -ffbOffsetLimit {
		offset = -ffbOffsetLimit
		velocity = 0
	}

	return ffbIntegratorOutput{offset: offset, velocity: velocity}
}

func clampDuration(dt time.Duration) time.Duration {
	if dt < ffbMinDt {
		return ffbMinDt
	}
	if dt > ffbMaxDt {
		return ffbMaxDt
	}
	return dt
}

// ffbLoop is the FFB controller's tick loop: wake roughly every
// millisecond, snapshot state under the mutex, integrate lock-free, and
// write the result back. When disabled it backs off to a slower poll instead of spinning.
func (d *Device) ffbLoop() {
	defer d.wg.Done()
	filtered := 0.0
	last := time.Now()

	for {
		d.ffbWake.Wait(1 * time.Millisecond)
		if !d.ffbRunning.Load() || !d.running.Load() {
			return
		}

		d.st.mu.Lock()
		if !d.st.enabled || !d.outputEnabled.Load() {
			d.st.mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			continue
		}
		in := ffbIntegratorInput{
			force:      d.st.ffbForce,
			autocenter: d.st.ffbAutocenter,
			steering:   d.st.steering,
			offset:     d.st.ffbOffset,
			velocity:   d.st.ffbVelocity,
			gain:       d.st.ffbGain,
		}
		d.st.mu.Unlock()

		now := time.Now()
		dt := now.Sub(last)
		last = now

		out := stepFFBIntegrator(in, &filtered, dt)

		d.st.mu.Lock()
		if !d.ffbRunning.Load() || !d.running.Load() {
			d.st.mu.Unlock()
			return
		}
		d.st.ffbOffset = out.offset
		d.st.ffbVelocity = out.velocity
		steeringChanged := d.st.applySteeringLocked()
		d.st.mu.Unlock()

		if steeringChanged {
			d.notifyStateChanged()
		}
	}
}
