package wheel

import (
	"time"
)

const ffbPacketLength = 7

// notifyStateChanged marks the state dirty and wakes both the write pump
// and the FFB controller.
func (d *Device) notifyStateChanged() {
	d.stateDirty.Store(true)
	d.stateWake.Broadcast()
	d.ffbWake.Broadcast()
}

// notifyAllShutdownCVs wakes every goroutine blocked on a wake signal so a
// shutdown request is observed promptly instead of waiting out the next
// poll interval.
func (d *Device) notifyAllShutdownCVs() {
	d.stateWake.Broadcast()
	d.ffbWake.Broadcast()
}

// waitForStateFlush blocks until the write pump has cleared the dirty
// flag, the device is shutting down, the write pump or output is stopped,
// or timeout elapses.
func (d *Device) waitForStateFlush(timeout time.Duration) bool {
	if timeout <= 0 {
		return !d.stateDirty.Load()
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !d.stateDirty.Load() {
			return true
		}
		if !d.running.Load() || !d.gadgetRunning.Load() || !d.outputEnabled.Load() {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}
	return !d.stateDirty.Load()
}

// writePump is the write side of the state coordinator: it wakes on the
// state condition variable (or a short poll interval), consumes the dirty
// flag and any pending warm-up frame budget, and pushes one report to the
// endpoint.
func (d *Device) writePump() {
	defer d.wg.Done()
	for d.gadgetRunning.Load() && d.running.Load() {
		if !d.stateDirty.Load() && d.warmupFrames.Load() <= 0 {
			d.stateWake.Wait(2 * time.Millisecond)
		}
		if !d.gadgetRunning.Load() || !d.running.Load() {
			break
		}

		d.st.mu.Lock()
		shouldSend := d.stateDirty.Swap(false)
		warmup := false
		if d.warmupFrames.Load() > 0 {
			warmup = true
			d.warmupFrames.Add(-1)
		}
		report := BuildInputReport(d.st.snapshotLocked())
		d.st.mu.Unlock()
		allowOutput := d.outputEnabled.Load()

		if allowOutput && (shouldSend || warmup) {
			ready := d.endpoint.IsReady()
			if !ready {
				if !d.endpoint.IsUDCBound() {
					d.stateDirty.Store(true)
					time.Sleep(2 * time.Millisecond)
				} else if !d.endpoint.WaitForEndpointReady(50 * time.Millisecond) {
					d.stateDirty.Store(true)
					time.Sleep(2 * time.Millisecond)
				} else {
					ready = true
				}
			}
			if ready {
				if d.endpoint.WriteReportBlocking(report) {
					d.rawLog.Log(false, report[:])
				} else {
					d.endpoint.ResetEndpoint()
					d.stateDirty.Store(true)
				}
			}
		}
	}
}

// readPump is the read side: it polls the endpoint for incoming force
// feedback reports, reassembles partial 7-byte frames across read() calls,
// and dispatches complete frames to the FFB decoder.
func (d *Device) readPump() {
	defer d.wg.Done()
	var pending [ffbPacketLength]byte
	pendingLen := 0

	for d.gadgetOutputRunning.Load() && d.running.Load() {
		if !d.endpoint.IsUDCBound() {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if !d.endpoint.IsReady() && !d.endpoint.WaitForEndpointReady(10 * time.Millisecond) {
			time.Sleep(2 * time.Millisecond)
			continue
		}

		readable, terminal := d.endpoint.PollReadable(5 * time.Millisecond)
		if !d.gadgetOutputRunning.Load() || !d.running.Load() {
			break
		}
		if terminal {
			d.endpoint.ResetEndpoint()
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if !readable {
			continue
		}

		buf := make([]byte, 32)
		n, err := d.endpoint.ReadNonblocking(buf)
		if err != nil {
			d.endpoint.ResetEndpoint()
			continue
		}
		if n == 0 {
			continue
		}

		offset := 0
		for offset < n {
			needed := ffbPacketLength - pendingLen
			chunk := n - offset
			if chunk > needed {
				chunk = needed
			}
			copy(pending[pendingLen:pendingLen+chunk], buf[offset:offset+chunk])
			pendingLen += chunk
			offset += chunk

			if pendingLen == ffbPacketLength {
				d.rawLog.Log(true, pending[:])
				if d.outputEnabled.Load() {
					d.applyFFBReport(pending)
				}
				pendingLen = 0
			}
		}
	}
}

// applyFFBReport decodes one complete output report and, if it changes
// anything, applies it under the state mutex and wakes the FFB controller.
func (d *Device) applyFFBReport(raw [ffbPacketLength]byte) {
	cmd := DecodeFFBCommand(raw)
	if cmd.Kind == FFBNone {
		return
	}
	d.st.mu.Lock()
	if !d.st.enabled {
		d.st.mu.Unlock()
		return
	}
	changed := d.st.applyFFBCommandLocked(cmd)
	d.st.mu.Unlock()
	if changed {
		d.ffbWake.Broadcast()
	}
}
