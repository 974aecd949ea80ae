package wheel

import "time"

// Endpoint is the HID transport the facade drives: gadget lifecycle
// (UDC bind state) plus blocking report writes and non-blocking reads of
// force feedback output reports. internal/wheelbus provides the concrete
// ConfigFS/ /dev/hidg0 implementation; tests can substitute a fake.
type Endpoint interface {
	// IsReady reports whether the device file is currently open.
	IsReady() bool
	// IsUDCBound reports whether the gadget is currently bound to a UDC.
	IsUDCBound() bool
	// BindUDC binds the gadget to the first detected UDC. A no-op
	// returning true if already bound.
	BindUDC() bool
	// WaitForEndpointReady blocks (up to timeout, or a built-in default if
	// timeout <= 0) until the device file is writable.
	WaitForEndpointReady(timeout time.Duration) bool
	// ResetEndpoint closes the device file so the next operation reopens
	// it; used after a write/read error.
	ResetEndpoint()
	// SetNonBlockingMode toggles O_NONBLOCK on the open device file.
	SetNonBlockingMode(enabled bool)
	// WriteReportBlocking writes one input report, retrying internally on
	// EAGAIN/EPIPE/ENODEV/ESHUTDOWN as described in package wheelbus.
	WriteReportBlocking(report [InputReportLength]byte) bool
	// PollReadable blocks up to timeout for the device file to become
	// readable, or report a terminal error (POLLERR/HUP/NVAL).
	PollReadable(timeout time.Duration) (readable bool, terminal bool)
	// ReadNonblocking performs a single non-blocking read into buf.
	ReadNonblocking(buf []byte) (n int, err error)
}

// InputReportLength mirrors g29hid.InputReportLength, restated here so
// this file doesn't need the g29hid import just for the interface doc.
const InputReportLength = 13
