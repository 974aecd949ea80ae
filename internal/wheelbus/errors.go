package wheelbus

import "errors"

// Sentinel errors for the gadget lifecycle; callers can errors.Is against
// these instead of matching strings.
var (
	ErrNoConfigFS     = errors.New("wheelbus: usb_gadget configfs not available")
	ErrNoUDC          = errors.New("wheelbus: no usb device controller detected")
	ErrGadgetSetup    = errors.New("wheelbus: failed to create gadget tree")
	ErrNotSupported   = errors.New("wheelbus: usb gadget hid endpoint not supported on this platform")
	ErrEndpointClosed = errors.New("wheelbus: hid endpoint not open")
)
