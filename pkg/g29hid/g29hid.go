// Package g29hid holds the wire-format constants shared by the gadget
// endpoint and the report codec: USB ids, ConfigFS paths, and the raw HID
// report descriptor bytes describing a Logitech G29-shaped device (4 axes,
// an 8-way hat, 26 buttons in, a 7-byte vendor feedback report out).
package g29hid

const (
	VendorID      uint16 = 0x046d
	ProductID     uint16 = 0xc24f
	BCDDevice     uint16 = 0x0111
	BCDUSB        uint16 = 0x0200
	DeviceClass   uint8  = 0x00
	DeviceSubtype uint8  = 0x00
	DeviceProto   uint8  = 0x00

	GadgetName   = "g29wheel"
	HIDFunction  = "hid.usb0"
	DevicePath   = "/dev/hidg0"
	ConfigFSRoot = "/sys/kernel/config/usb_gadget"
	UDCClassPath = "/sys/class/udc"

	// InputReportLength is the size in bytes of a host-bound report: four
	// 16-bit axes, a hat nibble plus four padding bits, and a 26-bit button
	// bitmap plus six padding bits.
	InputReportLength = 13
	// OutputReportLength is the size in bytes of a device-bound force
	// feedback command.
	OutputReportLength = 7

	// HIDSubclass/HIDProtocol are written to the ConfigFS hid.usb0
	// function's subclass/protocol attributes, matching the values the
	// real G29 advertises in its HID interface descriptor.
	HIDSubclass = 1
	HIDProtocol = 1
)

// ReportDescriptor is the raw HID report descriptor advertised by the
// gadget: an input collection of X/Y/Z/Rz axes, an 8-position hat switch
// and 26 buttons, plus a vendor-defined 7-byte output report used to carry
// force feedback commands from the host.
var ReportDescriptor = []byte{
	0x05, 0x01, 0x09, 0x04, 0xA1, 0x01, 0xA1, 0x02, 0x09, 0x01, 0xA1, 0x00,
	0x09, 0x30, 0x09, 0x31, 0x09, 0x32, 0x09, 0x35, 0x15, 0x00,
	0x27, 0xFF, 0xFF, 0x00, 0x00, 0x35, 0x00,
	0x47, 0xFF, 0xFF, 0x00, 0x00, 0x75, 0x10,
	0x95, 0x04, 0x81, 0x02, 0xC0,
	0x09, 0x39, 0x15, 0x00, 0x25, 0x07, 0x35, 0x00, 0x46, 0x3B, 0x01,
	0x65, 0x14, 0x75, 0x04, 0x95, 0x01, 0x81, 0x42,
	0x75, 0x04, 0x95, 0x01, 0x81, 0x03,
	0x05, 0x09, 0x19, 0x01, 0x29, 0x1A, 0x15, 0x00, 0x25, 0x01,
	0x75, 0x01, 0x95, 0x1A, 0x81, 0x02,
	0x75, 0x06, 0x95, 0x01, 0x81, 0x03,
	0xC0,
	0xA1, 0x02, 0x09, 0x02, 0x15, 0x00, 0x26, 0xFF, 0x00,
	0x95, 0x07, 0x75, 0x08, 0x91, 0x02,
	0xC0,
	0xC0,
}

// FFB command bytes, decoded from the first byte of a 7-byte output report.
const (
	FFBCmdConstantForce       byte = 0x11
	FFBCmdStop                byte = 0x13
	FFBCmdEnableAutocenter    byte = 0x14
	FFBCmdConfigureExtended   byte = 0xfe
	FFBCmdConfigureAutocenter byte = 0x0d // data[1] value when Cmd == FFBCmdConfigureExtended
	FFBCmdDisableAutocenter   byte = 0xf5
	FFBCmdExtendedCommand     byte = 0xf8
)
