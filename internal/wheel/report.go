package wheel

import "github.com/g29wheel/g29wheel/pkg/g29hid"

// dpad hat table: (dpadY, dpadX) -> hat nibble, 0x0f = centered.
var hatTable = map[[2]int8]uint8{
	{-1, 0}: 0, {-1, 1}: 1, {0, 1}: 2, {1, 1}: 3,
	{1, 0}: 4, {1, -1}: 5, {0, -1}: 6, {-1, -1}: 7,
}

const hatCentered uint8 = 0x0f

// axisToReport converts a 0-100 pedal axis into the inverted 16-bit little
// endian field the report expects: fully released reports 0xFFFF, fully
// pressed reports 0x0001 (100*655.35f truncates to 65534 in float32, one
// short of 0xFFFF, matching the original's float32 scaling exactly).
func axisToReport(axis float64) uint16 {
	return 65535 - uint16(float32(axis)*655.35)
}

// BuildInputReport encodes a WheelState snapshot into the 13-byte report
// the host reads from the gadget's IN endpoint: steering (u16 LE, offset by
// 32768), clutch/throttle/brake (u16 LE, inverted), hat nibble, and a
// 32-bit button bitmap (only the low 26 bits are meaningful).
func BuildInputReport(s Snapshot) [g29hid.InputReportLength]byte {
	var report [g29hid.InputReportLength]byte

	steeringU := uint16(int16(s.Steering)) + 32768
	report[0] = byte(steeringU)
	report[1] = byte(steeringU >> 8)

	clutchU := axisToReport(s.Clutch)
	report[2] = byte(clutchU)
	report[3] = byte(clutchU >> 8)

	throttleU := axisToReport(s.Throttle)
	report[4] = byte(throttleU)
	report[5] = byte(throttleU >> 8)

	brakeU := axisToReport(s.Brake)
	report[6] = byte(brakeU)
	report[7] = byte(brakeU >> 8)

	hat, ok := hatTable[[2]int8{s.DpadY, s.DpadX}]
	if !ok {
		hat = hatCentered
	}
	report[8] = hat & 0x0f

	bits := s.Buttons.Bits()
	report[9] = byte(bits)
	report[10] = byte(bits >> 8)
	report[11] = byte(bits >> 16)
	report[12] = byte(bits >> 24)

	return report
}

// FFBCommandKind identifies which part of the force feedback state a
// decoded command touches.
type FFBCommandKind int

const (
	// FFBNone means the report decoded to nothing the coordinator needs to
	// apply (unrecognized or extended/0xF8 command).
	FFBNone FFBCommandKind = iota
	// FFBSetForce carries an explicit constant-force value in Force.
	FFBSetForce
	// FFBSetAutocenter carries an explicit autocenter strength in Autocenter.
	FFBSetAutocenter
	// FFBEnableDefaultAutocenter requests strength 1024, but only takes
	// effect if autocenter is currently disabled (strength 0); the caller
	// resolves that against live state.
	FFBEnableDefaultAutocenter
)

// FFBCommand is the decoded effect of a single 7-byte force feedback
// output report, applied by the caller under the state mutex.
type FFBCommand struct {
	Kind       FFBCommandKind
	Force      int16
	Autocenter int16
}

// DecodeFFBCommand parses one 7-byte vendor output report. Kind ==
// FFBNone means there is nothing for the caller to apply.
func DecodeFFBCommand(data [g29hid.OutputReportLength]byte) FFBCommand {
	switch data[0] {
	case g29hid.FFBCmdConstantForce:
		force := int8(data[2] - 0x80)
		return FFBCommand{Kind: FFBSetForce, Force: int16(-force) * 48}
	case g29hid.FFBCmdStop:
		return FFBCommand{Kind: FFBSetForce, Force: 0}
	case g29hid.FFBCmdDisableAutocenter:
		return FFBCommand{Kind: FFBSetAutocenter, Autocenter: 0}
	case g29hid.FFBCmdConfigureExtended:
		if data[1] == g29hid.FFBCmdConfigureAutocenter {
			return FFBCommand{Kind: FFBSetAutocenter, Autocenter: int16(data[2]) * 16}
		}
		return FFBCommand{Kind: FFBNone}
	case g29hid.FFBCmdEnableAutocenter:
		return FFBCommand{Kind: FFBEnableDefaultAutocenter}
	case g29hid.FFBCmdExtendedCommand:
		// Wheel range / LEDs / mode switch: acknowledged, not modeled.
		return FFBCommand{Kind: FFBNone}
	default:
		return FFBCommand{Kind: FFBNone}
	}
}
