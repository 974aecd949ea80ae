package g29hid

// WheelButton indexes into a ButtonState bitmap. The ordering matches the
// canonical gamepad-style button layout this wheel's button cluster is
// mapped onto; it is not derived from any host key name.
type WheelButton int

const (
	ButtonSouth WheelButton = iota
	ButtonEast
	ButtonWest
	ButtonNorth
	ButtonTL
	ButtonTR
	ButtonTL2
	ButtonTR2
	ButtonSelect
	ButtonStart
	ButtonThumbL
	ButtonThumbR
	ButtonMode
	ButtonDead
	ButtonTriggerHappy1
	ButtonTriggerHappy2
	ButtonTriggerHappy3
	ButtonTriggerHappy4
	ButtonTriggerHappy5
	ButtonTriggerHappy6
	ButtonTriggerHappy7
	ButtonTriggerHappy8
	ButtonTriggerHappy9
	ButtonTriggerHappy10
	ButtonTriggerHappy11
	ButtonTriggerHappy12

	buttonCount
)

// ButtonCount is the number of distinct buttons the report codec encodes.
const ButtonCount = int(buttonCount)

// ButtonState is a fixed-size bitmap, never a map, so comparisons, copies
// and zeroing are all plain value operations under the state mutex. It
// lives here rather than in package wheel so both the report codec and the
// input capture boundary can depend on it without a cycle between them.
type ButtonState [ButtonCount]bool

// Bits packs the bitmap into the little-endian 32-bit field the HID input
// report carries in bytes 9-12.
func (b ButtonState) Bits() uint32 {
	var bits uint32
	for i, pressed := range b {
		if pressed {
			bits |= 1 << uint(i)
		}
	}
	return bits
}
