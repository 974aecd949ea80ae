package wheel

import "github.com/g29wheel/g29wheel/pkg/g29hid"

// WheelButton, ButtonState and ButtonCount are restated here as aliases so
// callers within this package never have to spell out g29hid directly; the
// types themselves live in g29hid so internal/input can depend on the
// button bitmap without importing package wheel.
type WheelButton = g29hid.WheelButton

const (
	ButtonSouth          = g29hid.ButtonSouth
	ButtonEast           = g29hid.ButtonEast
	ButtonWest           = g29hid.ButtonWest
	ButtonNorth          = g29hid.ButtonNorth
	ButtonTL             = g29hid.ButtonTL
	ButtonTR             = g29hid.ButtonTR
	ButtonTL2            = g29hid.ButtonTL2
	ButtonTR2            = g29hid.ButtonTR2
	ButtonSelect         = g29hid.ButtonSelect
	ButtonStart          = g29hid.ButtonStart
	ButtonThumbL         = g29hid.ButtonThumbL
	ButtonThumbR         = g29hid.ButtonThumbR
	ButtonMode           = g29hid.ButtonMode
	ButtonDead           = g29hid.ButtonDead
	ButtonTriggerHappy1  = g29hid.ButtonTriggerHappy1
	ButtonTriggerHappy2  = g29hid.ButtonTriggerHappy2
	ButtonTriggerHappy3  = g29hid.ButtonTriggerHappy3
	ButtonTriggerHappy4  = g29hid.ButtonTriggerHappy4
	ButtonTriggerHappy5  = g29hid.ButtonTriggerHappy5
	ButtonTriggerHappy6  = g29hid.ButtonTriggerHappy6
	ButtonTriggerHappy7  = g29hid.ButtonTriggerHappy7
	ButtonTriggerHappy8  = g29hid.ButtonTriggerHappy8
	ButtonTriggerHappy9  = g29hid.ButtonTriggerHappy9
	ButtonTriggerHappy10 = g29hid.ButtonTriggerHappy10
	ButtonTriggerHappy11 = g29hid.ButtonTriggerHappy11
	ButtonTriggerHappy12 = g29hid.ButtonTriggerHappy12
)

// ButtonCount is the number of distinct buttons the report codec encodes.
const ButtonCount = g29hid.ButtonCount

// ButtonState is a fixed-size bitmap, never a map, so comparisons, copies
// and zeroing are all plain value operations under the state mutex.
type ButtonState = g29hid.ButtonState
