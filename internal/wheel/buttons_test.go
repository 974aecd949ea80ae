package wheel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/g29wheel/g29wheel/internal/wheel"
)

func TestButtonStateBitsPacksLowBitsOnly(t *testing.T) {
	var b wheel.ButtonState
	assert.Equal(t, uint32(0), b.Bits())

	b[wheel.ButtonSouth] = true
	assert.Equal(t, uint32(1), b.Bits())

	b[wheel.ButtonEast] = true
	assert.Equal(t, uint32(0b11), b.Bits())
}

func TestButtonCountMatchesEnum(t *testing.T) {
	assert.Equal(t, 26, wheel.ButtonCount)
}

func TestButtonStateValueEquality(t *testing.T) {
	var a, b wheel.ButtonState
	a[wheel.ButtonMode] = true
	b[wheel.ButtonMode] = true
	assert.Equal(t, a, b)

	b[wheel.ButtonMode] = false
	assert.NotEqual(t, a, b)
}
