package g29hid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/g29wheel/g29wheel/pkg/g29hid"
)

func TestReportDescriptorIsNonEmpty(t *testing.T) {
	assert.NotEmpty(t, g29hid.ReportDescriptor)
}

func TestReportLengthsMatchSpec(t *testing.T) {
	assert.Equal(t, 13, g29hid.InputReportLength)
	assert.Equal(t, 7, g29hid.OutputReportLength)
}

func TestFFBCommandBytesAreDistinct(t *testing.T) {
	cmds := []byte{
		g29hid.FFBCmdConstantForce,
		g29hid.FFBCmdStop,
		g29hid.FFBCmdEnableAutocenter,
		g29hid.FFBCmdConfigureExtended,
		g29hid.FFBCmdDisableAutocenter,
		g29hid.FFBCmdExtendedCommand,
	}
	seen := map[byte]bool{}
	for _, c := range cmds {
		assert.False(t, seen[c], "duplicate ffb command byte 0x%02x", c)
		seen[c] = true
	}
}
