package cmd

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMapFromStructRun(t *testing.T) {
	m := buildMapFromStruct(reflect.TypeOf(Run{}))

	assert.Equal(t, int64(300), m["sensitivity"])
	assert.Equal(t, 1.0, m["fFBGain"])
	assert.Equal(t, false, m["startEnabled"])
}

func TestLowerCamel(t *testing.T) {
	assert.Equal(t, "sensitivity", lowerCamel("Sensitivity"))
	assert.Equal(t, "", lowerCamel(""))
}

func TestNormalizeFormat(t *testing.T) {
	assert.Equal(t, "json", normalizeFormat("JSON"))
	assert.Equal(t, "yaml", normalizeFormat("yml"))
	assert.Equal(t, "toml", normalizeFormat("toml"))
	assert.Equal(t, "", normalizeFormat("xml"))
}
