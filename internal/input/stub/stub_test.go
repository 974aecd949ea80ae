package stub_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/g29wheel/g29wheel/internal/input/stub"
)

func TestManagerGrabAlwaysSucceeds(t *testing.T) {
	m := stub.New()
	assert.False(t, m.AllRequiredGrabbed())
	assert.True(t, m.GrabDevices(true))
	assert.True(t, m.AllRequiredGrabbed())
	assert.True(t, m.GrabDevices(false))
	assert.False(t, m.AllRequiredGrabbed())
}

func TestManagerWaitForFrameBlocksUntilContextDone(t *testing.T) {
	m := stub.New()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, ok := m.WaitForFrame(ctx)
	assert.False(t, ok)
}

func TestManagerTryGetFrameNeverProducesAFrame(t *testing.T) {
	m := stub.New()
	_, ok := m.TryGetFrame()
	assert.False(t, ok)
}
