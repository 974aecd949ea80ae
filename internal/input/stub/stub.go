// Package stub provides a no-op input.Manager: grabs succeed trivially and
// no frames are ever produced. It exists to wire the daemon and to drive
// facade tests without real keyboard/mouse capture, which is out of scope
// for this module.
package stub

import (
	"context"
	"sync"

	"github.com/g29wheel/g29wheel/internal/input"
)

// Manager is a no-op input.Manager.
type Manager struct {
	mu      sync.Mutex
	grabbed bool
}

// New returns a stub Manager that always grants grabs.
func New() *Manager {
	return &Manager{}
}

func (m *Manager) GrabDevices(grab bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grabbed = grab
	return true
}

func (m *Manager) AllRequiredGrabbed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grabbed
}

func (m *Manager) ResyncKeyStates() {}

// WaitForFrame blocks until ctx is cancelled, since the stub never
// produces frames.
func (m *Manager) WaitForFrame(ctx context.Context) (input.Frame, bool) {
	<-ctx.Done()
	return input.Frame{}, false
}

func (m *Manager) TryGetFrame() (input.Frame, bool) {
	return input.Frame{}, false
}

var _ input.Manager = (*Manager)(nil)
