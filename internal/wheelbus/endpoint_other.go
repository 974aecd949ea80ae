//go:build !linux

package wheelbus

import (
	"log/slog"
	"time"

	"github.com/g29wheel/g29wheel/internal/wheel"
)

// Gadget is a stub on non-Linux platforms: USB gadget ConfigFS is a Linux
// kernel facility with no analogue elsewhere, so every operation fails
// with ErrNotSupported rather than pretending to emulate a device.
type Gadget struct{}

func NewGadget(logger *slog.Logger) *Gadget { return &Gadget{} }

func (g *Gadget) Initialize() error { return ErrNotSupported }
func (g *Gadget) Shutdown()         {}

func (g *Gadget) IsReady() bool                                                 { return false }
func (g *Gadget) IsUDCBound() bool                                              { return false }
func (g *Gadget) BindUDC() bool                                                 { return false }
func (g *Gadget) UnbindUDC() bool                                               { return true }
func (g *Gadget) SetNonBlockingMode(enabled bool)                               {}
func (g *Gadget) ResetEndpoint()                                                {}
func (g *Gadget) WaitForEndpointReady(timeout time.Duration) bool              { return false }
func (g *Gadget) WriteReportBlocking(report [wheel.InputReportLength]byte) bool { return false }
func (g *Gadget) PollReadable(timeout time.Duration) (bool, bool)              { return false, false }
func (g *Gadget) ReadNonblocking(buf []byte) (int, error)                      { return 0, ErrNotSupported }

var _ wheel.Endpoint = (*Gadget)(nil)
