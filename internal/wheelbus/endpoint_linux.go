//go:build linux

package wheelbus

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/g29wheel/g29wheel/internal/wheel"
	"github.com/g29wheel/g29wheel/pkg/g29hid"
)

const defaultPollTimeout = 50 * time.Millisecond

// Gadget implements wheel.Endpoint against a real ConfigFS USB HID gadget
// and its /dev/hidg0 character device.
type Gadget struct {
	logger *slog.Logger

	fdMu sync.Mutex
	fd   int

	udcMu    sync.Mutex
	udcName  string
	udcBound atomic.Bool

	nonBlocking atomic.Bool
}

// NewGadget constructs a Gadget. Call Initialize before using it as a
// wheel.Endpoint.
func NewGadget(logger *slog.Logger) *Gadget {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gadget{logger: logger.With("component", "wheelbus"), fd: -1}
	g.nonBlocking.Store(true)
	return g
}

// Initialize creates the ConfigFS gadget tree, binds it to the first
// detected UDC, and opens the HID device file. Mirrors the original's
// HidDevice::Initialize three-step sequence, tearing the gadget back down
// on any failure.
func (g *Gadget) Initialize() error {
	g.logger.Info("initializing usb hid gadget")
	if err := ensureGadgetTree(); err != nil {
		g.logger.Error("failed to create usb gadget tree", "error", err)
		return err
	}

	udc := detectFirstUDC()
	if udc == "" {
		removeGadgetTree()
		return ErrNoUDC
	}
	g.udcMu.Lock()
	g.udcName = udc
	g.udcMu.Unlock()

	if !g.BindUDC() {
		removeGadgetTree()
		return ErrGadgetSetup
	}
	if !g.ensureEndpointOpen() {
		_ = g.UnbindUDC()
		removeGadgetTree()
		return ErrEndpointClosed
	}
	return nil
}

// Shutdown closes the device file and destroys the gadget tree.
func (g *Gadget) Shutdown() {
	g.logger.Info("shutting down hid gadget")
	g.fdMu.Lock()
	if g.fd >= 0 {
		_ = unix.Close(g.fd)
		g.fd = -1
	}
	g.fdMu.Unlock()
	_ = g.UnbindUDC()
	removeGadgetTree()
}

func (g *Gadget) IsReady() bool {
	g.fdMu.Lock()
	defer g.fdMu.Unlock()
	return g.fd >= 0
}

func (g *Gadget) IsUDCBound() bool {
	return g.udcBound.Load()
}

func (g *Gadget) SetNonBlockingMode(enabled bool) {
	if g.nonBlocking.Swap(enabled) == enabled {
		return
	}
	g.fdMu.Lock()
	defer g.fdMu.Unlock()
	if g.fd < 0 {
		return
	}
	flags, err := unix.FcntlInt(uintptr(g.fd), unix.F_GETFL, 0)
	if err != nil {
		g.logger.Error("fcntl F_GETFL failed", "error", err)
		return
	}
	if enabled {
		flags |= unix.O_NONBLOCK
	} else {
		flags &^= unix.O_NONBLOCK
	}
	if _, err := unix.FcntlInt(uintptr(g.fd), unix.F_SETFL, flags); err != nil {
		g.logger.Error("fcntl F_SETFL failed", "error", err)
	}
}

func (g *Gadget) ResetEndpoint() {
	g.fdMu.Lock()
	defer g.fdMu.Unlock()
	if g.fd >= 0 {
		_ = unix.Close(g.fd)
		g.fd = -1
	}
}

func (g *Gadget) BindUDC() bool {
	g.udcMu.Lock()
	defer g.udcMu.Unlock()
	if g.udcBound.Load() {
		return true
	}
	if g.udcName == "" {
		g.udcName = detectFirstUDC()
		if g.udcName == "" {
			g.logger.Error("cannot bind gadget: no udc")
			return false
		}
	}
	if err := os.WriteFile(gadgetUDCPath(), []byte(g.udcName), 0o644); err != nil {
		g.logger.Error("failed to bind udc", "udc", g.udcName, "error", err)
		return false
	}
	g.udcBound.Store(true)
	g.logger.Info("bound gadget to udc", "udc", g.udcName)
	return true
}

func (g *Gadget) UnbindUDC() bool {
	g.udcMu.Lock()
	defer g.udcMu.Unlock()
	if !g.udcBound.Load() {
		return true
	}
	if err := os.WriteFile(gadgetUDCPath(), []byte(""), 0o644); err != nil {
		g.logger.Error("failed to unbind gadget", "error", err)
		return false
	}
	g.udcBound.Store(false)
	g.ResetEndpoint()
	g.logger.Info("unbound gadget from udc")
	return true
}

func (g *Gadget) ensureEndpointOpen() bool {
	g.fdMu.Lock()
	defer g.fdMu.Unlock()
	if g.fd >= 0 {
		return true
	}
	flags := unix.O_RDWR
	if g.nonBlocking.Load() {
		flags |= unix.O_NONBLOCK
	}
	fd, err := unix.Open(g29hid.DevicePath, flags, 0)
	if err != nil {
		g.logger.Error("failed to open hid endpoint", "path", g29hid.DevicePath, "error", err)
		return false
	}
	g.fd = fd
	g.logger.Info("opened hid endpoint", "path", g29hid.DevicePath)
	return true
}

// WaitForEndpointReady polls until the device file is writable, closing
// and forgetting it on POLLERR/HUP/NVAL so the next caller reopens fresh.
func (g *Gadget) WaitForEndpointReady(timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}
	if !g.ensureEndpointOpen() {
		return false
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		g.fdMu.Lock()
		fd := g.fd
		g.fdMu.Unlock()
		if fd < 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}

		waitMs := int(time.Until(deadline).Milliseconds())
		if waitMs < 0 {
			waitMs = 0
		}
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
		n, err := unix.Poll(fds, waitMs)
		if n > 0 {
			ev := fds[0].Revents
			if ev&unix.POLLOUT != 0 {
				return true
			}
			if ev&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
				g.ResetEndpoint()
				continue
			}
		} else if n == 0 {
			break
		} else if err != unix.EINTR {
			g.logger.Error("poll failed", "error", err)
			break
		}
	}
	return false
}

// WriteReportBlocking writes one report, retrying on EAGAIN/EPIPE/ENODEV/
// ESHUTDOWN exactly as the original blocking write loop does.
func (g *Gadget) WriteReportBlocking(report [wheel.InputReportLength]byte) bool {
	total := 0
	data := report[:]
	for total < len(data) {
		if !g.ensureEndpointOpen() {
			return false
		}
		g.fdMu.Lock()
		fd := g.fd
		g.fdMu.Unlock()
		if fd < 0 {
			continue
		}

		n, err := unix.Write(fd, data[total:])
		if n > 0 {
			total += n
			continue
		}
		if err == nil {
			if !g.WaitForEndpointReady(defaultPollTimeout) {
				return false
			}
			continue
		}
		switch err {
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			if !g.WaitForEndpointReady(defaultPollTimeout) {
				return false
			}
			continue
		case unix.EPIPE, unix.ENODEV, unix.ESHUTDOWN:
			g.ResetEndpoint()
			time.Sleep(5 * time.Millisecond)
			continue
		default:
			g.logger.Error("write failed", "error", err)
			return false
		}
	}
	return true
}

// PollReadable blocks up to timeout for data to arrive on the device
// file. terminal is true on POLLERR/HUP/NVAL, signalling the caller
// should reset the endpoint.
func (g *Gadget) PollReadable(timeout time.Duration) (readable bool, terminal bool) {
	g.fdMu.Lock()
	fd := g.fd
	g.fdMu.Unlock()
	if fd < 0 {
		return false, false
	}
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if err == unix.EINTR {
			return false, false
		}
		return false, true
	}
	if n <= 0 {
		return false, false
	}
	ev := fds[0].Revents
	if ev&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
		return false, true
	}
	return ev&unix.POLLIN != 0, false
}

// ReadNonblocking performs a single non-blocking read into buf.
func (g *Gadget) ReadNonblocking(buf []byte) (int, error) {
	g.fdMu.Lock()
	fd := g.fd
	g.fdMu.Unlock()
	if fd < 0 {
		return 0, ErrEndpointClosed
	}
	n, err := unix.Read(fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

var _ wheel.Endpoint = (*Gadget)(nil)
