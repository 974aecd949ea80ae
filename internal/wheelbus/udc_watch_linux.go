//go:build linux

package wheelbus

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/g29wheel/g29wheel/pkg/g29hid"
)

// UDCWatcher reacts to controllers appearing or disappearing under
// /sys/class/udc, something the original only ever scanned once at gadget
// creation time. When the bound controller disappears it marks the
// endpoint not-ready instead of letting the write pump keep writing into
// a torn-down driver.
type UDCWatcher struct {
	watcher *fsnotify.Watcher
	gadget  *Gadget
	logger  *slog.Logger
	done    chan struct{}
}

// NewUDCWatcher starts watching /sys/class/udc for add/remove events
// affecting gadget.
func NewUDCWatcher(gadget *Gadget, logger *slog.Logger) (*UDCWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(g29hid.UDCClassPath); err != nil {
		_ = w.Close()
		return nil, err
	}
	uw := &UDCWatcher{
		watcher: w,
		gadget:  gadget,
		logger:  logger.With("component", "udc_watch"),
		done:    make(chan struct{}),
	}
	go uw.loop()
	return uw, nil
}

func (w *UDCWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}
			w.handleChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("udc watch error", "error", err)
		}
	}
}

func (w *UDCWatcher) handleChange() {
	if !w.gadget.IsUDCBound() {
		return
	}
	w.gadget.udcMu.Lock()
	name := w.gadget.udcName
	w.gadget.udcMu.Unlock()
	if name == "" {
		return
	}
	if _, err := os.Stat(filepath.Join(g29hid.UDCClassPath, name)); err == nil {
		return
	}
	w.logger.Warn("bound udc disappeared, resetting endpoint", "udc", name)
	w.gadget.ResetEndpoint()
}

// Close stops the watcher.
func (w *UDCWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
