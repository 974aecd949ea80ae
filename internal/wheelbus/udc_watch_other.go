//go:build !linux

package wheelbus

import "log/slog"

// UDCWatcher is a no-op off Linux; there is no /sys/class/udc to watch.
type UDCWatcher struct{}

func NewUDCWatcher(gadget *Gadget, logger *slog.Logger) (*UDCWatcher, error) {
	return &UDCWatcher{}, nil
}

func (w *UDCWatcher) Close() error { return nil }
