//go:build !linux

package cmd

import (
	"errors"
	"log/slog"
)

// ErrNoSystemd is returned by install/uninstall on platforms without
// systemd, since the gadget itself is Linux-only anyway.
var ErrNoSystemd = errors.New("service installation is only supported on linux")

func install(logger *slog.Logger) error {
	return ErrNoSystemd
}

func uninstall(logger *slog.Logger) error {
	return ErrNoSystemd
}
