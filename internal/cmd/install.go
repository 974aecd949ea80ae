package cmd

import "log/slog"

// InstallCommand installs the daemon as a systemd service.
type InstallCommand struct{}

func (c *InstallCommand) Run(logger *slog.Logger) error {
	return install(logger)
}

// UninstallCommand removes the systemd service installed by InstallCommand.
type UninstallCommand struct{}

func (c *UninstallCommand) Run(logger *slog.Logger) error {
	return uninstall(logger)
}
