// Package config defines the daemon's top-level CLI/config surface: the
// kong root command tree and the fields it loads from JSON/YAML/TOML.
package config

import (
	"github.com/g29wheel/g29wheel/internal/cmd"
)

// LogConfig groups the logging-related flags shared across subcommands.
type LogConfig struct {
	Level   string `help:"Log level (error, warn, info, debug, trace)" default:"info" env:"G29WHEEL_LOG_LEVEL"`
	File    string `help:"Log file path (logs to stderr only if empty)" env:"G29WHEEL_LOG_FILE"`
	RawFile string `help:"Write a hex dump of every HID input/output report to this file" env:"G29WHEEL_RAW_LOG_FILE"`
}

// CLI is the kong root command.
type CLI struct {
	Run       cmd.Run              `cmd:"" default:"1" help:"Run the wheel emulator daemon"`
	Config    cmd.ConfigCommand    `cmd:"" help:"Configuration file management"`
	Install   cmd.InstallCommand   `cmd:"" help:"Install as a systemd service (Linux)"`
	Uninstall cmd.UninstallCommand `cmd:"" help:"Remove the systemd service (Linux)"`

	Log LogConfig `embed:"" prefix:"log."`
}
