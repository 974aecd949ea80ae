package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/g29wheel/g29wheel/internal/input/stub"
	"github.com/g29wheel/g29wheel/internal/log"
	"github.com/g29wheel/g29wheel/internal/wheel"
	"github.com/g29wheel/g29wheel/internal/wheelbus"
)

// Run is the daemon command: it brings up the USB HID gadget, starts the
// wheel device's background threads, and drives it from an input.Manager
// until interrupted.
type Run struct {
	Sensitivity  int           `help:"Mouse-to-steering sensitivity" default:"300" env:"G29WHEEL_SENSITIVITY"`
	FFBGain      float64       `help:"Initial force feedback gain multiplier" default:"1.0" env:"G29WHEEL_FFB_GAIN"`
	FrameTimeout time.Duration `help:"How long to wait for an input frame before re-checking shutdown" default:"200ms"`
	StartEnabled bool          `help:"Start with emulation already enabled" default:"false"`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.start(ctx, logger, rawLogger)
}

func (r *Run) start(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	logger.Info("starting g29wheel emulator daemon")

	gadget := wheelbus.NewGadget(logger)
	if err := gadget.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize usb hid gadget: %w", err)
	}
	defer gadget.Shutdown()

	watcher, err := wheelbus.NewUDCWatcher(gadget, logger)
	if err != nil {
		logger.Warn("udc hotplug watcher unavailable", "error", err)
	} else {
		defer watcher.Close()
	}

	device := wheel.New(gadget, logger, rawLogger)
	if !device.Create() {
		return fmt.Errorf("failed to create wheel device")
	}
	defer device.ShutdownThreads()

	device.SetFFBGain(r.FFBGain)

	im := stub.New()

	if r.StartEnabled {
		device.SetEnabled(true, im)
	}

	frameTimeout := r.FrameTimeout
	if frameTimeout <= 0 {
		frameTimeout = 200 * time.Millisecond
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutdown signal received")
			device.SetEnabled(false, im)
			return nil
		default:
		}

		frameCtx, cancel := context.WithTimeout(ctx, frameTimeout)
		frame, ok := im.WaitForFrame(frameCtx)
		cancel()
		if !ok {
			continue
		}

		if frame.TogglePressed {
			device.ToggleEnabled(im)
			continue
		}

		device.ProcessInputFrame(frame, r.Sensitivity)
	}
}
