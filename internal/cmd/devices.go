package cmd

import (
	"fmt"
	"log/slog"

	applog "github.com/nuevauno/grub-snes-gamepad/internal/log"
	"github.com/nuevauno/grub-snes-gamepad/internal/ui"
)

// Devices enumerates candidate controllers without starting a calibration.
type Devices struct {
	Backend string `help:"Device access backend" enum:"usb,hidraw" default:"usb" env:"SNES_MAPPER_BACKEND"`
}

// Run is called by Kong when the devices command is executed.
func (d *Devices) Run(cli *CLI, logger *slog.Logger, raw applog.ReportLogger) error {
	p := ui.New(cli.NoColor)

	backend, err := newBackend(d.Backend, logger, raw)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	controllers, err := backend.List()
	if err != nil {
		return err
	}
	if len(controllers) == 0 {
		p.Warn("No game controllers found")
		return nil
	}

	fmt.Printf("Found %d controller(s):\n\n", len(controllers))
	for i, c := range controllers {
		known := ""
		if c.Known {
			known = " (known)"
		}
		fmt.Printf("  %d. %s%s\n", i+1, c.Name, known)
		p.Dim("     VID: 0x%04x  PID: 0x%04x", c.VID, c.PID)
		if c.Path != "" {
			p.Dim("     Path: %s", c.Path)
		}
	}
	return nil
}
