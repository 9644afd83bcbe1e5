package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/nuevauno/grub-snes-gamepad/internal/calib"
	"github.com/nuevauno/grub-snes-gamepad/internal/codegen"
	"github.com/nuevauno/grub-snes-gamepad/internal/hiddev"
	applog "github.com/nuevauno/grub-snes-gamepad/internal/log"
	"github.com/nuevauno/grub-snes-gamepad/internal/mapping"
	"github.com/nuevauno/grub-snes-gamepad/internal/ui"
)

// Map runs the full calibration flow: detect, select, baseline, capture
// every button, persist.
type Map struct {
	Backend        string        `help:"Device access backend" enum:"usb,hidraw" default:"usb" env:"SNES_MAPPER_BACKEND"`
	Output         string        `help:"Directory for generated mapping files" default:"configs" type:"path" env:"SNES_MAPPER_OUTPUT"`
	Format         string        `help:"Mapping file format" enum:"json,yaml" default:"json" env:"SNES_MAPPER_FORMAT"`
	EmitC          bool          `name:"emit-c" help:"Also write the C fragment for the bootloader driver" default:"true" negatable:""`
	Controller     string        `help:"Pick the controller by VID:PID (hex) instead of prompting" placeholder:"VID:PID"`
	Samples        int           `help:"Baseline sample count" default:"20"`
	PressTimeout   time.Duration `help:"Per-button wait for a press" default:"30s"`
	ReleaseTimeout time.Duration `help:"Per-button wait for release after a press; 0 waits forever" default:"30s"`
}

// Run is called by Kong when the map command is executed.
func (m *Map) Run(cli *CLI, logger *slog.Logger, raw applog.ReportLogger) error {
	p := ui.New(cli.NoColor)
	p.Header()

	backend, err := newBackend(m.Backend, logger, raw)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	p.Step(1, 4, "Detecting USB controllers")
	controllers, err := backend.List()
	if err != nil {
		return err
	}
	if len(controllers) == 0 {
		p.Error("No game controllers found!")
		p.Info("Make sure your SNES USB controller is connected.")
		return fmt.Errorf("no controllers found")
	}

	ctrl, err := m.selectController(p, controllers)
	if err != nil {
		return err
	}
	p.Success("Selected: %s", ctrl.Name)

	src, err := backend.Open(ctrl)
	if err != nil {
		p.Error("Could not set up device: %v", err)
		return err
	}
	defer func() { _ = src.Close() }()
	p.Success("Device ready (report size: %d bytes)", src.ReportSize())

	p.Step(2, 4, "Mapping controller buttons")
	fmt.Println("Press each button when prompted.")
	p.Dim("Press Ctrl+C to skip a button.")

	skip, stopSignals := skipOnInterrupt()
	defer stopSignals()

	opts := calib.Options{
		Baseline: calib.BaselineOptions{SampleCount: m.Samples},
		Capture: calib.CaptureOptions{
			PressTimeout:   m.PressTimeout,
			ReleaseTimeout: m.ReleaseTimeout,
		},
	}
	if m.ReleaseTimeout == 0 {
		opts.Capture.ReleaseTimeout = -1 // wait forever, original behavior
	}

	p.Info("Reading baseline (don't press anything)...")
	time.Sleep(500 * time.Millisecond)

	session, err := calib.Calibrate(src, skip, opts, &promptObserver{p: p, pressTimeout: m.PressTimeout})
	if err != nil {
		p.Error("Calibration failed: %v", err)
		return err
	}

	p.Step(3, 4, "Generating configuration")
	file := mapping.FromSession(ctrl.Name, ctrl.VID, ctrl.PID, session)
	path, err := file.Write(m.Output, m.Format)
	if err != nil {
		return fmt.Errorf("write mapping: %w", err)
	}
	p.Success("Saved config: %s", path)
	logger.Info("mapping written", "path", path, "buttons", len(session.Captured()))

	if m.EmitC {
		cPath, err := codegen.WriteC(m.Output, file)
		if err != nil {
			return fmt.Errorf("write C fragment: %w", err)
		}
		p.Success("Saved C code: %s", cPath)
	}

	m.summary(p, ctrl, session)
	return nil
}

func (m *Map) selectController(p *ui.Printer, controllers []hiddev.Controller) (hiddev.Controller, error) {
	if m.Controller != "" {
		vid, pid, err := parseVIDPID(m.Controller)
		if err != nil {
			return hiddev.Controller{}, err
		}
		for _, c := range controllers {
			if c.VID == vid && c.PID == pid {
				return c, nil
			}
		}
		return hiddev.Controller{}, fmt.Errorf("controller %04x:%04x not connected", vid, pid)
	}

	fmt.Printf("\nFound %d controller(s):\n\n", len(controllers))
	for i, c := range controllers {
		known := ""
		if c.Known {
			known = " (known)"
		}
		fmt.Printf("  %d. %s%s\n", i+1, c.Name, known)
		p.Dim("     VID: 0x%04x  PID: 0x%04x", c.VID, c.PID)
	}
	if len(controllers) == 1 {
		return controllers[0], nil
	}
	idx, err := p.Select("Select controller", len(controllers))
	if err != nil {
		return hiddev.Controller{}, err
	}
	return controllers[idx], nil
}

func (m *Map) summary(p *ui.Printer, ctrl hiddev.Controller, session *calib.Session) {
	p.Step(4, 4, "Summary")
	fmt.Printf("Controller: %s\n", ctrl.Name)
	fmt.Printf("VID: 0x%04x  PID: 0x%04x\n\n", ctrl.VID, ctrl.PID)

	fmt.Println("Mapped buttons:")
	for _, btn := range session.Captured() {
		p.Success("%s", btn.Display())
	}
	for _, btn := range session.Missing() {
		outcome, _ := session.Outcome(btn)
		p.Warn("%s (%s)", btn.Display(), outcome)
	}
	fmt.Println()
	p.Success("Done!")
}

// promptObserver renders engine progress as operator prompts.
type promptObserver struct {
	p            *ui.Printer
	pressTimeout time.Duration
}

func (o *promptObserver) BaselineEstimated(baseline calib.Report) {
	o.p.Success("Baseline: %s", baseline.Hex())
}

func (o *promptObserver) AwaitingButton(btn calib.Button) {
	o.p.PressPrompt(btn.Display())
	o.p.Dim("(waiting %s...)", o.pressTimeout)
}

func (o *promptObserver) ButtonCaptured(c *calib.ButtonCapture) {
	for _, d := range c.Diffs {
		o.p.Success("Detected: Byte %d: 0x%02x -> 0x%02x", d.Index, d.From, d.To)
	}
}

func (o *promptObserver) ButtonMissed(btn calib.Button, outcome calib.Outcome) {
	o.p.Warn("%s - skipping %s", outcome, btn.Display())
}

func newBackend(name string, logger *slog.Logger, raw applog.ReportLogger) (hiddev.Backend, error) {
	switch name {
	case "hidraw":
		return hiddev.NewHidraw(logger, raw)
	case "usb", "":
		return hiddev.NewUSB(logger, raw), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", name)
	}
}

// skipOnInterrupt turns SIGINT into per-button skip requests for the
// capture loops. The returned stop function restores default handling.
func skipOnInterrupt() (<-chan struct{}, func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	skip := make(chan struct{}, 1)
	go func() {
		for range sigCh {
			select {
			case skip <- struct{}{}:
			default:
			}
		}
	}()
	return skip, func() {
		signal.Stop(sigCh)
		close(sigCh)
	}
}

func parseVIDPID(s string) (vid, pid uint16, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected VID:PID, got %q", s)
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(parts[0], "0x"), 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("bad VID %q: %w", parts[0], err)
	}
	p, err := strconv.ParseUint(strings.TrimPrefix(parts[1], "0x"), 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("bad PID %q: %w", parts[1], err)
	}
	return uint16(v), uint16(p), nil
}
