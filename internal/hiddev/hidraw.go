package hiddev

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sstallion/go-hid"

	"github.com/nuevauno/grub-snes-gamepad/internal/calib"
	applog "github.com/nuevauno/grub-snes-gamepad/internal/log"
)

const (
	usagePageGenericDesktop = 0x01
	usageJoystick           = 0x04
	usageGamepad            = 0x05

	// hidraw doesn't expose wMaxPacketSize; reports are read into a
	// buffer this large and the first read fixes the session size.
	maxReportSize = 64

	probeTimeout = 2 * time.Second
)

// HidrawBackend reads reports through the kernel hidraw interface, for
// systems where detaching the kernel driver is undesirable.
type HidrawBackend struct {
	logger *slog.Logger
	raw    applog.ReportLogger
}

// NewHidraw initializes hidapi and returns a hidraw-backed Backend.
func NewHidraw(logger *slog.Logger, raw applog.ReportLogger) (*HidrawBackend, error) {
	if err := hid.Init(); err != nil {
		return nil, fmt.Errorf("init hidapi: %w", err)
	}
	return &HidrawBackend{logger: logger, raw: raw}, nil
}

func (b *HidrawBackend) Close() error { return hid.Exit() }

// List enumerates hidraw devices that look like gamepads: known VID/PID
// pairs, or generic-desktop joystick/gamepad usage.
func (b *HidrawBackend) List() ([]Controller, error) {
	var out []Controller
	err := hid.Enumerate(0, 0, func(info *hid.DeviceInfo) error {
		name, known := KnownController(info.VendorID, info.ProductID)
		if !known {
			gamepadUsage := info.UsagePage == usagePageGenericDesktop &&
				(info.Usage == usageJoystick || info.Usage == usageGamepad)
			if !gamepadUsage {
				return nil
			}
			name = info.ProductStr
			if name == "" {
				name = "Unknown HID Device"
			}
		}
		out = append(out, Controller{
			VID:   info.VendorID,
			PID:   info.ProductID,
			Name:  name,
			Known: known,
			Path:  info.Path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate hidraw devices: %w", err)
	}
	return out, nil
}

// Open opens the controller's hidraw node and probes the report size from
// the first report that arrives.
func (b *HidrawBackend) Open(c Controller) (Source, error) {
	var dev *hid.Device
	var err error
	if c.Path != "" {
		dev, err = hid.OpenPath(c.Path)
	} else {
		dev, err = hid.Open(c.VID, c.PID, "")
	}
	if err != nil {
		return nil, fmt.Errorf("open %04x:%04x: %w", c.VID, c.PID, err)
	}

	src := &hidrawSource{dev: dev, raw: b.raw}
	if err := src.probeSize(); err != nil {
		_ = dev.Close()
		return nil, err
	}
	b.logger.Debug("controller ready",
		"vid", fmt.Sprintf("0x%04x", c.VID),
		"pid", fmt.Sprintf("0x%04x", c.PID),
		"path", c.Path,
		"report_size", src.size)
	return src, nil
}

type hidrawSource struct {
	dev  *hid.Device
	size int
	raw  applog.ReportLogger
}

// probeSize waits for one report to learn the device's report length. The
// operator is expected to wiggle or simply connect the pad; most pads
// stream reports continuously.
func (s *hidrawSource) probeSize() error {
	deadline := time.Now().Add(probeTimeout)
	buf := make([]byte, maxReportSize)
	for time.Now().Before(deadline) {
		n, err := s.dev.ReadWithTimeout(buf, 100*time.Millisecond)
		if err != nil {
			return fmt.Errorf("probe report size: %w", err)
		}
		if n > 0 {
			s.size = n
			return nil
		}
	}
	return fmt.Errorf("probe report size: %w", calib.ErrReadTimeout)
}

func (s *hidrawSource) ReportSize() int { return s.size }

func (s *hidrawSource) ReadReport(timeout time.Duration) (calib.Report, error) {
	buf := make([]byte, s.size)
	n, err := s.dev.ReadWithTimeout(buf, timeout)
	if err != nil {
		return nil, fmt.Errorf("hidraw read: %w", err)
	}
	if n == 0 {
		return nil, calib.ErrReadTimeout
	}
	rep := calib.Report(buf[:n])
	if s.raw != nil {
		s.raw.Report(rep)
	}
	return rep, nil
}

func (s *hidrawSource) Close() error { return s.dev.Close() }
