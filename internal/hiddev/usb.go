package hiddev

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/gousb"

	"github.com/nuevauno/grub-snes-gamepad/internal/calib"
	applog "github.com/nuevauno/grub-snes-gamepad/internal/log"
)

// USBBackend reads reports over libusb: kernel driver auto-detached, the
// HID interface claimed, reports read from the interrupt-IN endpoint.
type USBBackend struct {
	ctx    *gousb.Context
	logger *slog.Logger
	raw    applog.ReportLogger
}

// NewUSB creates a libusb-backed Backend.
func NewUSB(logger *slog.Logger, raw applog.ReportLogger) *USBBackend {
	return &USBBackend{ctx: gousb.NewContext(), logger: logger, raw: raw}
}

func (b *USBBackend) Close() error { return b.ctx.Close() }

// List enumerates connected controllers: known VID/PID pairs plus HID-class
// devices that aren't boot keyboards or mice.
func (b *USBBackend) List() ([]Controller, error) {
	var out []Controller
	devs, err := b.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return isController(desc)
	})
	for _, dev := range devs {
		vid := uint16(dev.Desc.Vendor)
		pid := uint16(dev.Desc.Product)
		name, known := KnownController(vid, pid)
		if !known {
			if product, perr := dev.Product(); perr == nil && product != "" {
				name = product
			} else {
				name = "Unknown HID Device"
			}
		}
		out = append(out, Controller{VID: vid, PID: pid, Name: name, Known: known})
		_ = dev.Close()
	}
	if err != nil {
		// some devices may be unreadable (permissions); report what we got
		b.logger.Debug("partial USB enumeration", "error", err, "found", len(out))
		if len(out) == 0 {
			return nil, fmt.Errorf("enumerate USB devices: %w", err)
		}
	}
	return out, nil
}

func isController(desc *gousb.DeviceDesc) bool {
	if _, ok := KnownController(uint16(desc.Vendor), uint16(desc.Product)); ok {
		return true
	}
	for _, cfg := range desc.Configs {
		for _, intf := range cfg.Interfaces {
			for _, alt := range intf.AltSettings {
				if alt.Class != gousb.ClassHID {
					continue
				}
				// boot keyboards and mice are not gamepads
				if alt.SubClass == 1 && (alt.Protocol == 1 || alt.Protocol == 2) {
					continue
				}
				return true
			}
		}
	}
	return false
}

// Open claims the controller's HID interface and wires its interrupt-IN
// endpoint up as a report source.
func (b *USBBackend) Open(c Controller) (Source, error) {
	dev, err := b.ctx.OpenDeviceWithVIDPID(gousb.ID(c.VID), gousb.ID(c.PID))
	if err != nil {
		return nil, fmt.Errorf("open %04x:%04x: %w", c.VID, c.PID, err)
	}
	if dev == nil {
		return nil, fmt.Errorf("controller %04x:%04x not found", c.VID, c.PID)
	}

	if err := dev.SetAutoDetach(true); err != nil {
		b.logger.Debug("kernel driver auto-detach unavailable", "error", err)
	}

	cfgNum, ifNum, epDesc, err := findInterruptIn(dev.Desc)
	if err != nil {
		_ = dev.Close()
		return nil, err
	}

	cfg, err := dev.Config(cfgNum)
	if err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("set configuration %d: %w", cfgNum, err)
	}
	intf, err := cfg.Interface(ifNum, 0)
	if err != nil {
		_ = cfg.Close()
		_ = dev.Close()
		return nil, fmt.Errorf("claim interface %d: %w", ifNum, err)
	}
	ep, err := intf.InEndpoint(epDesc.Number)
	if err != nil {
		intf.Close()
		_ = cfg.Close()
		_ = dev.Close()
		return nil, fmt.Errorf("open endpoint 0x%02x: %w", uint8(epDesc.Address), err)
	}

	b.logger.Debug("controller ready",
		"vid", fmt.Sprintf("0x%04x", c.VID),
		"pid", fmt.Sprintf("0x%04x", c.PID),
		"endpoint", fmt.Sprintf("0x%02x", uint8(epDesc.Address)),
		"report_size", epDesc.MaxPacketSize)

	return &usbSource{
		dev:  dev,
		cfg:  cfg,
		intf: intf,
		ep:   ep,
		size: epDesc.MaxPacketSize,
		raw:  b.raw,
	}, nil
}

// findInterruptIn locates the first interrupt-IN endpoint across the
// device's configurations, scanned in config number order.
func findInterruptIn(desc *gousb.DeviceDesc) (cfgNum, ifNum int, ep gousb.EndpointDesc, err error) {
	var cfgNums []int
	for n := range desc.Configs {
		cfgNums = append(cfgNums, n)
	}
	sort.Ints(cfgNums)

	for _, n := range cfgNums {
		cfg := desc.Configs[n]
		for _, intf := range cfg.Interfaces {
			if len(intf.AltSettings) == 0 {
				continue
			}
			alt := intf.AltSettings[0]
			for _, epDesc := range alt.Endpoints {
				if epDesc.Direction == gousb.EndpointDirectionIn &&
					epDesc.TransferType == gousb.TransferTypeInterrupt {
					return n, intf.Number, epDesc, nil
				}
			}
		}
	}
	return 0, 0, gousb.EndpointDesc{}, errors.New("no interrupt-IN endpoint found")
}

type usbSource struct {
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	ep   *gousb.InEndpoint
	size int
	raw  applog.ReportLogger
}

func (s *usbSource) ReportSize() int { return s.size }

func (s *usbSource) ReadReport(timeout time.Duration) (calib.Report, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	buf := make([]byte, s.size)
	n, err := s.ep.ReadContext(ctx, buf)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, gousb.ErrorTimeout) {
			return nil, calib.ErrReadTimeout
		}
		return nil, fmt.Errorf("interrupt read: %w", err)
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

func (s *usbSource) Close() error {
	s.intf.Close()
	_ = s.cfg.Close()
	return s.dev.Close()
}
