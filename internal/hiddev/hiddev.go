// Package hiddev provisions an open, readable HID input stream for a
// chosen game controller. Two backends exist: libusb (interrupt-IN reads
// on a claimed interface, the way the original mapper worked) and hidraw
// for systems where the kernel keeps the interface.
package hiddev

import (
	"io"

	"github.com/nuevauno/grub-snes-gamepad/internal/calib"
)

// Controller describes one candidate device found during enumeration.
type Controller struct {
	VID   uint16
	PID   uint16
	Name  string
	Known bool
	Path  string // hidraw backend only
}

// Source is an open input-report stream. Closing it releases the device
// handle; a source serves exactly one calibration session.
type Source interface {
	calib.Source
	io.Closer
}

// Backend enumerates controllers and opens report sources.
type Backend interface {
	List() ([]Controller, error)
	Open(c Controller) (Source, error)
	Close() error
}

type deviceID struct{ vid, pid uint16 }

// knownControllers lists SNES-style pads the mapper recognizes by ID.
var knownControllers = map[deviceID]string{
	{0x0810, 0xe501}: "Generic Chinese SNES",
	{0x0079, 0x0011}: "DragonRise Generic",
	{0x0583, 0x2060}: "iBuffalo SNES",
	{0x2dc8, 0x9018}: "8BitDo SN30",
	{0x12bd, 0xd015}: "Generic 2-pack SNES",
	{0x1a34, 0x0802}: "USB Gamepad",
	{0x0810, 0x0001}: "Generic USB Gamepad",
	{0x0079, 0x0006}: "DragonRise Gamepad",
}

// KnownController reports whether the VID/PID pair is in the known-pad
// table, and its display name if so.
func KnownController(vid, pid uint16) (string, bool) {
	name, ok := knownControllers[deviceID{vid, pid}]
	return name, ok
}
