// Package mapping defines the persisted controller mapping artifact and
// its JSON/YAML writers.
package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nuevauno/grub-snes-gamepad/internal/calib"
)

// ControllerInfo identifies the controller a mapping belongs to. VID and
// PID are formatted as 0x%04x strings, the spelling the bootloader-side
// tooling expects.
type ControllerInfo struct {
	Name string `json:"name" yaml:"name"`
	VID  string `json:"vid" yaml:"vid"`
	PID  string `json:"pid" yaml:"pid"`
}

// Change is one persisted byte difference.
type Change struct {
	Byte int  `json:"byte" yaml:"byte"`
	From byte `json:"from" yaml:"from"`
	To   byte `json:"to" yaml:"to"`
	Diff byte `json:"diff" yaml:"diff"`
}

// ButtonEntry is the persisted capture for one button.
type ButtonEntry struct {
	Report  string   `json:"report" yaml:"report"`
	Changes []Change `json:"changes" yaml:"changes"`
}

// Mapping is the baseline plus per-button entries. Buttons the session
// could not capture are simply absent.
type Mapping struct {
	Baseline   string                 `json:"baseline" yaml:"baseline"`
	ReportSize int                    `json:"report_size" yaml:"report_size"`
	Buttons    map[string]ButtonEntry `json:"buttons" yaml:"buttons"`
}

// File is the complete persisted artifact.
type File struct {
	Controller ControllerInfo `json:"controller" yaml:"controller"`
	Mapping    Mapping        `json:"mapping" yaml:"mapping"`
}

// FromSession converts a finalized calibration session into the artifact
// for one controller.
func FromSession(name string, vid, pid uint16, s *calib.Session) *File {
	m := Mapping{
		Baseline:   s.Baseline().Hex(),
		ReportSize: s.ReportSize(),
		Buttons:    make(map[string]ButtonEntry),
	}
	for _, btn := range calib.Buttons() {
		c, ok := s.Capture(btn)
		if !ok {
			continue
		}
		entry := ButtonEntry{Report: c.Report.Hex()}
		for _, d := range c.Diffs {
			entry.Changes = append(entry.Changes, Change{
				Byte: d.Index,
				From: d.From,
				To:   d.To,
				Diff: d.Mask(),
			})
		}
		m.Buttons[btn.Key()] = entry
	}

	return &File{
		Controller: ControllerInfo{
			Name: name,
			VID:  fmt.Sprintf("0x%04x", vid),
			PID:  fmt.Sprintf("0x%04x", pid),
		},
		Mapping: m,
	}
}

// FileName returns the artifact file name for the given format, derived
// from the controller's VID/PID strings.
func (f *File) FileName(format string) string {
	ext := "json"
	if format == "yaml" || format == "yml" {
		ext = "yaml"
	}
	return fmt.Sprintf("controller_%s_%s.%s",
		strings.TrimPrefix(f.Controller.VID, "0x"),
		strings.TrimPrefix(f.Controller.PID, "0x"),
		ext)
}

// Write persists the artifact under dir in the given format and returns
// the full path written.
func (f *File) Write(dir, format string) (string, error) {
	var data []byte
	var err error
	switch format {
	case "yaml", "yml":
		data, err = yaml.Marshal(f)
	case "json", "":
		data, err = json.MarshalIndent(f, "", "  ")
	default:
		return "", fmt.Errorf("unsupported mapping format: %s", format)
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, f.FileName(format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
