package mapping_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nuevauno/grub-snes-gamepad/internal/calib"
	"github.com/nuevauno/grub-snes-gamepad/internal/mapping"
)

// replaySource feeds canned reads to the calibration engine: a baseline
// segment, then a per-button segment selected by the engine's observer
// callbacks. Buttons without a segment see nothing but timeouts.
type replaySource struct {
	calib.NopObserver
	size     int
	baseline []calib.Report
	segments map[calib.Button][]calib.Report
	current  []calib.Report
}

func (s *replaySource) AwaitingButton(btn calib.Button) {
	s.current = s.segments[btn]
}

func (s *replaySource) ReadReport(timeout time.Duration) (calib.Report, error) {
	if len(s.baseline) > 0 {
		rep := s.baseline[0]
		s.baseline = s.baseline[1:]
		return rep.Clone(), nil
	}
	if len(s.current) == 0 {
		return nil, calib.ErrReadTimeout
	}
	rep := s.current[0]
	s.current = s.current[1:]
	return rep.Clone(), nil
}

func (s *replaySource) ReportSize() int { return s.size }

func quickOptions() calib.Options {
	return calib.Options{
		Baseline: calib.BaselineOptions{
			SampleCount:    3,
			SampleTimeout:  time.Millisecond,
			SampleInterval: time.Microsecond,
		},
		Capture: calib.CaptureOptions{
			PressTimeout:   20 * time.Millisecond,
			ReleaseTimeout: 20 * time.Millisecond,
			ReadTimeout:    time.Millisecond,
			PollInterval:   time.Microsecond,
		},
	}
}

// calibrateTwoButtons produces a session where only A and Start captured.
func calibrateTwoButtons(t *testing.T) *calib.Session {
	t.Helper()
	rest := calib.Report{0x7f, 0x7f, 0x00, 0x00}
	pressA := calib.Report{0x7f, 0x7f, 0x2f, 0x00}
	pressStart := calib.Report{0x7f, 0x7f, 0x00, 0x20}

	src := &replaySource{
		size:     4,
		baseline: []calib.Report{rest, rest, rest},
		segments: map[calib.Button][]calib.Report{
			calib.ButtonA:     {pressA, rest},
			calib.ButtonStart: {pressStart, rest},
		},
	}
	session, err := calib.Calibrate(src, nil, quickOptions(), src)
	require.NoError(t, err)
	return session
}

func TestFromSession(t *testing.T) {
	session := calibrateTwoButtons(t)
	f := mapping.FromSession("Generic Chinese SNES", 0x0810, 0xe501, session)

	assert.Equal(t, "Generic Chinese SNES", f.Controller.Name)
	assert.Equal(t, "0x0810", f.Controller.VID)
	assert.Equal(t, "0xe501", f.Controller.PID)
	assert.Equal(t, "7f7f0000", f.Mapping.Baseline)
	assert.Equal(t, 4, f.Mapping.ReportSize)
	assert.Len(t, f.Mapping.Buttons, 2)

	a, ok := f.Mapping.Buttons["btn_a"]
	require.True(t, ok)
	assert.Equal(t, "7f7f2f00", a.Report)
	require.Len(t, a.Changes, 1)
	assert.Equal(t, mapping.Change{Byte: 2, From: 0x00, To: 0x2f, Diff: 0x2f}, a.Changes[0])

	start, ok := f.Mapping.Buttons["btn_start"]
	require.True(t, ok)
	require.Len(t, start.Changes, 1)
	assert.Equal(t, mapping.Change{Byte: 3, From: 0x00, To: 0x20, Diff: 0x20}, start.Changes[0])

	_, ok = f.Mapping.Buttons["btn_b"]
	assert.False(t, ok, "unmapped buttons must be absent, not empty")
}

func TestWriteJSON(t *testing.T) {
	session := calibrateTwoButtons(t)
	f := mapping.FromSession("8BitDo SN30", 0x2dc8, 0x9018, session)

	dir := t.TempDir()
	path, err := f.Write(dir, "json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "controller_2dc8_9018.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded mapping.File
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, f.Controller, decoded.Controller)
	assert.Equal(t, f.Mapping, decoded.Mapping)
}

func TestWriteYAML(t *testing.T) {
	session := calibrateTwoButtons(t)
	f := mapping.FromSession("USB Gamepad", 0x1a34, 0x0802, session)

	dir := t.TempDir()
	path, err := f.Write(dir, "yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "controller_1a34_0802.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded mapping.File
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, f.Mapping, decoded.Mapping)
}

func TestWriteUnknownFormat(t *testing.T) {
	session := calibrateTwoButtons(t)
	f := mapping.FromSession("pad", 0x0079, 0x0011, session)
	_, err := f.Write(t.TempDir(), "xml")
	assert.Error(t, err)
}
