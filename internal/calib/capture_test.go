package calib_test

import (
	"errors"
	"testing"
	"time"

	"github.com/nuevauno/grub-snes-gamepad/internal/calib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureButtonFirstDiffConfirms(t *testing.T) {
	baseline := calib.Report{0xff, 0xff}
	pressed := calib.Report{0x7f, 0xff}

	// a few baseline reads (noise) before the press shows up
	src := &scriptSource{
		size:   2,
		script: []calib.Report{baseline, baseline, baseline, pressed, pressed, baseline},
	}

	c, outcome, err := calib.CaptureButton(src, baseline, calib.ButtonA, nil, fastCaptureOptions())
	require.NoError(t, err)
	assert.Equal(t, calib.OutcomeCaptured, outcome)
	require.NotNil(t, c)
	assert.Equal(t, calib.ButtonA, c.Button)
	assert.Equal(t, pressed, c.Report)
	assert.Equal(t, []calib.ByteDiff{{Index: 0, From: 0xff, To: 0x7f}}, c.Diffs)
}

func TestCaptureButtonPressTimeout(t *testing.T) {
	baseline := calib.Report{0xff, 0xff}
	src := &scriptSource{size: 2, script: []calib.Report{baseline}, loop: true}

	opts := fastCaptureOptions()
	opts.PressTimeout = 50 * time.Millisecond

	start := time.Now()
	c, outcome, err := calib.CaptureButton(src, baseline, calib.ButtonB, nil, opts)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Equal(t, calib.OutcomeTimedOut, outcome)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	// bounded wait: no more than one extra poll cycle past the deadline
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestCaptureButtonPayloadImmutableDuringRelease(t *testing.T) {
	baseline := calib.Report{0x00, 0x00}
	pressed := calib.Report{0x00, 0x10}
	wobble := calib.Report{0x00, 0x30} // different non-baseline state mid-release

	src := &scriptSource{
		size:   2,
		script: []calib.Report{pressed, wobble, wobble, baseline},
	}

	c, outcome, err := calib.CaptureButton(src, baseline, calib.ButtonX, nil, fastCaptureOptions())
	require.NoError(t, err)
	assert.Equal(t, calib.OutcomeCaptured, outcome)
	require.NotNil(t, c)
	// the payload reflects the confirming read, not anything seen later
	assert.Equal(t, pressed, c.Report)
	assert.Equal(t, []calib.ByteDiff{{Index: 1, From: 0x00, To: 0x10}}, c.Diffs)
}

func TestCaptureButtonReleaseTimeout(t *testing.T) {
	baseline := calib.Report{0x00}
	stuck := calib.Report{0x01}
	src := &scriptSource{size: 1, script: []calib.Report{stuck}, loop: true}

	opts := fastCaptureOptions()
	opts.ReleaseTimeout = 30 * time.Millisecond

	c, outcome, err := calib.CaptureButton(src, baseline, calib.ButtonL, nil, opts)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Equal(t, calib.OutcomeTimedOut, outcome)
}

func TestCaptureButtonSkip(t *testing.T) {
	baseline := calib.Report{0x00}
	src := &scriptSource{size: 1, script: []calib.Report{baseline}, loop: true}

	interrupt := make(chan struct{}, 1)
	interrupt <- struct{}{}

	c, outcome, err := calib.CaptureButton(src, baseline, calib.ButtonY, interrupt, fastCaptureOptions())
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Equal(t, calib.OutcomeSkipped, outcome)
}

func TestCaptureButtonDeviceError(t *testing.T) {
	baseline := calib.Report{0x00}
	ioErr := errors.New("endpoint stalled")
	src := &scriptSource{size: 1, err: ioErr}

	_, _, err := calib.CaptureButton(src, baseline, calib.ButtonR, nil, fastCaptureOptions())
	assert.ErrorIs(t, err, ioErr)
}

func TestCaptureButtonSizeMismatchIsFatal(t *testing.T) {
	baseline := calib.Report{0x00, 0x00}
	src := &scriptSource{size: 2, script: []calib.Report{{0x01}}}

	_, _, err := calib.CaptureButton(src, baseline, calib.ButtonA, nil, fastCaptureOptions())
	assert.ErrorIs(t, err, calib.ErrSizeMismatch)
}
