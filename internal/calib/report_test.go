package calib_test

import (
	"testing"

	"github.com/nuevauno/grub-snes-gamepad/internal/calib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	type testCase struct {
		name      string
		baseline  calib.Report
		candidate calib.Report
		expected  []calib.ByteDiff
	}

	cases := []testCase{
		{
			name:      "identical reports yield no diffs",
			baseline:  calib.Report{0x7f, 0x7f, 0x00, 0x00},
			candidate: calib.Report{0x7f, 0x7f, 0x00, 0x00},
			expected:  nil,
		},
		{
			name:      "single byte change",
			baseline:  calib.Report{0xff, 0xff},
			candidate: calib.Report{0x7f, 0xff},
			expected: []calib.ByteDiff{
				{Index: 0, From: 0xff, To: 0x7f},
			},
		},
		{
			name:      "multiple changes in ascending index order",
			baseline:  calib.Report{0x00, 0x80, 0x00, 0x80},
			candidate: calib.Report{0x01, 0x80, 0xff, 0x00},
			expected: []calib.ByteDiff{
				{Index: 0, From: 0x00, To: 0x01},
				{Index: 2, From: 0x00, To: 0xff},
				{Index: 3, From: 0x80, To: 0x00},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			diffs, err := calib.Diff(tc.baseline, tc.candidate)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, diffs)
		})
	}
}

func TestDiffSizeMismatch(t *testing.T) {
	_, err := calib.Diff(calib.Report{0x00}, calib.Report{0x00, 0x00})
	assert.ErrorIs(t, err, calib.ErrSizeMismatch)
}

func TestDiffReflexivity(t *testing.T) {
	reports := []calib.Report{
		{},
		{0x00},
		{0xff, 0x7f, 0x80, 0x00, 0x0f, 0xf0, 0x01, 0xfe},
	}
	for _, r := range reports {
		diffs, err := calib.Diff(r, r)
		require.NoError(t, err)
		assert.Empty(t, diffs)
	}
}

func TestApplyDiffsRoundTrip(t *testing.T) {
	baseline := calib.Report{0x7f, 0x7f, 0x00, 0x00, 0x0f, 0x00, 0x00, 0xc0}
	candidate := calib.Report{0x7f, 0x00, 0x00, 0xff, 0x0f, 0x10, 0x00, 0xc0}

	diffs, err := calib.Diff(baseline, candidate)
	require.NoError(t, err)
	require.NotEmpty(t, diffs)

	rebuilt := calib.ApplyDiffs(baseline, diffs)
	assert.Equal(t, candidate, rebuilt)
	// the input baseline must not be mutated by the replay
	assert.Equal(t, calib.Report{0x7f, 0x7f, 0x00, 0x00, 0x0f, 0x00, 0x00, 0xc0}, baseline)
}

func TestByteDiffMask(t *testing.T) {
	d := calib.ByteDiff{Index: 3, From: 0xff, To: 0x7f}
	assert.Equal(t, byte(0x80), d.Mask())
}

func TestButtonOrderAndKeys(t *testing.T) {
	buttons := calib.Buttons()
	require.Len(t, buttons, 12)

	expectedKeys := []string{
		"dpad_up", "dpad_down", "dpad_left", "dpad_right",
		"btn_a", "btn_b", "btn_x", "btn_y",
		"btn_start", "btn_select", "btn_l", "btn_r",
	}
	for i, btn := range buttons {
		assert.Equal(t, expectedKeys[i], btn.Key())
		assert.NotEmpty(t, btn.Display())
	}
}
