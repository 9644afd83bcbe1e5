// Package calib implements the report-diff calibration engine: baseline
// estimation over raw HID input reports, byte-level change detection, and
// the per-button capture state machine that together produce a controller
// mapping session.
package calib

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrSizeMismatch reports two Reports of different length being diffed.
// The report source yields fixed-size reports for one device, so hitting
// this mid-session is a programming error, not an operator condition.
var ErrSizeMismatch = errors.New("report size mismatch")

// Report is one raw HID input report. Reports from the same device within
// one session always have the same length.
type Report []byte

// Clone returns an independent copy of the report.
func (r Report) Clone() Report {
	out := make(Report, len(r))
	copy(out, r)
	return out
}

// Equal reports whether two reports are byte-identical.
func (r Report) Equal(other Report) bool {
	return bytes.Equal(r, other)
}

// Hex returns the report as a lowercase hex string.
func (r Report) Hex() string {
	return hex.EncodeToString(r)
}

// ByteDiff describes a single byte that changed relative to the baseline.
type ByteDiff struct {
	Index int
	From  byte
	To    byte
}

// Mask returns the XOR of the resting and pressed values, the bit pattern
// the bootloader driver tests against.
func (d ByteDiff) Mask() byte { return d.From ^ d.To }

// Diff compares a candidate report against the baseline and returns the
// changed bytes in ascending index order. The result is empty iff the two
// reports are identical.
func Diff(baseline, candidate Report) ([]ByteDiff, error) {
	if len(baseline) != len(candidate) {
		return nil, fmt.Errorf("%w: baseline %d bytes, candidate %d bytes",
			ErrSizeMismatch, len(baseline), len(candidate))
	}
	var diffs []ByteDiff
	for i := range baseline {
		if baseline[i] != candidate[i] {
			diffs = append(diffs, ByteDiff{Index: i, From: baseline[i], To: candidate[i]})
		}
	}
	return diffs, nil
}

// ApplyDiffs replays a diff set over the baseline, reconstructing the
// report the diffs were computed from.
func ApplyDiffs(baseline Report, diffs []ByteDiff) Report {
	out := baseline.Clone()
	for _, d := range diffs {
		if d.Index >= 0 && d.Index < len(out) {
			out[d.Index] = d.To
		}
	}
	return out
}
