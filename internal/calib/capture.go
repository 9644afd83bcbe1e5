package calib

import (
	"errors"
	"fmt"
	"time"
)

// Outcome classifies how one button's capture attempt ended.
type Outcome int

const (
	// OutcomeCaptured means a press was confirmed and recorded.
	OutcomeCaptured Outcome = iota
	// OutcomeTimedOut means no press (or no release) arrived in time.
	OutcomeTimedOut
	// OutcomeSkipped means the operator interrupted the wait.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCaptured:
		return "captured"
	case OutcomeTimedOut:
		return "timed out"
	case OutcomeSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// CaptureOptions tune the per-button state machine.
type CaptureOptions struct {
	// PressTimeout bounds the wait for the first non-baseline report.
	PressTimeout time.Duration // default 30s
	// ReleaseTimeout bounds the wait for the pad to return to baseline
	// after a press was confirmed. A negative value waits forever, which
	// matches the original mapper but hangs on a stuck switch.
	ReleaseTimeout time.Duration // default 30s
	// ReadTimeout is the per-read timeout while polling.
	ReadTimeout time.Duration // default 50ms
	// PollInterval is the sleep between polls, to avoid busy-spinning.
	PollInterval time.Duration // default 10ms
}

func (o CaptureOptions) withDefaults() CaptureOptions {
	if o.PressTimeout <= 0 {
		o.PressTimeout = 30 * time.Second
	}
	if o.ReleaseTimeout == 0 {
		o.ReleaseTimeout = 30 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 50 * time.Millisecond
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 10 * time.Millisecond
	}
	return o
}

// ButtonCapture records what one confirmed press looked like on the wire.
// The payload is fixed the moment the press is confirmed; release handling
// never touches it.
type ButtonCapture struct {
	Button Button
	Report Report
	Diffs  []ByteDiff
}

// CaptureButton runs the wait-for-press, confirm, wait-for-release cycle
// for one logical button. The first read that differs from the baseline
// confirms the press and its diff set becomes the capture payload. A nil
// capture with OutcomeTimedOut or OutcomeSkipped is not an error: the
// session records the button as unmapped and moves on. Only device I/O
// failures are returned as errors.
//
// The interrupt channel is checked at loop boundaries only; one received
// value skips the button currently being waited on.
func CaptureButton(src Source, baseline Report, btn Button, interrupt <-chan struct{}, opts CaptureOptions) (*ButtonCapture, Outcome, error) {
	opts = opts.withDefaults()

	pressDeadline := time.Now().Add(opts.PressTimeout)
	for {
		select {
		case <-interrupt:
			return nil, OutcomeSkipped, nil
		default:
		}
		if time.Now().After(pressDeadline) {
			return nil, OutcomeTimedOut, nil
		}

		rep, err := src.ReadReport(opts.ReadTimeout)
		if errors.Is(err, ErrReadTimeout) {
			continue
		}
		if err != nil {
			return nil, OutcomeTimedOut, fmt.Errorf("await press %s: %w", btn, err)
		}

		diffs, err := Diff(baseline, rep)
		if err != nil {
			return nil, OutcomeTimedOut, err
		}
		if len(diffs) == 0 {
			time.Sleep(opts.PollInterval)
			continue
		}

		press := &ButtonCapture{Button: btn, Report: rep.Clone(), Diffs: diffs}
		return awaitRelease(src, baseline, press, interrupt, opts)
	}
}

func awaitRelease(src Source, baseline Report, press *ButtonCapture, interrupt <-chan struct{}, opts CaptureOptions) (*ButtonCapture, Outcome, error) {
	var deadline time.Time
	if opts.ReleaseTimeout > 0 {
		deadline = time.Now().Add(opts.ReleaseTimeout)
	}

	for {
		select {
		case <-interrupt:
			return nil, OutcomeSkipped, nil
		default:
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, OutcomeTimedOut, nil
		}

		rep, err := src.ReadReport(opts.ReadTimeout)
		if errors.Is(err, ErrReadTimeout) {
			continue
		}
		if err != nil {
			return nil, OutcomeTimedOut, fmt.Errorf("await release %s: %w", press.Button, err)
		}
		if rep.Equal(baseline) {
			return press, OutcomeCaptured, nil
		}
		time.Sleep(opts.PollInterval)
	}
}
