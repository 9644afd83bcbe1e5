package calib

import (
	"fmt"
)

// Session accumulates one calibration run: the shared baseline plus a
// capture-or-outcome slot for every logical button, in calibration order.
// A Session is mutated only by Calibrate and is effectively immutable once
// returned.
type Session struct {
	baseline Report
	captures map[Button]*ButtonCapture
	outcomes map[Button]Outcome
}

// NewSession creates an empty session around an acquired baseline.
func NewSession(baseline Report) *Session {
	return &Session{
		baseline: baseline.Clone(),
		captures: make(map[Button]*ButtonCapture, buttonCount),
		outcomes: make(map[Button]Outcome, buttonCount),
	}
}

// Baseline returns a copy of the resting report all diffs are relative to.
func (s *Session) Baseline() Report { return s.baseline.Clone() }

// ReportSize returns the fixed input report length for the session.
func (s *Session) ReportSize() int { return len(s.baseline) }

func (s *Session) record(btn Button, c *ButtonCapture, outcome Outcome) {
	s.outcomes[btn] = outcome
	if c != nil {
		s.captures[btn] = c
	}
}

// Capture returns the recorded capture for a button, if it has one.
func (s *Session) Capture(btn Button) (*ButtonCapture, bool) {
	c, ok := s.captures[btn]
	return c, ok
}

// Outcome returns how the button's capture attempt ended; ok is false for
// buttons the session has not processed.
func (s *Session) Outcome(btn Button) (Outcome, bool) {
	o, ok := s.outcomes[btn]
	return o, ok
}

// Captured returns the buttons with a recorded capture, in calibration order.
func (s *Session) Captured() []Button {
	var out []Button
	for _, btn := range Buttons() {
		if _, ok := s.captures[btn]; ok {
			out = append(out, btn)
		}
	}
	return out
}

// Missing returns the buttons without a capture, in calibration order.
func (s *Session) Missing() []Button {
	var out []Button
	for _, btn := range Buttons() {
		if _, ok := s.captures[btn]; !ok {
			out = append(out, btn)
		}
	}
	return out
}

// Observer receives progress callbacks during Calibrate so the terminal
// layer can prompt the operator without the engine knowing about it. Any
// method may be a no-op.
type Observer interface {
	BaselineEstimated(baseline Report)
	AwaitingButton(btn Button)
	ButtonCaptured(c *ButtonCapture)
	ButtonMissed(btn Button, outcome Outcome)
}

// NopObserver is an Observer that ignores every event.
type NopObserver struct{}

func (NopObserver) BaselineEstimated(Report)      {}
func (NopObserver) AwaitingButton(Button)         {}
func (NopObserver) ButtonCaptured(*ButtonCapture) {}
func (NopObserver) ButtonMissed(Button, Outcome)  {}

// Options bundles the tunables for a full calibration run.
type Options struct {
	Baseline BaselineOptions
	Capture  CaptureOptions
}

// Calibrate runs one complete session: baseline estimation followed by one
// capture attempt per logical button, strictly in order, on a single
// exclusively-owned source. Per-button timeouts and operator skips are
// absorbed into the session; only baseline failure and device I/O errors
// abort the run.
func Calibrate(src Source, interrupt <-chan struct{}, opts Options, obs Observer) (*Session, error) {
	if obs == nil {
		obs = NopObserver{}
	}

	baseline, err := EstimateBaseline(src, opts.Baseline)
	if err != nil {
		return nil, fmt.Errorf("estimate baseline: %w", err)
	}
	obs.BaselineEstimated(baseline)

	session := NewSession(baseline)
	for _, btn := range Buttons() {
		obs.AwaitingButton(btn)
		c, outcome, err := CaptureButton(src, baseline, btn, interrupt, opts.Capture)
		if err != nil {
			return nil, err
		}
		session.record(btn, c, outcome)
		if c != nil {
			obs.ButtonCaptured(c)
		} else {
			obs.ButtonMissed(btn, outcome)
		}
	}
	return session, nil
}
