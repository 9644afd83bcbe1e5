package calib_test

import (
	"time"

	"github.com/nuevauno/grub-snes-gamepad/internal/calib"
)

// scriptSource replays a fixed sequence of reads. A nil entry is a read
// timeout; after the script runs out every read times out (or repeats the
// last entry when loop is set).
type scriptSource struct {
	size   int
	script []calib.Report
	loop   bool
	pos    int
	reads  int
	err    error // returned once the script is exhausted, if set
}

func (s *scriptSource) ReadReport(timeout time.Duration) (calib.Report, error) {
	s.reads++
	if s.pos >= len(s.script) {
		if s.err != nil {
			return nil, s.err
		}
		if s.loop && len(s.script) > 0 {
			last := s.script[len(s.script)-1]
			if last == nil {
				return nil, calib.ErrReadTimeout
			}
			return last.Clone(), nil
		}
		return nil, calib.ErrReadTimeout
	}
	rep := s.script[s.pos]
	s.pos++
	if rep == nil {
		return nil, calib.ErrReadTimeout
	}
	return rep.Clone(), nil
}

func (s *scriptSource) ReportSize() int { return s.size }

// fastOptions keeps the polling loops quick enough for unit tests.
func fastBaselineOptions() calib.BaselineOptions {
	return calib.BaselineOptions{
		SampleCount:    20,
		SampleTimeout:  time.Millisecond,
		SampleInterval: time.Microsecond,
	}
}

func fastCaptureOptions() calib.CaptureOptions {
	return calib.CaptureOptions{
		PressTimeout:   100 * time.Millisecond,
		ReleaseTimeout: 100 * time.Millisecond,
		ReadTimeout:    time.Millisecond,
		PollInterval:   time.Microsecond,
	}
}
