package calib

import (
	"errors"
	"time"
)

// ErrReadTimeout is returned by a Source when no report arrived within the
// read timeout. It means "no data right now", not a device failure.
var ErrReadTimeout = errors.New("report read timed out")

// ErrNoSignal is returned by EstimateBaseline when not a single report
// could be read during the sampling window.
var ErrNoSignal = errors.New("no reports readable from controller")

// Source yields raw input reports from one exclusively-owned controller
// handle. ReadReport blocks for at most the given timeout and returns
// ErrReadTimeout when nothing arrived; any other error is a device I/O
// failure and aborts the session. ReportSize is fixed for the lifetime of
// the source.
type Source interface {
	ReadReport(timeout time.Duration) (Report, error)
	ReportSize() int
}
