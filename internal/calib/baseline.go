package calib

import (
	"errors"
	"fmt"
	"time"
)

// BaselineOptions tune resting-state sampling. Zero values select the
// defaults the original mapper used.
type BaselineOptions struct {
	SampleCount    int           // reads attempted, default 20
	SampleTimeout  time.Duration // per-read timeout, default 50ms
	SampleInterval time.Duration // delay between reads, default 50ms
}

func (o BaselineOptions) withDefaults() BaselineOptions {
	if o.SampleCount <= 0 {
		o.SampleCount = 20
	}
	if o.SampleTimeout <= 0 {
		o.SampleTimeout = 50 * time.Millisecond
	}
	if o.SampleInterval <= 0 {
		o.SampleInterval = 50 * time.Millisecond
	}
	return o
}

// EstimateBaseline samples the source at rest and returns the modal report,
// the exact byte sequence seen most often. Noise samples lose to a strict
// majority; on a frequency tie the first-seen value wins, so the result is
// deterministic for a given read order. Reads that time out are discarded;
// if every read times out the result is ErrNoSignal.
func EstimateBaseline(src Source, opts BaselineOptions) (Report, error) {
	opts = opts.withDefaults()

	counts := make(map[string]int)
	var order []string

	for i := 0; i < opts.SampleCount; i++ {
		rep, err := src.ReadReport(opts.SampleTimeout)
		switch {
		case errors.Is(err, ErrReadTimeout):
			// no data this cycle
		case err != nil:
			return nil, fmt.Errorf("baseline sample: %w", err)
		default:
			key := string(rep)
			if counts[key] == 0 {
				order = append(order, key)
			}
			counts[key]++
		}
		time.Sleep(opts.SampleInterval)
	}

	if len(order) == 0 {
		return nil, ErrNoSignal
	}

	best := order[0]
	for _, key := range order[1:] {
		if counts[key] > counts[best] {
			best = key
		}
	}
	return Report(best), nil
}
