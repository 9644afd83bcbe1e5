package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// ReportLogger records every raw HID input report read from the controller,
// for debugging mappings that don't behave in the bootloader.
type ReportLogger interface {
	Report(data []byte)
}

type reportLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewReportLogger creates a ReportLogger writing one hex-dump line per
// report. A nil writer yields a no-op logger.
func NewReportLogger(w io.Writer) ReportLogger {
	return &reportLogger{w: w}
}

func (r *reportLogger) Report(data []byte) {
	if r.w == nil || len(data) == 0 {
		return
	}

	var hexbuf bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i, b := range data {
		if i > 0 {
			hexbuf.WriteByte(' ')
		}
		hexbuf.WriteByte(hexdigits[b>>4])
		hexbuf.WriteByte(hexdigits[b&0x0f])
	}

	line := fmt.Sprintf("%s report: %d bytes, hex: %s\n",
		time.Now().Format("2006/01/02 15:04:05.000"),
		len(data),
		hexbuf.String())

	r.mu.Lock()
	_, _ = r.w.Write([]byte(line))
	r.mu.Unlock()
}
