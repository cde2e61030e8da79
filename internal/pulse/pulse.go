// Package pulse provides sources of capture windows: the physical GPIO
// pin and a synthetic generator for dummy mode.
package pulse

import (
	"context"
	"time"

	"github.com/crazybolillo/expodht/internal/dht"
)

// Source yields one capture window per call. Capture pulls the line low
// for triggerLow, releases it, then records level transitions until a
// full frame's worth of edges has been seen or timeout elapses with no
// transition. Errors wrap dht.ErrHardwareUnavailable when the pin cannot
// be driven for this attempt.
type Source interface {
	Capture(ctx context.Context, triggerLow, timeout time.Duration) (dht.CaptureWindow, error)
}
