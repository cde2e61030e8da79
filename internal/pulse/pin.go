package pulse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/crazybolillo/expodht/internal/dht"
)

// maxEdges bounds one capture: response pair, two edges per bit and the
// trailing falling edge.
const maxEdges = 83

// Pin reads capture windows from a physical GPIO pin through periph.io.
type Pin struct {
	pin gpio.PinIO
	log *slog.Logger
}

// OpenPin initializes the host drivers and resolves the pin by number.
// Failure here means the pin capability is absent entirely, which the
// caller treats as fatal, unlike per-attempt capture errors.
func OpenPin(number int, log *slog.Logger) (*Pin, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init gpio host: %w", err)
	}
	name := fmt.Sprintf("GPIO%d", number)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio pin %s not present", name)
	}
	return &Pin{pin: p, log: log.With(slog.String("component", "pulse"), slog.String("pin", name))}, nil
}

// Capture performs one trigger-and-record cycle. The line is held low
// for triggerLow, then switched to input with pull-up; every transition
// is timestamped until maxEdges are collected or timeout passes without
// one. Timestamps are microseconds relative to the release of the
// trigger.
func (p *Pin) Capture(ctx context.Context, triggerLow, timeout time.Duration) (dht.CaptureWindow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := p.pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("%w: drive trigger: %v", dht.ErrHardwareUnavailable, err)
	}
	time.Sleep(triggerLow)

	if err := p.pin.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("%w: release line: %v", dht.ErrHardwareUnavailable, err)
	}

	start := time.Now()
	level := p.pin.Read() == gpio.High
	w := make(dht.CaptureWindow, 0, maxEdges)
	for len(w) < maxEdges {
		if !p.pin.WaitForEdge(timeout) {
			break
		}
		at := time.Since(start).Microseconds()
		l := p.pin.Read() == gpio.High
		if l == level {
			// Missed the paired transition; the edge interrupt fired but
			// the line is back where it was. Nothing usable to record.
			continue
		}
		level = l
		w = append(w, dht.Edge{Level: l, At: at})
	}
	if len(w) < maxEdges {
		p.log.Debug("capture ended early", slog.Int("edges", len(w)))
	}
	return w, nil
}
