package pulse

import (
	"context"
	"math/rand"
	"time"

	"github.com/crazybolillo/expodht/internal/dht"
)

// Dummy synthesizes valid capture windows from pseudo-random plausible
// readings, substituting for real hardware in demos and tests.
type Dummy struct {
	rnd *rand.Rand
}

// NewDummy returns a generator seeded with the current time.
func NewDummy() *Dummy {
	return &Dummy{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Capture returns a window encoding a random temperature between 18°C
// and 28°C and a random humidity between 30% and 70%.
func (d *Dummy) Capture(ctx context.Context, _, _ time.Duration) (dht.CaptureWindow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	humidity := 30 + d.rnd.Float64()*40
	temperature := 18 + d.rnd.Float64()*10
	return dht.Synthesize(dht.FrameFor(humidity, temperature)), nil
}
