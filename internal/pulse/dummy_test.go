package pulse

import (
	"context"
	"testing"
	"time"

	"github.com/crazybolillo/expodht/internal/dht"
)

func TestDummyProducesValidWindows(t *testing.T) {
	d := NewDummy()
	dec := dht.Decoder{}

	for i := 0; i < 200; i++ {
		w, err := d.Capture(context.Background(), 0, 0)
		if err != nil {
			t.Fatalf("capture %d: %v", i, err)
		}
		r, err := dec.Decode(w)
		if err != nil {
			t.Fatalf("capture %d did not decode: %v", i, err)
		}
		if r.Humidity < 30 || r.Humidity > 70 {
			t.Fatalf("capture %d: humidity %.1f outside generator band", i, r.Humidity)
		}
		if r.Temperature < 18 || r.Temperature > 28 {
			t.Fatalf("capture %d: temperature %.1f outside generator band", i, r.Temperature)
		}
	}
}

func TestDummyHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewDummy().Capture(ctx, time.Millisecond, time.Second); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
