package sampler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/crazybolillo/expodht/internal/dht"
	"github.com/crazybolillo/expodht/internal/metrics"
	"github.com/crazybolillo/expodht/internal/telemetry"
)

// scriptedSource replays a fixed sequence of capture outcomes.
type scriptedSource struct {
	windows []dht.CaptureWindow
	errs    []error
	calls   int
}

func (s *scriptedSource) Capture(context.Context, time.Duration, time.Duration) (dht.CaptureWindow, error) {
	i := s.calls
	s.calls++
	if i >= len(s.windows) {
		i = len(s.windows) - 1
	}
	return s.windows[i], s.errs[i]
}

type recordingPublisher struct {
	samples []telemetry.Sample
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, s telemetry.Sample) error {
	p.samples = append(p.samples, s)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSampleSuccessPublishes(t *testing.T) {
	src := &scriptedSource{
		windows: []dht.CaptureWindow{dht.Synthesize(dht.FrameFor(50.0, 26.0))},
		errs:    []error{nil},
	}
	store := metrics.NewStore()
	pub := &recordingPublisher{}
	s := New(Config{SensorID: "dht22-test"}, src, store, []telemetry.Publisher{pub}, testLogger())

	if err := s.Sample(context.Background()); err != nil {
		t.Fatalf("Sample error: %v", err)
	}

	snap := store.Snapshot()
	if !snap.HasReading || snap.Humidity != 50.0 || snap.Temperature != 26.0 {
		t.Fatalf("store not updated: %+v", snap)
	}
	if snap.ReadErrorsTotal != 0 {
		t.Fatalf("error counter moved on success: %d", snap.ReadErrorsTotal)
	}
	if s.ConsecutiveFailures() != 0 {
		t.Fatalf("expected zero consecutive failures, got %d", s.ConsecutiveFailures())
	}
	if r, ok := s.LastReading(); !ok || r.Timestamp.IsZero() {
		t.Fatalf("last reading missing or unstamped: %+v ok=%v", r, ok)
	}
	if len(pub.samples) != 1 || pub.samples[0].SensorID != "dht22-test" {
		t.Fatalf("telemetry not forwarded: %+v", pub.samples)
	}
	if pub.samples[0].HumidityPct != 50.0 || pub.samples[0].TemperatureC != 26.0 {
		t.Fatalf("forwarded sample mismatch: %+v", pub.samples[0])
	}
}

func TestSampleFailurePreservesLastGood(t *testing.T) {
	good := dht.Synthesize(dht.FrameFor(50.0, 26.0))
	bad := good[:10] // truncated: decodes to ErrIncompleteFrame
	src := &scriptedSource{
		windows: []dht.CaptureWindow{good, bad, nil, bad},
		errs:    []error{nil, nil, dht.ErrHardwareUnavailable, nil},
	}
	store := metrics.NewStore()
	s := New(Config{}, src, store, nil, testLogger())

	ctx := context.Background()
	if err := s.Sample(ctx); err != nil {
		t.Fatalf("first sample: %v", err)
	}

	if err := s.Sample(ctx); !errors.Is(err, dht.ErrIncompleteFrame) {
		t.Fatalf("expected ErrIncompleteFrame, got %v", err)
	}
	if err := s.Sample(ctx); !errors.Is(err, dht.ErrHardwareUnavailable) {
		t.Fatalf("expected ErrHardwareUnavailable, got %v", err)
	}
	if err := s.Sample(ctx); !errors.Is(err, dht.ErrIncompleteFrame) {
		t.Fatalf("expected ErrIncompleteFrame, got %v", err)
	}

	if got := s.ConsecutiveFailures(); got != 3 {
		t.Fatalf("expected 3 consecutive failures, got %d", got)
	}
	snap := store.Snapshot()
	if snap.ReadErrorsTotal != 3 {
		t.Fatalf("expected 3 recorded errors, got %d", snap.ReadErrorsTotal)
	}
	if snap.Humidity != 50.0 || snap.Temperature != 26.0 {
		t.Fatalf("failures overwrote published reading: %+v", snap)
	}
	if r, ok := s.LastReading(); !ok || r.Humidity != 50.0 {
		t.Fatalf("last good reading lost: %+v ok=%v", r, ok)
	}
}

func TestSampleRecoversAfterFailures(t *testing.T) {
	good := dht.Synthesize(dht.FrameFor(40.0, 20.0))
	src := &scriptedSource{
		windows: []dht.CaptureWindow{nil, good},
		errs:    []error{dht.ErrHardwareUnavailable, nil},
	}
	store := metrics.NewStore()
	s := New(Config{}, src, store, nil, testLogger())

	ctx := context.Background()
	if err := s.Sample(ctx); err == nil {
		t.Fatal("expected first sample to fail")
	}
	if err := s.Sample(ctx); err != nil {
		t.Fatalf("second sample: %v", err)
	}

	if got := s.ConsecutiveFailures(); got != 0 {
		t.Fatalf("consecutive failures not reset: %d", got)
	}
	snap := store.Snapshot()
	if snap.ReadErrorsTotal != 1 || snap.Humidity != 40.0 {
		t.Fatalf("unexpected snapshot after recovery: %+v", snap)
	}
}

func TestPublisherErrorDoesNotFailSample(t *testing.T) {
	src := &scriptedSource{
		windows: []dht.CaptureWindow{dht.Synthesize(dht.FrameFor(50.0, 26.0))},
		errs:    []error{nil},
	}
	store := metrics.NewStore()
	pub := &recordingPublisher{err: errors.New("broker down")}
	s := New(Config{SensorID: "dht22-test"}, src, store, []telemetry.Publisher{pub}, testLogger())

	if err := s.Sample(context.Background()); err != nil {
		t.Fatalf("Sample must not fail on telemetry errors: %v", err)
	}
	if snap := store.Snapshot(); snap.ReadErrorsTotal != 0 {
		t.Fatalf("telemetry failure counted as read error: %+v", snap)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	src := &scriptedSource{
		windows: []dht.CaptureWindow{dht.Synthesize(dht.FrameFor(50.0, 26.0))},
		errs:    []error{nil},
	}
	s := New(Config{}, src, metrics.NewStore(), nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if src.calls < 2 {
		t.Fatalf("expected repeated sampling, got %d calls", src.calls)
	}
}
