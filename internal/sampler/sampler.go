// Package sampler drives the sensor read cycle and publishes results.
package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crazybolillo/expodht/internal/dht"
	"github.com/crazybolillo/expodht/internal/metrics"
	"github.com/crazybolillo/expodht/internal/pulse"
	"github.com/crazybolillo/expodht/internal/telemetry"
)

// Capture parameters. The trigger must be held low long enough for the
// sensor to notice (datasheet: at least 1ms, 18ms is safe for every
// DHT variant); the timeout bounds how long one attempt can stall on a
// silent line.
const (
	DefaultTriggerLow     = 18 * time.Millisecond
	DefaultCaptureTimeout = 250 * time.Millisecond
)

// Config carries the sampler's tuning knobs.
type Config struct {
	SensorID       string
	BitThresholdUS int64
	TriggerLow     time.Duration
	CaptureTimeout time.Duration
}

// Sampler owns the read cycle state. It is not safe for concurrent use:
// exactly one goroutine calls Sample, which also guarantees ticks never
// overlap on the shared pin.
type Sampler struct {
	source     pulse.Source
	store      *metrics.Store
	publishers []telemetry.Publisher
	decoder    dht.Decoder
	log        *slog.Logger

	sensorID       string
	triggerLow     time.Duration
	captureTimeout time.Duration

	lastGood    dht.Reading
	hasGood     bool
	consecFails int
}

// New wires a sampler to its collaborators. publishers may be empty.
func New(cfg Config, source pulse.Source, store *metrics.Store, publishers []telemetry.Publisher, log *slog.Logger) *Sampler {
	if cfg.TriggerLow <= 0 {
		cfg.TriggerLow = DefaultTriggerLow
	}
	if cfg.CaptureTimeout <= 0 {
		cfg.CaptureTimeout = DefaultCaptureTimeout
	}
	return &Sampler{
		source:         source,
		store:          store,
		publishers:     publishers,
		decoder:        dht.Decoder{BitThresholdUS: cfg.BitThresholdUS},
		log:            log.With(slog.String("component", "sampler")),
		sensorID:       cfg.SensorID,
		triggerLow:     cfg.TriggerLow,
		captureTimeout: cfg.CaptureTimeout,
	}
}

// Sample performs one trigger+capture+decode cycle. On success the new
// reading replaces the published values; on any capture or decode error
// the error counter moves and the last good reading stays published.
// Every failure consumes exactly one tick; there is no intra-tick retry
// and no failure ceiling, so a noisy line can never permanently disable
// collection.
func (s *Sampler) Sample(ctx context.Context) error {
	w, err := s.source.Capture(ctx, s.triggerLow, s.captureTimeout)
	if err != nil {
		return s.fail(fmt.Errorf("capture: %w", err))
	}

	r, err := s.decoder.Decode(w)
	if err != nil {
		return s.fail(fmt.Errorf("decode: %w", err))
	}
	r.Timestamp = time.Now().UTC()

	s.consecFails = 0
	s.lastGood = r
	s.hasGood = true
	s.store.PublishReading(r)
	s.forward(ctx, r)
	return nil
}

func (s *Sampler) fail(err error) error {
	s.consecFails++
	s.store.RecordError()
	return err
}

// forward pushes the reading to the configured brokers, best effort.
func (s *Sampler) forward(ctx context.Context, r dht.Reading) {
	if len(s.publishers) == 0 {
		return
	}
	sample := telemetry.NewSample(s.sensorID, r)
	for _, p := range s.publishers {
		if err := p.Publish(ctx, sample); err != nil {
			s.log.Warn("telemetry publish failed", slog.Any("err", err))
		}
	}
}

// Run samples immediately and then once per interval until ctx is
// cancelled. Sampling and ticking share this one goroutine, so a slow
// sample simply delays the next tick instead of piling up.
func (s *Sampler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.Sample(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn("sample failed",
				slog.Any("err", err),
				slog.Int("consecutiveFailures", s.consecFails),
			)
		} else {
			s.log.Debug("sample ok",
				slog.Float64("humidity", s.lastGood.Humidity),
				slog.Float64("temperature", s.lastGood.Temperature),
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// LastReading returns the most recent good reading, if any.
func (s *Sampler) LastReading() (dht.Reading, bool) {
	return s.lastGood, s.hasGood
}

// ConsecutiveFailures reports how many samples in a row have failed.
func (s *Sampler) ConsecutiveFailures() int {
	return s.consecFails
}
