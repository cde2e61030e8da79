// Package telemetry forwards good readings to external brokers. The
// forwarding is best effort: a failed publish is logged by the caller
// and never affects sampling or the exported metrics.
package telemetry

import (
	"context"
	"time"

	"github.com/crazybolillo/expodht/internal/dht"
)

// Sample is the wire payload for one forwarded reading.
type Sample struct {
	SensorID     string    `json:"sensorId"`
	Timestamp    time.Time `json:"timestamp"`
	TemperatureC float64   `json:"temperatureC"`
	HumidityPct  float64   `json:"humidityPct"`
}

// NewSample pairs a reading with the sensor identity.
func NewSample(sensorID string, r dht.Reading) Sample {
	return Sample{
		SensorID:     sensorID,
		Timestamp:    r.Timestamp,
		TemperatureC: r.Temperature,
		HumidityPct:  r.Humidity,
	}
}

// Publisher delivers samples to one broker.
type Publisher interface {
	Publish(ctx context.Context, s Sample) error
	Close() error
}
