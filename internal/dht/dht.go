// Package dht decodes the single-wire pulse protocol spoken by
// DHT22-class humidity/temperature sensors.
package dht

import (
	"errors"
	"time"
)

// Errors returned by the capture and decode path. All of them are
// recoverable: the sampler retries on the next tick.
var (
	// ErrHardwareUnavailable reports that the pin could not be driven or
	// read for this attempt.
	ErrHardwareUnavailable = errors.New("sensor hardware unavailable")
	// ErrResponseMissing reports that the sensor did not answer the
	// trigger with its fixed low/high response pulses.
	ErrResponseMissing = errors.New("sensor response pulses missing")
	// ErrIncompleteFrame reports that fewer than 40 data bits were
	// captured before the window ended.
	ErrIncompleteFrame = errors.New("incomplete data frame")
	// ErrChecksum reports a checksum mismatch on an otherwise complete
	// frame.
	ErrChecksum = errors.New("frame checksum mismatch")
	// ErrOutOfRange reports decoded values outside the sensor's physical
	// operating range, which indicates bit corruption that slipped past
	// the checksum.
	ErrOutOfRange = errors.New("decoded values out of physical range")
)

// Edge is a single level transition observed on the data line. Level is
// the line state after the transition. At is a monotonic timestamp in
// microseconds, relative to the start of the capture window.
type Edge struct {
	Level bool
	At    int64
}

// CaptureWindow is the ordered sequence of edges recorded between a
// trigger pulse and the capture timeout. It is built fresh per sample
// attempt and discarded after decoding.
type CaptureWindow []Edge

// Frame is the 40-bit payload transmitted by the sensor:
// [humidity hi, humidity lo, temperature hi, temperature lo, checksum].
type Frame [5]byte

// Checksum computes the additive checksum over the first four bytes.
func (f Frame) Checksum() byte {
	return f[0] + f[1] + f[2] + f[3]
}

// Valid reports whether the transmitted checksum byte matches.
func (f Frame) Valid() bool {
	return f.Checksum() == f[4]
}

// Reading is one decoded measurement.
type Reading struct {
	Humidity    float64   // relative humidity, percent
	Temperature float64   // degrees Celsius
	Timestamp   time.Time // when the sample was captured
}

// Physical operating range of the sensor. Values outside these bounds
// are rejected even when the checksum holds.
const (
	MinHumidity    = 0.0
	MaxHumidity    = 100.0
	MinTemperature = -40.0
	MaxTemperature = 80.0
)
