package dht

import "fmt"

// DefaultBitThresholdUS is the high-pulse cutoff separating a 0 bit from
// a 1 bit. The sensor transmits roughly 26µs highs for 0 and 70µs for 1;
// the exact cutoff is hardware-calibration-dependent, so it stays
// configurable rather than hardcoded at call sites.
const DefaultBitThresholdUS = 50

// frameBits is the number of data bits in one transmission.
const frameBits = 40

// Decoder turns a capture window into a Reading. It is a pure function
// of its input: no clocks, no hardware, no state.
type Decoder struct {
	// BitThresholdUS is the single fixed microsecond cutoff applied
	// uniformly to every high pulse: below it a bit decodes as 0, at or
	// above it as 1. Zero means DefaultBitThresholdUS.
	BitThresholdUS int64
}

// Decode reconstructs the 40-bit frame from w, validates its checksum
// and converts it to a Reading. The Reading's Timestamp is left zero;
// the caller stamps it.
func (d Decoder) Decode(w CaptureWindow) (Reading, error) {
	threshold := d.BitThresholdUS
	if threshold <= 0 {
		threshold = DefaultBitThresholdUS
	}

	// The sensor acknowledges the trigger with one low pulse and one
	// high pulse before any data: a falling edge followed by a rising
	// edge.
	if len(w) < 2 || w[0].Level || !w[1].Level {
		return Reading{}, ErrResponseMissing
	}
	data := w[2:]

	// Each bit contributes a falling edge (start of the fixed low
	// separator) and a rising edge (start of the high pulse); the high
	// pulse ends at the following falling edge, so the last bit needs
	// one trailing edge.
	if len(data) < 2*frameBits+1 {
		return Reading{}, fmt.Errorf("%w: %d bits captured", ErrIncompleteFrame, len(data)/2)
	}

	var frame Frame
	for bit := 0; bit < frameBits; bit++ {
		low, high, end := data[2*bit], data[2*bit+1], data[2*bit+2]
		if low.Level || !high.Level || end.Level {
			return Reading{}, fmt.Errorf("%w: malformed edges at bit %d", ErrIncompleteFrame, bit)
		}
		if end.At-high.At >= threshold {
			frame[bit/8] |= 1 << (7 - bit%8)
		}
	}

	return frame.Reading()
}

// Reading converts a complete frame into physical units. Byte layout is
// big-endian 16-bit humidity and temperature in tenths; bit 7 of the
// temperature high byte is the sign.
func (f Frame) Reading() (Reading, error) {
	if !f.Valid() {
		return Reading{}, fmt.Errorf("%w: got %#02x want %#02x", ErrChecksum, f[4], f.Checksum())
	}

	humidity := float64(uint16(f[0])<<8|uint16(f[1])) / 10

	raw := uint16(f[2])<<8 | uint16(f[3])
	temperature := float64(raw&0x7fff) / 10
	if raw&0x8000 != 0 {
		temperature = -temperature
	}

	if humidity < MinHumidity || humidity > MaxHumidity ||
		temperature < MinTemperature || temperature > MaxTemperature {
		return Reading{}, fmt.Errorf("%w: humidity=%.1f temperature=%.1f", ErrOutOfRange, humidity, temperature)
	}

	return Reading{Humidity: humidity, Temperature: temperature}, nil
}
