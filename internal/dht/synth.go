package dht

import "math"

// Nominal protocol timings in microseconds, taken from the DHT22
// datasheet. Synthesized windows use these; real hardware jitters around
// them, which is why decoding thresholds instead of matching exactly.
const (
	responseLowUS  = 80
	responseHighUS = 80
	bitLowUS       = 50
	bit0HighUS     = 26
	bit1HighUS     = 70
)

// FrameFor builds the frame a sensor would transmit for the given
// values, quantized to the protocol's 0.1 resolution.
func FrameFor(humidity, temperature float64) Frame {
	h := uint16(math.Round(humidity * 10))

	t := uint16(math.Round(math.Abs(temperature) * 10))
	if temperature < 0 {
		t |= 0x8000
	}

	var f Frame
	f[0] = byte(h >> 8)
	f[1] = byte(h)
	f[2] = byte(t >> 8)
	f[3] = byte(t)
	f[4] = f.Checksum()
	return f
}

// Synthesize renders f as the edge sequence a healthy sensor produces:
// the low/high response pair, then per bit a fixed low separator and a
// short or long high pulse, closed by a final falling edge.
func Synthesize(f Frame) CaptureWindow {
	w := make(CaptureWindow, 0, 2*frameBits+3)

	var t int64
	w = append(w, Edge{Level: false, At: t})
	t += responseLowUS
	w = append(w, Edge{Level: true, At: t})
	t += responseHighUS

	for bit := 0; bit < frameBits; bit++ {
		w = append(w, Edge{Level: false, At: t})
		t += bitLowUS
		w = append(w, Edge{Level: true, At: t})
		if f[bit/8]&(1<<(7-bit%8)) != 0 {
			t += bit1HighUS
		} else {
			t += bit0HighUS
		}
	}

	return append(w, Edge{Level: false, At: t})
}
