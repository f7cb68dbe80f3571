package store

import (
	"encoding/binary"
	"fmt"
	"math"
)

// bytesPerSample is one complex128: real then imaginary float64.
const bytesPerSample = 16

// encodeSamples packs samples as little-endian float64 (real, imag) pairs.
func encodeSamples(samples []complex128) []byte {
	buf := make([]byte, len(samples)*bytesPerSample)
	for i, v := range samples {
		off := i * bytesPerSample
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(real(v)))
		binary.LittleEndian.PutUint64(buf[off+8:], math.Float64bits(imag(v)))
	}
	return buf
}

// decodeSamples is the inverse of encodeSamples.
func decodeSamples(data []byte) ([]complex128, error) {
	if len(data)%bytesPerSample != 0 {
		return nil, fmt.Errorf("decode samples: %d bytes is not a whole number of samples", len(data))
	}
	out := make([]complex128, len(data)/bytesPerSample)
	for i := range out {
		off := i * bytesPerSample
		re := math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(data[off+8:]))
		out[i] = complex(re, im)
	}
	return out, nil
}
