package dice

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand/v2"
)

// cryptoSource implements Source using crypto/rand. It is safe for concurrent use.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Float64 returns a uniformly distributed float in [0.0, 1.0) with 53 bits of precision.
func (c *cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return float64(binary.LittleEndian.Uint64(buf[:])>>11) / (1 << 53)
}

// seededSource is a reproducible PCG-backed Source. Not safe for concurrent use.
type seededSource struct {
	r *mrand.Rand
}

// NewSeededSource returns a deterministic Source; equal seeds yield equal sequences.
func NewSeededSource(seed uint64) Source {
	return &seededSource{r: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.r.IntN(n)
}

// Float64 returns a pseudo-random float in [0.0, 1.0).
func (s *seededSource) Float64() float64 {
	return s.r.Float64()
}
