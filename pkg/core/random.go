package core

// Rand is a stateless integer hash advanced once per draw. It is a value
// owned by a single goroutine; copying it forks the sequence.
type Rand struct {
	state uint32
}

// NewRand creates a random source starting at seed
func NewRand(seed uint32) *Rand {
	return &Rand{state: seed}
}

// PixelSeed derives the starting state for one scanline of one frame.
// The same row, sample count and salt always produce the same sequence.
func PixelSeed(row, sample int, salt uint32) uint32 {
	s := uint32(row)*1973 + uint32(sample)*9277 + salt*26699
	return s | 1
}

// Uint32 advances the state and returns the PCG output word
func (r *Rand) Uint32() uint32 {
	prev := r.state
	r.state = r.state*747796405 + 2891336453
	word := ((prev >> ((prev >> 28) + 4)) ^ prev) * 277803737
	return (word >> 22) ^ word
}

// Float64 returns a float in [0, 1)
func (r *Rand) Float64() float64 {
	return float64(r.Uint32()) * (1.0 / 4294967296.0)
}
