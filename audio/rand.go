package audio

// Rand is the engine's source of uniform 32-bit draws. *math/rand.Rand satisfies it.
type Rand interface {
	Uint32() uint32
}

// randInt returns an integer in [0, max] by scaling a draw against the width of
// the source instead of taking a modulus, so the low bits of the generator don't
// decide the outcome. Outcomes differ in probability by at most one preimage out
// of 2^32, which is far below anything audible.
func randInt(r Rand, max int) int {
	if max <= 0 {
		return 0
	}
	return int(uint64(max+1) * uint64(r.Uint32()) >> 32)
}
