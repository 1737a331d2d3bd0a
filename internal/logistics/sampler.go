package logistics

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Sampler picks a route distance for one product. key identifies the
// product (its catalog row); samplers that do not need it ignore it.
//
// Samplers are request-scoped: build one per query and do not share it
// between goroutines.
type Sampler interface {
	DistanceKm(key uint64) float64
}

// Sampler kinds accepted by NewSampler.
const (
	SamplerRandom = "random"
	SamplerKeyed  = "keyed"
)

// NewSampler builds a sampler of the named kind. An empty kind means random.
func NewSampler(kind string, seed uint64) (Sampler, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case SamplerRandom, "":
		return NewRandomSampler(seed), nil
	case SamplerKeyed:
		return NewKeyedSampler(seed), nil
	default:
		return nil, fmt.Errorf("unknown sampler %q (want %s or %s)", kind, SamplerRandom, SamplerKeyed)
	}
}

// RandomSampler draws uniformly from Distances with a seeded PRNG. The
// sequence depends on call order, so the same seed and the same sequence
// of calls reproduce the same distances.
type RandomSampler struct {
	rng       *rand.Rand
	distances []float64
}

// NewRandomSampler returns a sampler seeded with seed.
func NewRandomSampler(seed uint64) *RandomSampler {
	return &RandomSampler{
		rng:       rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb)), //nolint:gosec // Simulation, not crypto.
		distances: Distances(),
	}
}

// DistanceKm returns the next random distance.
func (s *RandomSampler) DistanceKm(uint64) float64 {
	return s.distances[s.rng.IntN(len(s.distances))]
}

// KeyedSampler derives the distance from a hash of the seed and the product
// key, so a product always gets the same distance for a given seed no
// matter which query, or in which order, asks for it.
type KeyedSampler struct {
	seed      uint64
	distances []float64
}

// NewKeyedSampler returns a keyed sampler for seed.
func NewKeyedSampler(seed uint64) *KeyedSampler {
	return &KeyedSampler{seed: seed, distances: Distances()}
}

// DistanceKm returns the distance assigned to key.
func (s *KeyedSampler) DistanceKm(key uint64) float64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], s.seed)
	binary.LittleEndian.PutUint64(buf[8:], key)
	h := xxhash.Sum64(buf[:])
	return s.distances[h%uint64(len(s.distances))]
}

// Fixed always returns the same distance.
type Fixed float64

// DistanceKm returns f.
func (f Fixed) DistanceKm(uint64) float64 { return float64(f) }
