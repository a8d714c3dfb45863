package core

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Seed selects how an RNG is initialised. A zero Seed with Random unset uses
// the empty string as its deterministic seed.
type Seed struct {
	Value  string
	Random bool
}

// StringSeed returns a deterministic seed.
func StringSeed(s string) Seed { return Seed{Value: s} }

// Unseeded returns a seed that draws fresh entropy on every use.
func Unseeded() Seed { return Seed{Random: true} }

// UnmarshalJSON accepts a string for a deterministic seed or the literal true
// for an unseeded generator.
func (s *Seed) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*s = StringSeed(v)
	case bool:
		if !v {
			return fmt.Errorf("seed: false is not a valid seed")
		}
		*s = Unseeded()
	default:
		return fmt.Errorf("seed: expected string or true, got %T", raw)
	}
	return nil
}

// MarshalJSON mirrors UnmarshalJSON.
func (s Seed) MarshalJSON() ([]byte, error) {
	if s.Random {
		return []byte("true"), nil
	}
	return json.Marshal(s.Value)
}

func (s Seed) String() string {
	if s.Random {
		return "<unseeded>"
	}
	return s.Value
}

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates an RNG for the seed. String seeds are hashed so that the same
// string always replays the same sequence.
func NewRNG(seed Seed) *RNG {
	if seed.Random {
		return &RNG{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	h := fnv.New64a()
	h.Write([]byte(seed.Value))
	sum := h.Sum64()
	return &RNG{r: rand.New(rand.NewPCG(sum, sum^0x9e3779b97f4a7c15))}
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 {
	return r.r.Float64()
}

// Chance reports true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.r.Float64() < p
}

// Shuffle permutes s in place with a Fisher-Yates pass driven by Float64, so
// the draw sequence only depends on the seed and len(s).
func Shuffle[T any](r *RNG, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := int(r.Float64() * float64(i+1))
		s[i], s[j] = s[j], s[i]
	}
}
