package sim

import (
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey is the master seed of a run. The same key, program and
// config reproduce the same counts and shot order exactly.
type SimulationKey int64

// NewSimulationKey wraps a seed.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystems ===

const (
	// SubsystemSampler draws measurement outcomes. It is seeded with the
	// master seed itself, so --seed alone reproduces the counts.
	SubsystemSampler = "sampler"

	// SubsystemShotOrder shuffles the expanded per-shot records.
	SubsystemShotOrder = "shot_order"
)

// === PartitionedRNG ===

// PartitionedRNG hands out one independent stream per named subsystem, so
// that drawing more from one stream never shifts another.
//
// Seeds: the sampler uses the key; every other subsystem uses
// key XOR fnv1a64(name).
//
// Not safe for concurrent use.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates an RNG with no streams allocated yet.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, subsystems: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls return the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	seed := int64(p.key)
	if name != SubsystemSampler {
		seed ^= fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(seed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the master key.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
