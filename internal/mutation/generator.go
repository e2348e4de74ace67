// Package mutation produces batches of mutation requests for the
// "simulate changes" feature.
//
// Generators are injectable so that a session can be driven by seeded random
// batches interactively and by scripted batches in tests.
package mutation

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/giantswarm/contacts/internal/reconciler"
)

// Generator proposes the next batch of mutations for a collection.
type Generator interface {
	Next(current reconciler.Collection) []reconciler.MutationRequest
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(current reconciler.Collection) []reconciler.MutationRequest

// Next calls f(current).
func (f GeneratorFunc) Next(current reconciler.Collection) []reconciler.MutationRequest {
	return f(current)
}

// DefaultMaxPerKind bounds how many requests of each kind a random batch has.
const DefaultMaxPerKind = 3

// RandomConfig configures a RandomGenerator.
type RandomConfig struct {
	// Seed makes the sequence of batches reproducible. Zero seeds from the
	// clock.
	Seed uint64

	// MaxPerKind is the inclusive upper bound of requests per kind.
	MaxPerKind int

	// Kinds restricts generation to these kinds. Empty means all kinds.
	Kinds []reconciler.MutationKind

	// Pool supplies entities for inserts. Nil uses a fresh pool of
	// placeholder templates.
	Pool *Pool
}

// RandomGenerator builds batches the way a user hammering "simulate changes"
// would: a random number of each kind, at random indices, in random order.
//
// Indices are drawn from a range one wider than the collection so that
// out-of-range and duplicate targets appear regularly; the reconciler drops
// those.
type RandomGenerator struct {
	mu         sync.Mutex
	rng        *rand.Rand
	seed       uint64
	maxPerKind int
	kinds      []reconciler.MutationKind
	pool       *Pool
}

// NewRandomGenerator creates a seeded generator.
func NewRandomGenerator(cfg RandomConfig) *RandomGenerator {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if cfg.MaxPerKind <= 0 {
		cfg.MaxPerKind = DefaultMaxPerKind
	}
	kinds := cfg.Kinds
	if len(kinds) == 0 {
		kinds = reconciler.MutationKinds
	}
	pool := cfg.Pool
	if pool == nil {
		pool = NewPool(nil)
	}
	return &RandomGenerator{
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed:       seed,
		maxPerKind: cfg.MaxPerKind,
		kinds:      kinds,
		pool:       pool,
	}
}

// Seed returns the seed in use, so a run can be reproduced.
func (g *RandomGenerator) Seed() uint64 {
	return g.seed
}

// Pool returns the entity pool inserts are drawn from.
func (g *RandomGenerator) Pool() *Pool {
	return g.pool
}

// Next returns a random batch for current.
func (g *RandomGenerator) Next(current reconciler.Collection) []reconciler.MutationRequest {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := len(current)
	var batch []reconciler.MutationRequest
	for _, kind := range g.kinds {
		count := g.rng.IntN(g.maxPerKind + 1)
		for range count {
			switch kind {
			case reconciler.KindDelete:
				batch = append(batch, reconciler.DeleteAt(g.rng.IntN(n+1)))
			case reconciler.KindInsert:
				batch = append(batch, reconciler.InsertAt(g.pool.Take(), g.rng.IntN(n+2)))
			case reconciler.KindMove:
				batch = append(batch, reconciler.MoveFrom(g.rng.IntN(n+1), g.rng.IntN(n+1)))
			case reconciler.KindReload:
				batch = append(batch, reconciler.ReloadAt(g.rng.IntN(n+1)))
			case reconciler.KindRename:
				batch = append(batch, reconciler.RenameAt(g.rng.IntN(n+1), ""))
			}
		}
	}
	g.rng.Shuffle(len(batch), func(i, j int) { batch[i], batch[j] = batch[j], batch[i] })
	return batch
}

// ScriptedGenerator replays pre-recorded batches in order and returns nil
// once they are exhausted.
type ScriptedGenerator struct {
	mu      sync.Mutex
	batches [][]reconciler.MutationRequest
	next    int
}

// NewScriptedGenerator creates a generator that yields batches in order.
func NewScriptedGenerator(batches ...[]reconciler.MutationRequest) *ScriptedGenerator {
	return &ScriptedGenerator{batches: batches}
}

// Next returns the next recorded batch, ignoring current.
func (g *ScriptedGenerator) Next(reconciler.Collection) []reconciler.MutationRequest {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.next >= len(g.batches) {
		return nil
	}
	b := g.batches[g.next]
	g.next++
	return b
}

// Remaining reports how many batches have not been returned yet.
func (g *ScriptedGenerator) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.batches) - g.next
}
