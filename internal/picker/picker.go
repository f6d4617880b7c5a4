package picker

import (
	"math/rand/v2"
	"sync"

	"github.com/kalambet/whatnow/internal/catalog"
)

// Picker draws activities uniformly at random. It is safe for concurrent use.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Picker backed by a non-deterministic source.
func New() *Picker {
	// #nosec G404 -- suggestions do not need a cryptographic source.
	return &Picker{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a Picker whose sequence of draws is fully determined by seed.
func NewSeeded(seed uint64) *Picker {
	// #nosec G404
	return &Picker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Pick returns one element of candidates chosen uniformly at random, or
// false when candidates is empty. Consecutive picks may repeat.
func (p *Picker) Pick(candidates []catalog.Activity) (catalog.Activity, bool) {
	if len(candidates) == 0 {
		return catalog.Activity{}, false
	}
	p.mu.Lock()
	i := p.rng.IntN(len(candidates))
	p.mu.Unlock()
	return candidates[i], true
}
