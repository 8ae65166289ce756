// Package pool holds the weighted multiplication facts a quiz draws from.
package pool

import (
	"sort"

	"github.com/example/levelup/pkg/models"
)

// Weight bounds and the weight every fact starts with.
const (
	MinWeight     = 1
	MaxWeight     = 20
	DefaultWeight = 5
)

// Size is the number of facts in a pool.
const Size = (models.MaxOperand - models.MinOperand + 1) * (models.MaxOperand - models.MinOperand + 1)

// Fact is one multiplication fact and its selection weight.
type Fact struct {
	Key    models.FactKey
	Weight int
}

// Product returns a×b.
func (f Fact) Product() int {
	return f.Key.A * f.Key.B
}

// Rand is the random source used for sampling.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
}

// Pool owns all facts. It is not safe for concurrent use; callers serialize access.
type Pool struct {
	facts []Fact
	index map[models.FactKey]int
}

// New creates a pool with one fact per operand pair, each at DefaultWeight.
// Facts are kept in row-major order: 1x1, 1x2, ..., 10x10.
func New() *Pool {
	p := &Pool{
		facts: make([]Fact, 0, Size),
		index: make(map[models.FactKey]int, Size),
	}
	for a := models.MinOperand; a <= models.MaxOperand; a++ {
		for b := models.MinOperand; b <= models.MaxOperand; b++ {
			key := models.FactKey{A: a, B: b}
			p.index[key] = len(p.facts)
			p.facts = append(p.facts, Fact{Key: key, Weight: DefaultWeight})
		}
	}
	return p
}

// Len returns the number of facts.
func (p *Pool) Len() int {
	return len(p.facts)
}

// Get returns the fact for key.
func (p *Pool) Get(key models.FactKey) (Fact, bool) {
	i, ok := p.index[key]
	if !ok {
		return Fact{}, false
	}
	return p.facts[i], true
}

// SetWeight stores a clamped weight for key. It reports false for unknown keys.
func (p *Pool) SetWeight(key models.FactKey, weight int) bool {
	i, ok := p.index[key]
	if !ok {
		return false
	}
	p.facts[i].Weight = Clamp(weight)
	return true
}

// TotalWeight returns the sum of all weights. It is at least Size.
func (p *Pool) TotalWeight() int {
	total := 0
	for _, f := range p.facts {
		total += f.Weight
	}
	return total
}

// SampleWeighted picks a fact with probability weight/TotalWeight.
func (p *Pool) SampleWeighted(rng Rand) Fact {
	r := rng.IntN(p.TotalWeight()) + 1
	for _, f := range p.facts {
		r -= f.Weight
		if r <= 0 {
			return f
		}
	}
	return p.facts[len(p.facts)-1]
}

// Facts returns a copy of all facts in pool order.
func (p *Pool) Facts() []Fact {
	out := make([]Fact, len(p.facts))
	copy(out, p.facts)
	return out
}

// Snapshot maps every fact's storage key to its weight.
func (p *Pool) Snapshot() map[string]int {
	snap := make(map[string]int, len(p.facts))
	for _, f := range p.facts {
		snap[f.Key.String()] = f.Weight
	}
	return snap
}

// Hardest returns up to n facts with the highest weights.
// Ties keep pool order.
func (p *Pool) Hardest(n int) []Fact {
	facts := p.Facts()
	sort.SliceStable(facts, func(i, j int) bool {
		return facts[i].Weight > facts[j].Weight
	})
	if n < len(facts) {
		facts = facts[:n]
	}
	return facts
}

// Clamp limits w to [MinWeight, MaxWeight].
func Clamp(w int) int {
	if w < MinWeight {
		return MinWeight
	}
	if w > MaxWeight {
		return MaxWeight
	}
	return w
}
