package spaced_repetition

import (
	"github.com/example/levelup/internal/pool"
	"github.com/example/levelup/pkg/models"
)

// Policy implements weight-based repetition: facts answered correctly become
// rarer, missed facts come back more often.
type Policy struct {
	// Weight removed after a correct answer
	CorrectStep int
	// Weight added after a wrong answer
	IncorrectStep int
	// Bounds every weight stays within
	MinWeight int
	MaxWeight int
}

// DefaultPolicy returns the standard policy: -1 on correct, +2 on wrong, weights in [1, 20]
func DefaultPolicy() *Policy {
	return &Policy{
		CorrectStep:   1,
		IncorrectStep: 2,
		MinWeight:     pool.MinWeight,
		MaxWeight:     pool.MaxWeight,
	}
}

// NextWeight computes the weight that follows w after an answer
func (p *Policy) NextWeight(w int, correct bool) int {
	if correct {
		w -= p.CorrectStep
		if w < p.MinWeight {
			w = p.MinWeight
		}
		return w
	}
	w += p.IncorrectStep
	if w > p.MaxWeight {
		w = p.MaxWeight
	}
	return w
}

// Update applies the policy to the fact referenced by key.
// A nil key (addition and subtraction tasks) is a no-op.
// It returns the new weight and whether a fact was changed.
func (p *Policy) Update(pl *pool.Pool, key *models.FactKey, correct bool) (int, bool) {
	if key == nil {
		return 0, false
	}
	fact, ok := pl.Get(*key)
	if !ok {
		return 0, false
	}
	next := p.NextWeight(fact.Weight, correct)
	pl.SetWeight(*key, next)
	return next, true
}

// Update applies DefaultPolicy.
func Update(pl *pool.Pool, key *models.FactKey, correct bool) (int, bool) {
	return DefaultPolicy().Update(pl, key, correct)
}
