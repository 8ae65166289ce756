// Package generator builds quiz tasks from a fact pool and a random source.
package generator

import (
	"fmt"

	"github.com/example/levelup/internal/pool"
	"github.com/example/levelup/pkg/models"
)

// Upper bound for addition sums and subtraction minuends.
const MaxOperand = 100

// Generator produces one task per call. It only reads the pool.
type Generator struct {
	rng pool.Rand
}

// New creates a generator drawing from rng.
func New(rng pool.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate picks an operation uniformly and builds a task for it.
func (g *Generator) Generate(p *pool.Pool) models.Task {
	switch models.Operations[g.rng.IntN(len(models.Operations))] {
	case models.Add:
		return g.Add()
	case models.Subtract:
		return g.Subtract()
	default:
		return g.Multiply(p)
	}
}

// Multiply samples a fact by weight.
func (g *Generator) Multiply(p *pool.Pool) models.Task {
	fact := p.SampleWeighted(g.rng)
	key := fact.Key
	return models.Task{
		Question:  fmt.Sprintf("%d × %d", key.A, key.B),
		Result:    fact.Product(),
		Operation: models.Multiply,
		Fact:      &key,
	}
}

// Add draws a in [0,100] and b in [0,100-a], so the sum never exceeds 100.
func (g *Generator) Add() models.Task {
	a := g.rng.IntN(MaxOperand + 1)
	b := g.rng.IntN(MaxOperand - a + 1)
	return models.Task{
		Question:  fmt.Sprintf("%d + %d", a, b),
		Result:    a + b,
		Operation: models.Add,
	}
}

// Subtract draws a in [0,100] and b in [0,a). The range for b is empty when
// a is 0; that case yields "0 − 0".
func (g *Generator) Subtract() models.Task {
	a := g.rng.IntN(MaxOperand + 1)
	b := 0
	if a > 0 {
		b = g.rng.IntN(a)
	}
	return models.Task{
		Question:  fmt.Sprintf("%d − %d", a, b),
		Result:    a - b,
		Operation: models.Subtract,
	}
}
