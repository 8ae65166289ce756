package pool

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/levelup/pkg/models"
)

// fixedRand always returns the same draw.
type fixedRand int

func (f fixedRand) IntN(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func TestNew(t *testing.T) {
	p := New()

	require.Equal(t, 100, p.Len())
	assert.Equal(t, 500, p.TotalWeight())

	seen := make(map[models.FactKey]bool)
	for _, f := range p.Facts() {
		assert.True(t, f.Key.Valid())
		assert.Equal(t, DefaultWeight, f.Weight)
		assert.False(t, seen[f.Key], "duplicate fact %s", f.Key)
		seen[f.Key] = true
	}

	// (a,b) and (b,a) are separate facts.
	_, ok := p.Get(models.FactKey{A: 3, B: 4})
	assert.True(t, ok)
	_, ok = p.Get(models.FactKey{A: 4, B: 3})
	assert.True(t, ok)
}

func TestSetWeightClamps(t *testing.T) {
	p := New()
	key := models.FactKey{A: 2, B: 9}

	require.True(t, p.SetWeight(key, 0))
	f, _ := p.Get(key)
	assert.Equal(t, MinWeight, f.Weight)

	p.SetWeight(key, 99)
	f, _ = p.Get(key)
	assert.Equal(t, MaxWeight, f.Weight)

	assert.False(t, p.SetWeight(models.FactKey{A: 11, B: 1}, 5))
}

func TestSampleWeightedWalk(t *testing.T) {
	p := New()
	// Every fact has weight 5: draws 0..4 hit 1x1, 5..9 hit 1x2.
	assert.Equal(t, models.FactKey{A: 1, B: 1}, p.SampleWeighted(fixedRand(0)).Key)
	assert.Equal(t, models.FactKey{A: 1, B: 1}, p.SampleWeighted(fixedRand(4)).Key)
	assert.Equal(t, models.FactKey{A: 1, B: 2}, p.SampleWeighted(fixedRand(5)).Key)
	assert.Equal(t, models.FactKey{A: 10, B: 10}, p.SampleWeighted(fixedRand(499)).Key)

	p.SetWeight(models.FactKey{A: 1, B: 1}, 20)
	assert.Equal(t, models.FactKey{A: 1, B: 1}, p.SampleWeighted(fixedRand(19)).Key)
	assert.Equal(t, models.FactKey{A: 1, B: 2}, p.SampleWeighted(fixedRand(20)).Key)
}

func TestSampleWeightedFrequencies(t *testing.T) {
	p := New()
	for _, f := range p.Facts() {
		p.SetWeight(f.Key, MinWeight)
	}
	heavy := models.FactKey{A: 7, B: 8}
	p.SetWeight(heavy, MaxWeight)
	total := p.TotalWeight()
	require.Equal(t, 99+20, total)

	rng := rand.New(rand.NewPCG(1, 2))
	const draws = 200000
	counts := make(map[models.FactKey]int)
	for i := 0; i < draws; i++ {
		counts[p.SampleWeighted(rng).Key]++
	}

	want := float64(MaxWeight) / float64(total)
	got := float64(counts[heavy]) / draws
	assert.InDelta(t, want, got, 0.01)

	light := models.FactKey{A: 1, B: 1}
	assert.InDelta(t, 1/float64(total), float64(counts[light])/draws, 0.005)
}

func TestSnapshot(t *testing.T) {
	p := New()
	p.SetWeight(models.FactKey{A: 6, B: 7}, 12)

	snap := p.Snapshot()
	assert.Len(t, snap, Size)
	assert.Equal(t, 12, snap["6x7"])
	assert.Equal(t, DefaultWeight, snap["7x6"])
}

func TestHardest(t *testing.T) {
	p := New()
	p.SetWeight(models.FactKey{A: 9, B: 9}, 11)
	p.SetWeight(models.FactKey{A: 3, B: 8}, 17)
	p.SetWeight(models.FactKey{A: 4, B: 4}, 11)

	hardest := p.Hardest(3)
	require.Len(t, hardest, 3)
	assert.Equal(t, models.FactKey{A: 3, B: 8}, hardest[0].Key)
	assert.Equal(t, models.FactKey{A: 4, B: 4}, hardest[1].Key)
	assert.Equal(t, models.FactKey{A: 9, B: 9}, hardest[2].Key)

	assert.Len(t, p.Hardest(500), Size)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(-3))
	assert.Equal(t, 1, Clamp(1))
	assert.Equal(t, 13, Clamp(13))
	assert.Equal(t, 20, Clamp(21))
}
