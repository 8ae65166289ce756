package spaced_repetition

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/levelup/internal/pool"
	"github.com/example/levelup/pkg/models"
)

func TestNextWeight(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name    string
		weight  int
		correct bool
		want    int
	}{
		{"correct decrements", 5, true, 4},
		{"correct floors at one", 1, true, 1},
		{"wrong adds two", 5, false, 7},
		{"wrong caps at twenty", 19, false, 20},
		{"wrong at cap stays", 20, false, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.NextWeight(tt.weight, tt.correct))
		})
	}
}

func TestUpdateMutatesPool(t *testing.T) {
	pl := pool.New()
	key := models.FactKey{A: 6, B: 8}

	w, changed := Update(pl, &key, true)
	require.True(t, changed)
	assert.Equal(t, 4, w)

	w, _ = Update(pl, &key, false)
	assert.Equal(t, 6, w)

	f, _ := pl.Get(key)
	assert.Equal(t, 6, f.Weight)

	// Other facts are untouched, including the mirrored pair.
	f, _ = pl.Get(models.FactKey{A: 8, B: 6})
	assert.Equal(t, pool.DefaultWeight, f.Weight)
}

func TestUpdateWithoutFactIsNoop(t *testing.T) {
	pl := pool.New()
	before := pl.Snapshot()

	_, changed := Update(pl, nil, false)
	assert.False(t, changed)

	_, changed = Update(pl, &models.FactKey{A: 0, B: 3}, false)
	assert.False(t, changed)

	assert.Equal(t, before, pl.Snapshot())
}

func TestWeightsStayInBounds(t *testing.T) {
	pl := pool.New()
	rng := rand.New(rand.NewPCG(7, 11))
	p := DefaultPolicy()

	for i := 0; i < 10000; i++ {
		key := pl.SampleWeighted(rng).Key
		before, _ := pl.Get(key)
		correct := rng.IntN(2) == 0

		after, _ := p.Update(pl, &key, correct)
		if correct {
			assert.LessOrEqual(t, after, before.Weight)
		} else {
			assert.GreaterOrEqual(t, after, before.Weight)
		}
		require.GreaterOrEqual(t, after, pool.MinWeight)
		require.LessOrEqual(t, after, pool.MaxWeight)
	}
}
