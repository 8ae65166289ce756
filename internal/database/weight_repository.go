package database

import (
	"context"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/levelup/internal/pool"
	"github.com/example/levelup/pkg/models"
)

// WeightRepository persists fact weights as a flat "<a>x<b>" -> weight mapping
type WeightRepository struct {
	db *sqlx.DB
}

// NewWeightRepository creates a new repository instance
func NewWeightRepository(db *sqlx.DB) *WeightRepository {
	return &WeightRepository{db: db}
}

type storedWeight struct {
	Key    string `db:"fact_key"`
	Weight int    `db:"weight"`
}

// Save writes the weight of every fact in the pool
func (r *WeightRepository) Save(ctx context.Context, p *pool.Pool) error {
	return r.SaveSnapshot(ctx, p.Snapshot())
}

// SaveSnapshot upserts all weights in one transaction, overwriting prior values
func (r *WeightRepository) SaveSnapshot(ctx context.Context, weights map[string]int) error {
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`
		INSERT INTO fact_weights (fact_key, weight, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (fact_key) DO UPDATE SET
			weight = excluded.weight,
			updated_at = excluded.updated_at
	`))
	if err != nil {
		return errors.Wrap(err, "failed to prepare weight upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, k := range keys {
		if _, err := stmt.ExecContext(ctx, k, weights[k], now); err != nil {
			return errors.Wrapf(err, "failed to save weight for %s", k)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit weights")
	}
	return nil
}

// LoadAll returns every stored key and weight, unvalidated
func (r *WeightRepository) LoadAll(ctx context.Context) (map[string]int, error) {
	var rows []storedWeight
	if err := r.db.SelectContext(ctx, &rows, "SELECT fact_key, weight FROM fact_weights"); err != nil {
		return nil, errors.Wrap(err, "failed to load weights")
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Weight
	}
	return out, nil
}

// Load hydrates the pool from storage. Facts without a stored weight keep
// their current weight; malformed or unknown keys are ignored and stored
// weights are clamped into the valid range.
func (r *WeightRepository) Load(ctx context.Context, p *pool.Pool) error {
	stored, err := r.LoadAll(ctx)
	if err != nil {
		return err
	}
	for k, w := range stored {
		key, err := models.ParseFactKey(k)
		if err != nil {
			continue
		}
		p.SetWeight(key, w)
	}
	return nil
}

// Reset deletes all stored weights
func (r *WeightRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM fact_weights"); err != nil {
		return errors.Wrap(err, "failed to reset weights")
	}
	return nil
}
