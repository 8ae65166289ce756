// Package worker moves weight persistence off the interactive path.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/example/levelup/internal/pool"
)

// ErrClosed is returned by Save after Close.
var ErrClosed = errors.New("weight saver closed")

// SnapshotStore is the durable store behind an AsyncWeightStore.
type SnapshotStore interface {
	Load(ctx context.Context, p *pool.Pool) error
	SaveSnapshot(ctx context.Context, weights map[string]int) error
}

// AsyncWeightStore snapshots the pool on the caller's goroutine and writes
// snapshots from a single background writer. A snapshot still waiting when a
// newer one arrives is replaced, so only the latest weights are written and
// writes never go out of order.
type AsyncWeightStore struct {
	backend SnapshotStore
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]int
	closed  bool

	wake  chan struct{}
	flush chan chan struct{}
	stop  chan struct{}
	done  chan struct{}
}

// NewAsyncWeightStore starts the writer goroutine.
func NewAsyncWeightStore(backend SnapshotStore, logger *slog.Logger) *AsyncWeightStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &AsyncWeightStore{
		backend: backend,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		flush:   make(chan chan struct{}),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Load reads synchronously from the backend.
func (s *AsyncWeightStore) Load(ctx context.Context, p *pool.Pool) error {
	return s.backend.Load(ctx, p)
}

// Save queues a snapshot of p. It never blocks on I/O.
func (s *AsyncWeightStore) Save(_ context.Context, p *pool.Pool) error {
	snap := p.Snapshot()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.pending = snap
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// Flush blocks until every queued snapshot has been written.
func (s *AsyncWeightStore) Flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case s.flush <- ack:
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes the last pending snapshot and stops the writer.
func (s *AsyncWeightStore) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.stop)
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AsyncWeightStore) run() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.write()
		case ack := <-s.flush:
			s.write()
			close(ack)
		case <-s.stop:
			s.write()
			return
		}
	}
}

func (s *AsyncWeightStore) write() {
	s.mu.Lock()
	snap := s.pending
	s.pending = nil
	s.mu.Unlock()

	if snap == nil {
		return
	}
	if err := s.backend.SaveSnapshot(context.Background(), snap); err != nil {
		s.logger.Warn("failed to save weights, skipping", "error", err)
	}
}
