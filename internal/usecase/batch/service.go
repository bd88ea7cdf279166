// Package batch resolves large, already-known id lists against the
// authoritative store with bounded concurrency. Used by the recent-logins
// bulk path, where no search query is involved and only rehydration remains.
package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/SWGEvolve/swg-graphql/internal/domain"
	"github.com/SWGEvolve/swg-graphql/internal/domain/object"
	"github.com/SWGEvolve/swg-graphql/internal/metrics"
)

// Fan-out defaults.
const (
	DefaultChunkSize   = 1000
	DefaultConcurrency = 10
)

// Service is the bounded batch fan-out.
type Service struct {
	store     BulkGetter
	pool      *ants.Pool
	chunkSize int
	logger    *zap.Logger
}

// New creates a batch resolution service. The pool caps in-flight chunk
// lookups at concurrency; a queued chunk dispatches as soon as a slot frees
// up, not in waves.
func New(store BulkGetter, chunkSize, concurrency int, logger *zap.Logger) (*Service, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Service{store: store, pool: pool, chunkSize: chunkSize, logger: logger}, nil
}

// Close releases the worker pool.
func (s *Service) Close() {
	s.pool.Release()
}

// Resolve partitions ids into chunks and resolves them against the store.
// Output order follows chunk completion order, not input order; callers
// needing strict order must not rely on this path. Any chunk failure fails
// the whole batch with ErrBatchChunkFailed, no partial return.
func (s *Service) Resolve(ctx context.Context, ids []string, types []string) ([]object.Result, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	chunks := partition(ids, s.chunkSize)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		out      []object.Result
		firstErr error
	)
	for _, chunk := range chunks {
		chunk := chunk
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			objs, err := s.store.GetMany(ctx, chunk, types)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.BatchChunksTotal.WithLabelValues("error").Inc()
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			metrics.BatchChunksTotal.WithLabelValues("ok").Inc()
			for _, o := range objs {
				out = append(out, o)
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit chunk: %w", submitErr)
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBatchChunkFailed, firstErr)
	}

	s.logger.Debug("batch resolved",
		zap.Int("ids", len(ids)),
		zap.Int("chunks", len(chunks)),
		zap.Int("objects", len(out)),
	)
	return out, nil
}

// partition splits ids into contiguous chunks of at most size elements,
// preserving order within and across chunks. The last chunk may be shorter.
func partition(ids []string, size int) [][]string {
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
