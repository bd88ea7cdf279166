// Package search runs the object search pipeline: build the composite query,
// overlay a raw fragment when the caller supplied one, execute it against the
// index, and rehydrate hits into typed domain objects.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SWGEvolve/swg-graphql/internal/domain/object"
	"github.com/SWGEvolve/swg-graphql/internal/domain/search/filters"
	"github.com/SWGEvolve/swg-graphql/internal/domain/search/outcome"
	"github.com/SWGEvolve/swg-graphql/internal/es"
	"github.com/SWGEvolve/swg-graphql/internal/metrics"
)

// Service handles object search requests.
type Service struct {
	index     Index
	objects   ObjectService
	resources ResourceTypeService
	enabled   bool
	logger    *zap.Logger
	resolvers map[string]resolveFunc
}

// New creates a search service. enabled is the process-wide search feature
// flag; when false every search short-circuits to an empty outcome without
// touching the index.
func New(
	index Index,
	objects ObjectService,
	resources ResourceTypeService,
	enabled bool,
	logger *zap.Logger,
) *Service {
	s := &Service{
		index:     index,
		objects:   objects,
		resources: resources,
		enabled:   enabled,
		logger:    logger,
	}
	s.resolvers = map[string]resolveFunc{
		string(object.KindObject):       s.resolveObject,
		string(object.KindResourceType): s.resolveResourceType,
		string(object.KindAccount):      resolveAccount,
	}
	return s
}

// Search executes a filtered object search and resolves the hits.
func (s *Service) Search(ctx context.Context, f filters.Filters) (outcome.Outcome, error) {
	if !s.enabled {
		metrics.SearchRequestsTotal.WithLabelValues("disabled").Inc()
		return outcome.Empty(), nil
	}

	start := time.Now()

	q, err := es.Build(f)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return outcome.Empty(), fmt.Errorf("build query: %w", err)
	}

	if f.IsRawQuery() && f.SearchText() != "" {
		q, err = es.Overlay(q, f.SearchText())
		if err != nil {
			metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
			return outcome.Empty(), err
		}
	}

	hits, total, err := s.index.Search(ctx, q, f.From(), f.Size())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return outcome.Empty(), fmt.Errorf("execute search: %w", err)
	}

	results, err := s.resolve(ctx, hits, f.SearchText())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return outcome.Empty(), err
	}

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	s.logger.Debug("search completed",
		zap.String("text", f.SearchText()),
		zap.Int64("total", total),
		zap.Int("resolved", len(results)),
	)
	return outcome.New(total, results), nil
}
