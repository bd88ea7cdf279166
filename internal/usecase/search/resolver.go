package search

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SWGEvolve/swg-graphql/internal/domain"
	"github.com/SWGEvolve/swg-graphql/internal/domain/object"
	"github.com/SWGEvolve/swg-graphql/internal/domain/search/hit"
	"github.com/SWGEvolve/swg-graphql/internal/metrics"
)

// resolveFunc rehydrates one hit. A nil result with a nil error drops the hit.
type resolveFunc func(ctx context.Context, h hit.Hit) (object.Result, error)

var numericID = regexp.MustCompile(`^[0-9]+$`)

// resolve dispatches each hit by document type to the matching lookup. The
// lookups run concurrently; the output preserves hit order. Hits of unknown
// type, hits without an id, and not-found lookups are dropped silently.
//
// When the trimmed search text is all digits and nothing resolved, one extra
// exact-id generic-object lookup runs and, if it finds anything, gets
// appended as the sole result.
func (s *Service) resolve(ctx context.Context, hits []hit.Hit, searchText string) ([]object.Result, error) {
	resolved := make([]object.Result, len(hits))

	g, gctx := errgroup.WithContext(ctx)
	for i, h := range hits {
		if h.DocumentID == "" {
			continue
		}
		fn, ok := s.resolvers[h.DocumentType]
		if !ok {
			s.logger.Debug("dropping hit of unknown type",
				zap.String("id", h.DocumentID),
				zap.String("type", h.DocumentType),
			)
			continue
		}
		i, h := i, h
		g.Go(func() error {
			res, err := fn(gctx, h)
			if err != nil {
				return err
			}
			resolved[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve hits: %w", err)
	}

	out := make([]object.Result, 0, len(hits))
	for _, r := range resolved {
		if r != nil {
			out = append(out, r)
		}
	}
	if dropped := len(hits) - len(out); dropped > 0 {
		metrics.SearchHitsDroppedTotal.Add(float64(dropped))
	}

	if len(out) == 0 && numericID.MatchString(searchText) {
		obj, err := s.objects.GetObject(ctx, searchText)
		switch {
		case err == nil:
			out = append(out, *obj)
		case errors.Is(err, domain.ErrNotFound):
			// nothing behind the numeric id either
		default:
			return nil, fmt.Errorf("exact-id fallback: %w", err)
		}
	}
	return out, nil
}

func (s *Service) resolveObject(ctx context.Context, h hit.Hit) (object.Result, error) {
	obj, err := s.objects.GetObject(ctx, h.DocumentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return *obj, nil
}

func (s *Service) resolveResourceType(ctx context.Context, h hit.Hit) (object.Result, error) {
	rt, err := s.resources.GetResourceType(ctx, h.DocumentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return *rt, nil
}

// resolveAccount builds the account value straight from the station id
// encoded in the hit id. Accounts have no authoritative-store row.
func resolveAccount(_ context.Context, h hit.Hit) (object.Result, error) {
	stationID, err := strconv.ParseUint(h.DocumentID, 10, 64)
	if err != nil {
		return nil, nil
	}
	return object.Account{StationID: stationID}, nil
}
