package batch

import (
	"context"

	"github.com/SWGEvolve/swg-graphql/internal/domain/object"
)

// BulkGetter looks up a batch of player creature objects by id, optionally
// restricted to the given game object types. Unknown ids must be omitted
// from the result, not reported as errors.
type BulkGetter interface {
	GetMany(ctx context.Context, ids []string, types []string) ([]object.PlayerCreatureObject, error)
}
