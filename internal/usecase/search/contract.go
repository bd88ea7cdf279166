package search

import (
	"context"

	"github.com/SWGEvolve/swg-graphql/internal/domain/object"
	"github.com/SWGEvolve/swg-graphql/internal/domain/search/hit"
	"github.com/SWGEvolve/swg-graphql/internal/es"
)

// Index executes composite queries against the search index.
type Index interface {
	Search(ctx context.Context, q *es.Query, from, size int) ([]hit.Hit, int64, error)
}

// ObjectService looks up generic objects in the authoritative store.
type ObjectService interface {
	GetObject(ctx context.Context, id string) (*object.ServerObject, error)
}

// ResourceTypeService looks up resource types in the authoritative store.
type ResourceTypeService interface {
	GetResourceType(ctx context.Context, id string) (*object.ResourceType, error)
}
