package health

import "context"

// IndexPinger checks search index availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks object cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
