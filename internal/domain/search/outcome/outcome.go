// Package outcome holds the final result of a search call.
package outcome

import "github.com/SWGEvolve/swg-graphql/internal/domain/object"

// Outcome is a resolved search result set. Total reflects the index's
// reported total hit count, not the post-resolution result count.
type Outcome struct {
	total   int64
	results []object.Result
}

// New creates a search outcome.
func New(total int64, results []object.Result) Outcome {
	return Outcome{total: total, results: results}
}

// Empty is the outcome of a disabled or zero-hit search.
func Empty() Outcome { return Outcome{} }

// Total returns the index-reported total hit count.
func (o Outcome) Total() int64 { return o.total }

// Results returns the resolved objects in hit order.
func (o Outcome) Results() []object.Result { return o.results }
