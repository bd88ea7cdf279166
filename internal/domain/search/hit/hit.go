// Package hit holds the lightweight index record returned by a search.
package hit

// Hit is a single search index record. It is never returned to callers
// directly; the resolver rehydrates it into a typed domain object.
type Hit struct {
	DocumentID   string
	DocumentType string
	Score        float64
}
