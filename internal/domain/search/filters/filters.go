// Package filters holds the validated search filter parameters.
package filters

import (
	"fmt"
	"strings"
)

// Pagination limits.
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// AttributeRange restricts a single resource attribute to a numeric window.
// Both bounds are optional and applied independently.
type AttributeRange struct {
	key string
	gte *float64
	lte *float64
}

// NewAttributeRange creates an attribute range restriction.
func NewAttributeRange(key string, gte, lte *float64) (AttributeRange, error) {
	if key == "" {
		return AttributeRange{}, fmt.Errorf("attribute key is required")
	}
	return AttributeRange{key: key, gte: gte, lte: lte}, nil
}

// Key returns the attribute name.
func (a AttributeRange) Key() string { return a.key }

// GTE returns the lower inclusive bound.
func (a AttributeRange) GTE() *float64 { return a.gte }

// LTE returns the upper inclusive bound.
func (a AttributeRange) LTE() *float64 { return a.lte }

// DateRange restricts a date field with optional ISO-8601 bounds.
type DateRange struct {
	gte *string
	lte *string
}

// NewDateRange creates a date range restriction.
func NewDateRange(gte, lte *string) DateRange {
	return DateRange{gte: gte, lte: lte}
}

// GTE returns the lower inclusive bound.
func (d DateRange) GTE() *string { return d.gte }

// LTE returns the upper inclusive bound.
func (d DateRange) LTE() *string { return d.lte }

// Filters is a validated set of search parameters.
type Filters struct {
	searchText    string
	rawQuery      bool
	types         []string
	attributes    []AttributeRange
	depletionDate *DateRange
	from          int
	size          int
}

// New validates and normalizes search parameters. The search text is trimmed
// before use. Size defaults to DefaultPageSize and is clamped to MaxPageSize.
func New(
	searchText string,
	rawQuery bool,
	types []string,
	attributes []AttributeRange,
	depletionDate *DateRange,
	from, size int,
) (Filters, error) {
	if from < 0 {
		return Filters{}, fmt.Errorf("from must be non-negative, got %d", from)
	}
	if size < 0 {
		return Filters{}, fmt.Errorf("size must be non-negative, got %d", size)
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	for _, t := range types {
		if t == "" {
			return Filters{}, fmt.Errorf("type filter entries must be non-empty")
		}
	}
	return Filters{
		searchText:    strings.TrimSpace(searchText),
		rawQuery:      rawQuery,
		types:         types,
		attributes:    attributes,
		depletionDate: depletionDate,
		from:          from,
		size:          size,
	}, nil
}

// SearchText returns the trimmed search text.
func (f Filters) SearchText() string { return f.searchText }

// IsRawQuery reports whether the search text is a pre-formed query fragment.
func (f Filters) IsRawQuery() bool { return f.rawQuery }

// Types returns the document type discriminators to restrict to.
func (f Filters) Types() []string { return f.types }

// HasTypes reports whether a type restriction was supplied.
func (f Filters) HasTypes() bool { return len(f.types) > 0 }

// Attributes returns the resource attribute range restrictions.
func (f Filters) Attributes() []AttributeRange { return f.attributes }

// DepletionDate returns the resource depletion date restriction, if any.
func (f Filters) DepletionDate() *DateRange { return f.depletionDate }

// From returns the pagination offset.
func (f Filters) From() int { return f.from }

// Size returns the page size.
func (f Filters) Size() int { return f.size }
