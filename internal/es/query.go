// Package es builds the composite Elasticsearch query for object search.
package es

import (
	"github.com/olivere/elastic/v7"
)

// Compile-time check: Query can be passed to the elastic SearchService.
var _ elastic.Query = (*Query)(nil)

// Query is an immutable composite search query document: a function-score
// wrapper around a bool query with must/filter/should clause groups.
type Query struct {
	source map[string]interface{}
}

// Source implements elastic.Query.
func (q *Query) Source() (interface{}, error) {
	return q.source, nil
}

// functionScore returns the function_score body of the query document.
func (q *Query) functionScore() map[string]interface{} {
	fs, _ := q.source["function_score"].(map[string]interface{})
	return fs
}

// innerQuery returns the scoring query wrapped by the function-score rules.
func (q *Query) innerQuery() map[string]interface{} {
	fs := q.functionScore()
	if fs == nil {
		return nil
	}
	inner, _ := fs["query"].(map[string]interface{})
	return inner
}

// clone deep-copies the query document so overlays never mutate a built query.
func (q *Query) clone() *Query {
	src, _ := cloneValue(q.source).(map[string]interface{})
	return &Query{source: src}
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
