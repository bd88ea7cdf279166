package es

import (
	"encoding/json"
	"fmt"

	"github.com/SWGEvolve/swg-graphql/internal/domain"
)

// Overlay merges a caller-supplied raw query fragment into a built query and
// returns the combined query; the input query is left untouched.
//
// A fragment that is itself a multi_match clause is appended as one extra
// should disjunct on the inner bool query, so it competes for score with the
// built clauses. Any other fragment replaces the inner query wholesale. The
// function-score weight rules stay on top either way.
//
// The multi_match sniff mirrors the shapes callers actually submit; fragments
// outside those shapes get the replace path, which may not be what a caller
// with an exotic raw query expects.
func Overlay(q *Query, rawQueryText string) (*Query, error) {
	var fragment map[string]interface{}
	if err := json.Unmarshal([]byte(rawQueryText), &fragment); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRawQuery, err)
	}
	if len(fragment) == 0 {
		return nil, fmt.Errorf("%w: empty fragment", domain.ErrMalformedRawQuery)
	}

	merged := q.clone()
	fs := merged.functionScore()
	if fs == nil {
		return nil, fmt.Errorf("query has no function_score wrapper")
	}

	if _, ok := fragment["multi_match"]; ok {
		inner, _ := fs["query"].(map[string]interface{})
		fs["query"] = mergeSources(inner, map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{fragment},
			},
		})
	} else {
		fs["query"] = fragment
	}
	return merged, nil
}

// mergeSources merges src into dst without mutating either. Maps merge
// recursively, array-valued fields concatenate (list-union policy), and
// scalar conflicts resolve caller-wins.
func mergeSources(dst, src map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		existing, ok := out[k]
		if !ok {
			out[k] = v
			continue
		}
		switch ev := existing.(type) {
		case map[string]interface{}:
			if sv, isMap := v.(map[string]interface{}); isMap {
				out[k] = mergeSources(ev, sv)
				continue
			}
		case []interface{}:
			if sv, isList := v.([]interface{}); isList {
				joined := make([]interface{}, 0, len(ev)+len(sv))
				joined = append(joined, ev...)
				joined = append(joined, sv...)
				out[k] = joined
				continue
			}
		}
		out[k] = v
	}
	return out
}
