package es

import (
	"fmt"

	"github.com/olivere/elastic/v7"

	"github.com/SWGEvolve/swg-graphql/internal/domain/object"
	"github.com/SWGEvolve/swg-graphql/internal/domain/search/filters"
)

// Indexed document fields.
const (
	idField            = "id"
	typeField          = "type"
	exactNameField     = "objectName.keyword"
	relevancyBumpField = "relevancyBump"
	attributePrefix    = "resourceAttributes."
	depletedTimeField  = "resourceDepletedTime"

	// generalField matches every indexed field at default weight.
	generalField = "*"
)

// Function-score weight rules, applied multiplicatively to the base score.
const (
	exactIDWeight       = 100
	accountWeight       = 30
	relevancyBumpWeight = 10
)

// exactPhraseBoost makes an exact keyword-normalized phrase win decisively
// over the other match strategies.
const exactPhraseBoost = 100

// Build translates filter parameters into the composite search query.
// It is pure: no I/O, and the same filters always yield the same document.
func Build(f filters.Filters) (*Query, error) {
	text := f.SearchText()

	boolq := elastic.NewBoolQuery()

	// Explicit empty-result policy: no text and no type restriction must
	// match nothing, not everything.
	if text == "" && !f.HasTypes() {
		boolq.Must(elastic.NewMatchNoneQuery())
	}

	if f.HasTypes() {
		types := make([]interface{}, len(f.Types()))
		for i, t := range f.Types() {
			types[i] = t
		}
		boolq.Must(elastic.NewTermsQuery(typeField, types...))
	}

	if text != "" && !f.IsRawQuery() {
		boolq.Must(textDisjunction(text))
	}

	for _, attr := range f.Attributes() {
		rq := elastic.NewRangeQuery(attributePrefix + attr.Key())
		if attr.GTE() != nil {
			rq.Gte(*attr.GTE())
		}
		if attr.LTE() != nil {
			rq.Lte(*attr.LTE())
		}
		boolq.Filter(rq)
	}

	if d := f.DepletionDate(); d != nil {
		rq := elastic.NewRangeQuery(depletedTimeField)
		if d.GTE() != nil {
			rq.Gte(*d.GTE())
		}
		if d.LTE() != nil {
			rq.Lte(*d.LTE())
		}
		boolq.Filter(rq)
	}

	fsq := elastic.NewFunctionScoreQuery().
		Query(boolq).
		Add(elastic.NewTermQuery(idField, text), elastic.NewWeightFactorFunction(exactIDWeight)).
		Add(elastic.NewTermQuery(typeField, string(object.KindAccount)), elastic.NewWeightFactorFunction(accountWeight)).
		Add(elastic.NewExistsQuery(relevancyBumpField), elastic.NewWeightFactorFunction(relevancyBumpWeight)).
		ScoreMode("multiply").
		BoostMode("multiply")

	src, err := fsq.Source()
	if err != nil {
		return nil, fmt.Errorf("serialize query: %w", err)
	}
	source, ok := src.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected query source shape %T", src)
	}
	return &Query{source: source}, nil
}

// textDisjunction combines the four free-text match strategies. Scoring is
// dis_max with tie_breaker 1.0: the top strategy dominates but every other
// matching strategy still contributes its full score.
func textDisjunction(text string) elastic.Query {
	exact := elastic.NewMultiMatchQuery(text).
		Field(exactNameField).
		Type("phrase").
		Boost(exactPhraseBoost)

	// Autocomplete-style partial names: name-like fields outweigh the rest.
	prefix := elastic.NewMultiMatchQuery(text).
		FieldWithBoost("basicName", 2).
		FieldWithBoost("objectName", 2).
		FieldWithBoost("accountName", 2).
		Field("resourceName").
		Field(generalField).
		Type("phrase_prefix")

	// Typo tolerance, edit distance picked by term length.
	fuzzy := elastic.NewMultiMatchQuery(text).
		FieldWithBoost("accountName", 2).
		Field("resourceName").
		Field("resourceClass").
		Field("resourceClassId").
		Field(generalField).
		Fuzziness("AUTO")

	// Numeric and identifier lookups.
	ident := elastic.NewMultiMatchQuery(text).
		FieldWithBoost(idField, 10).
		FieldWithBoost("stationId", 5).
		Field(generalField)

	return elastic.NewDisMaxQuery().
		TieBreaker(1.0).
		Query(exact, prefix, fuzzy, ident)
}
