package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestQuery_String tests query syntax rendering
func TestQuery_String(t *testing.T) {
	min := 100.0
	max := 5000.0
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"match all", MatchAllQuery{}, "*:*"},
		{"term", TermQuery{Term: "golang"}, "golang"},
		{"field term", FieldTermQuery{Field: "format", Term: "markdown"}, "format:markdown"},
		{"phrase", PhraseQuery{Phrase: "exact words"}, `"exact words"`},
		{"field phrase", PhraseQuery{Field: "title", Phrase: "user guide"}, `title:"user guide"`},
		{"wildcard", WildcardQuery{Field: "title", Pattern: "read*"}, "title:read*"},
		{"fuzzy", FuzzyQuery{Term: "serch"}, "serch~"},
		{"fuzzy with distance", FuzzyQuery{Field: "title", Term: "serch", Distance: 2}, "title:serch~2"},
		{"numeric range", RangeQuery{Field: "size", Min: &min, Max: &max}, "size:[100 TO 5000]"},
		{"open numeric range", RangeQuery{Field: "size", Min: &min}, "size:[100 TO *]"},
		{"date range", RangeQuery{Field: "modified_at", Start: start, End: end}, "modified_at:[2024-03-01 TO 2024-04-01]"},
		{"open date range", RangeQuery{Field: "modified_at", Start: start}, "modified_at:[2024-03-01 TO *]"},
		{
			"and",
			AndQuery{Children: []Query{TermQuery{Term: "api"}, TermQuery{Term: "auth"}}},
			"(api AND auth)",
		},
		{
			"or",
			OrQuery{Children: []Query{TermQuery{Term: "api"}, TermQuery{Term: "auth"}}},
			"(api OR auth)",
		},
		{"not", NotQuery{Child: TermQuery{Term: "draft"}}, "NOT draft"},
		{
			"nested",
			AndQuery{Children: []Query{
				OrQuery{Children: []Query{TermQuery{Term: "api"}, TermQuery{Term: "sdk"}}},
				NotQuery{Child: FieldTermQuery{Field: "status", Term: "archived"}},
			}},
			"((api OR sdk) AND NOT status:archived)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.String())
		})
	}
}

// TestFilterValue_Constructors tests the filter union constructors
func TestFilterValue_Constructors(t *testing.T) {
	single := FilterTerm("markdown")
	assert.Equal(t, FilterSingle, single.Kind)
	assert.Equal(t, "markdown", single.Single)

	list := FilterIn("markdown", "code")
	assert.Equal(t, FilterList, list.Kind)
	assert.Equal(t, []string{"markdown", "code"}, list.List)

	rng := FilterBetween("2024-01-01", "2024-06-30")
	assert.Equal(t, FilterRange, rng.Kind)
	assert.Equal(t, "2024-01-01", rng.From)
	assert.Equal(t, "2024-06-30", rng.To)

	open := FilterBetween("100", "")
	assert.Equal(t, FilterRange, open.Kind)
	assert.Empty(t, open.To)
}
