package bleve

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	bleve "github.com/blevesearch/bleve/v2"
	query "github.com/blevesearch/bleve/v2/search/query"

	"github.com/custodia-labs/docfind/internal/core/domain"
	"github.com/custodia-labs/docfind/internal/logger"
)

// defaultTermFields are searched when a term names no field.
var defaultTermFields = []string{"title", "content", "tags", "keywords"}

// defaultPhraseFields are searched when a phrase names no field.
var defaultPhraseFields = []string{"title", "content"}

// translateQuery lowers a parsed query tree to a Bleve query. The
// parser guarantees valid trees, so translation never fails; nodes
// referencing unknown fields become match-none queries.
func translateQuery(schema domain.Schema, node domain.Query) query.Query {
	switch q := node.(type) {
	case nil:
		return bleve.NewMatchAllQuery()

	case domain.MatchAllQuery:
		return bleve.NewMatchAllQuery()

	case domain.TermQuery:
		return disjunctionOver(schema, defaultTermFields, func(field string) query.Query {
			return fieldTermQuery(schema, field, q.Term)
		})

	case domain.FieldTermQuery:
		return fieldTermQuery(schema, q.Field, q.Term)

	case domain.PhraseQuery:
		if q.Field == "" {
			return disjunctionOver(schema, defaultPhraseFields, func(field string) query.Query {
				return phraseQuery(schema, field, q.Phrase)
			})
		}
		return phraseQuery(schema, q.Field, q.Phrase)

	case domain.WildcardQuery:
		if q.Field == "" {
			return disjunctionOver(schema, defaultTermFields, func(field string) query.Query {
				return wildcardQuery(schema, field, q.Pattern)
			})
		}
		return wildcardQuery(schema, q.Field, q.Pattern)

	case domain.FuzzyQuery:
		if q.Field == "" {
			return disjunctionOver(schema, defaultTermFields, func(field string) query.Query {
				return fuzzyQuery(schema, field, q.Term, q.Distance)
			})
		}
		return fuzzyQuery(schema, q.Field, q.Term, q.Distance)

	case domain.RangeQuery:
		return rangeQuery(schema, q)

	case domain.AndQuery:
		if len(q.Children) == 0 {
			return bleve.NewMatchAllQuery()
		}
		boolQuery := bleve.NewBooleanQuery()
		positive := 0
		for _, child := range q.Children {
			if not, ok := child.(domain.NotQuery); ok {
				boolQuery.AddMustNot(translateQuery(schema, not.Child))
				continue
			}
			boolQuery.AddMust(translateQuery(schema, child))
			positive++
		}
		if positive == 0 {
			boolQuery.AddMust(bleve.NewMatchAllQuery())
		}
		return boolQuery

	case domain.OrQuery:
		if len(q.Children) == 0 {
			return bleve.NewMatchNoneQuery()
		}
		children := make([]query.Query, 0, len(q.Children))
		for _, child := range q.Children {
			children = append(children, translateQuery(schema, child))
		}
		return bleve.NewDisjunctionQuery(children...)

	case domain.NotQuery:
		boolQuery := bleve.NewBooleanQuery()
		boolQuery.AddMust(bleve.NewMatchAllQuery())
		boolQuery.AddMustNot(translateQuery(schema, q.Child))
		return boolQuery

	default:
		logger.Warn("Unsupported query node %T", node)
		return bleve.NewMatchNoneQuery()
	}
}

// fieldTermQuery matches one term in one field, interpreted by the
// field's schema type.
func fieldTermQuery(schema domain.Schema, field, term string) query.Query {
	spec, ok := schema.Field(field)
	if !ok {
		logger.Debug("Dropping term on unknown field %q", field)
		return bleve.NewMatchNoneQuery()
	}

	switch spec.Type {
	case domain.FieldKeyword:
		tq := bleve.NewTermQuery(strings.ToLower(term))
		tq.SetField(field)
		return tq

	case domain.FieldNumeric:
		if calendarFields[field] {
			tq := bleve.NewTermQuery(calendarTerm(field, term))
			tq.SetField(field)
			return tq
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(term), 64)
		if err != nil {
			logger.Debug("Dropping non-numeric term %q on %s", term, field)
			return bleve.NewMatchNoneQuery()
		}
		return numericEquals(field, value)

	case domain.FieldDatetime:
		return datetimeTerm(field, term)

	case domain.FieldStored:
		return bleve.NewMatchNoneQuery()

	default:
		mq := bleve.NewMatchQuery(term)
		mq.SetField(field)
		applyBoost(mq, spec)
		return mq
	}
}

// phraseQuery matches an exact phrase within one field.
func phraseQuery(schema domain.Schema, field, phrase string) query.Query {
	spec, ok := schema.Field(field)
	if !ok {
		return bleve.NewMatchNoneQuery()
	}
	pq := bleve.NewMatchPhraseQuery(phrase)
	pq.SetField(field)
	applyBoost(pq, spec)
	return pq
}

// wildcardQuery matches index terms against a * or ? pattern.
func wildcardQuery(schema domain.Schema, field, pattern string) query.Query {
	spec, ok := schema.Field(field)
	if !ok {
		return bleve.NewMatchNoneQuery()
	}
	wq := bleve.NewWildcardQuery(strings.ToLower(pattern))
	wq.SetField(field)
	applyBoost(wq, spec)
	return wq
}

// fuzzyQuery matches index terms within an edit distance of the term.
func fuzzyQuery(schema domain.Schema, field, term string, distance int) query.Query {
	spec, ok := schema.Field(field)
	if !ok {
		return bleve.NewMatchNoneQuery()
	}
	fq := bleve.NewFuzzyQuery(strings.ToLower(term))
	fq.SetField(field)
	if distance > 0 {
		fq.SetFuzziness(distance)
	}
	applyBoost(fq, spec)
	return fq
}

// rangeQuery lowers a typed range node. Datetime ranges with a
// midnight end bound name a whole day and extend through its end.
func rangeQuery(schema domain.Schema, q domain.RangeQuery) query.Query {
	if !q.Start.IsZero() || !q.End.IsZero() {
		start, end := q.Start, q.End
		endInclusive := true
		if !end.IsZero() && midnight(end) {
			end = end.AddDate(0, 0, 1)
			endInclusive = false
		}
		startInclusive := true
		dq := bleve.NewDateRangeInclusiveQuery(start, end, &startInclusive, &endInclusive)
		dq.SetField(q.Field)
		return dq
	}

	if calendarFields[q.Field] {
		return calendarRange(q.Field, q.Min, q.Max)
	}

	inclusive := true
	nq := bleve.NewNumericRangeInclusiveQuery(q.Min, q.Max, &inclusive, &inclusive)
	nq.SetField(q.Field)
	return nq
}

// datetimeTerm matches one day, or one instant when the term carries
// a time component.
func datetimeTerm(field, term string) query.Query {
	term = strings.TrimSpace(term)
	inclusive := true

	for _, layout := range []string{"2006-01-02", "20060102"} {
		if day, err := time.Parse(layout, term); err == nil {
			dq := bleve.NewDateRangeInclusiveQuery(day, day.AddDate(0, 0, 1), &inclusive, nil)
			dq.SetField(field)
			return dq
		}
	}
	if t, err := time.Parse(time.RFC3339, term); err == nil {
		dq := bleve.NewDateRangeInclusiveQuery(t, t, &inclusive, &inclusive)
		dq.SetField(field)
		return dq
	}

	logger.Debug("Dropping non-date term %q on %s", term, field)
	return bleve.NewMatchNoneQuery()
}

// numericEquals matches one exact numeric value.
func numericEquals(field string, value float64) query.Query {
	inclusive := true
	nq := bleve.NewNumericRangeInclusiveQuery(&value, &value, &inclusive, &inclusive)
	nq.SetField(field)
	return nq
}

// calendarRange bounds a calendar field by its zero-padded terms.
func calendarRange(field string, min, max *float64) query.Query {
	var lo, hi string
	if min != nil {
		lo = padCalendar(field, int(*min))
	}
	if max != nil {
		hi = padCalendar(field, int(*max))
	}
	inclusive := true
	tq := bleve.NewTermRangeInclusiveQuery(lo, hi, &inclusive, &inclusive)
	tq.SetField(field)
	return tq
}

// calendarTerm normalizes a calendar term to its indexed form.
func calendarTerm(field, term string) string {
	n, err := strconv.Atoi(strings.TrimSpace(term))
	if err != nil {
		return strings.ToLower(term)
	}
	return padCalendar(field, n)
}

// padCalendar renders a calendar value the way it is indexed.
func padCalendar(field string, value int) string {
	if field == "month" {
		return fmt.Sprintf("%02d", value)
	}
	return fmt.Sprintf("%04d", value)
}

// disjunctionOver ORs one query shape across several schema fields.
func disjunctionOver(schema domain.Schema, fields []string, build func(field string) query.Query) query.Query {
	children := make([]query.Query, 0, len(fields))
	for _, field := range fields {
		if !schema.Has(field) {
			continue
		}
		children = append(children, build(field))
	}
	if len(children) == 0 {
		return bleve.NewMatchNoneQuery()
	}
	if len(children) == 1 {
		return children[0]
	}
	return bleve.NewDisjunctionQuery(children...)
}

// applyBoost applies the schema's field weight to a scoring query.
func applyBoost(q query.BoostableQuery, spec domain.FieldSpec) {
	if spec.Boost > 0 && spec.Boost != 1 {
		q.SetBoost(spec.Boost)
	}
}

// sortFields renders plan sort keys as Bleve sort strings. Sortable
// text fields sort on their keyword companion; the document ID breaks
// remaining ties so pagination stays stable.
func sortFields(schema domain.Schema, sorts []domain.SortField) []string {
	out := make([]string, 0, len(sorts)+1)
	for _, s := range sorts {
		name := s.Field
		if spec, ok := schema.Field(name); ok && spec.Type == domain.FieldText && spec.Sortable {
			name += sortSuffix
		}
		if s.Descending {
			name = "-" + name
		}
		out = append(out, name)
	}
	return append(out, "_id")
}

// midnight reports whether a time sits exactly on a day boundary.
func midnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
