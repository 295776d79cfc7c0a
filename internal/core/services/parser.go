package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docfind/internal/core/domain"
	"github.com/custodia-labs/docfind/internal/logger"
)

// Fields searched when a term carries no field prefix.
var (
	simpleQueryFields   = []string{"title", "content", "tags"}
	advancedQueryFields = []string{"title", "content", "tags", "keywords"}
	fallbackQueryFields = []string{"title", "content"}
)

var (
	fieldMarkerPattern = regexp.MustCompile(`(\w+):`)
	fuzzyMarkerPattern = regexp.MustCompile(`~\d*(\s|$)`)
	boolMarkerPattern  = regexp.MustCompile(`\b(AND|OR|NOT)\b`)
	notPrefixPattern   = regexp.MustCompile(`(^|\s)[!-]\w`)
	rangeBodyPattern   = regexp.MustCompile(`^\s*(.*?)\s+TO\s+(.*?)\s*$`)
	fuzzyTermPattern   = regexp.MustCompile(`^(.+?)~(\d*)$`)
	lastDaysPattern    = regexp.MustCompile(`(?i)\blast\s+(\d+\s+)?days?\b`)
)

// relativeDatePhrases maps date shorthand to a day span. Matches are
// removed from the query and become modified_at range nodes.
var relativeDatePhrases = []struct {
	pattern *regexp.Regexp
	days    func(match []string) int
}{
	{lastDaysPattern, func(m []string) int {
		if strings.TrimSpace(m[1]) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(m[1]))
			if err == nil {
				return n
			}
		}
		return 1
	}},
	{regexp.MustCompile(`(?i)\blast\s+week\b`), func([]string) int { return 7 }},
	{regexp.MustCompile(`(?i)\blast\s+month\b`), func([]string) int { return 30 }},
	{regexp.MustCompile(`(?i)\blast\s+year\b`), func([]string) int { return 365 }},
	{regexp.MustCompile(`(?i)\btoday\b`), func([]string) int { return 0 }},
	{regexp.MustCompile(`(?i)\byesterday\b`), func([]string) int { return 1 }},
}

// QueryParser turns query strings into query trees. Parsing never
// fails: malformed input degrades to a fallback OR-of-terms query.
type QueryParser struct {
	schema domain.Schema
	now    func() time.Time
}

// NewQueryParser creates a parser bound to a schema.
func NewQueryParser(schema domain.Schema) *QueryParser {
	return &QueryParser{
		schema: schema,
		now:    time.Now,
	}
}

// Parse parses a query string. The advanced flag forces the
// field-aware parser even without advanced syntax markers.
func (p *QueryParser) Parse(queryString string, advanced bool) domain.Query {
	qs := strings.TrimSpace(queryString)
	if qs == "" {
		return domain.MatchAllQuery{}
	}

	qs = preprocessOperators(qs)
	qs, dateRanges := p.extractDateRanges(qs)
	qs = strings.TrimSpace(qs)

	var parsed domain.Query
	if qs != "" {
		var err error
		if advanced || p.isAdvanced(qs) {
			parsed, err = p.parseAdvanced(qs)
		} else {
			parsed, err = p.parseSimple(qs)
		}
		if err != nil {
			logger.Warn("Failed to parse query %q: %v", queryString, err)
			parsed = p.fallbackQuery(qs)
		}
	}

	switch {
	case parsed == nil && len(dateRanges) == 0:
		return domain.MatchAllQuery{}
	case parsed == nil && len(dateRanges) == 1:
		return dateRanges[0]
	case parsed == nil:
		return domain.AndQuery{Children: dateRanges}
	case len(dateRanges) == 0:
		return parsed
	default:
		return domain.AndQuery{Children: append([]domain.Query{parsed}, dateRanges...)}
	}
}

// BuildFilterQuery combines field filters into a single query tree.
// Returns nil when no usable filter remains. Unknown or unfilterable
// fields are skipped with a warning rather than failing the search.
func (p *QueryParser) BuildFilterQuery(filters map[string]domain.FilterValue) domain.Query {
	if len(filters) == 0 {
		return nil
	}

	// Map iteration order is random; keep filter order stable.
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var queries []domain.Query
	for _, field := range fields {
		spec, ok := p.schema.Field(field)
		if !ok {
			logger.Warn("Unknown filter field: %s", field)
			continue
		}
		if spec.Type == domain.FieldStored {
			logger.Warn("Filter field is not searchable: %s", field)
			continue
		}

		value := filters[field]
		switch value.Kind {
		case domain.FilterSingle:
			queries = append(queries, domain.FieldTermQuery{Field: field, Term: value.Single})
		case domain.FilterList:
			terms := make([]domain.Query, 0, len(value.List))
			for _, v := range value.List {
				terms = append(terms, domain.FieldTermQuery{Field: field, Term: v})
			}
			if len(terms) == 1 {
				queries = append(queries, terms[0])
			} else if len(terms) > 1 {
				queries = append(queries, domain.OrQuery{Children: terms})
			}
		case domain.FilterRange:
			rq, err := p.rangeQuery(spec, value.From, value.To)
			if err != nil {
				logger.Warn("Invalid range filter on %s: %v", field, err)
				continue
			}
			queries = append(queries, rq)
		}
	}

	if len(queries) == 0 {
		return nil
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return domain.AndQuery{Children: queries}
}

// ExtractFacetFields returns the default facet fields plus any schema
// field referenced with field: syntax in the query.
func (p *QueryParser) ExtractFacetFields(queryString string) []string {
	fields := []string{"format", "category", "tags", "status", "year"}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		seen[f] = true
	}

	for _, match := range fieldMarkerPattern.FindAllStringSubmatch(queryString, -1) {
		field := match[1]
		if p.schema.Has(field) && !seen[field] {
			fields = append(fields, field)
			seen[field] = true
		}
	}
	return fields
}

// isAdvanced reports whether the query needs the field-aware parser.
// Phrases stay in the simple parser; negation prefixes do not.
func (p *QueryParser) isAdvanced(qs string) bool {
	if strings.ContainsAny(qs, "*?") {
		return true
	}
	if fuzzyMarkerPattern.MatchString(qs) {
		return true
	}
	if boolMarkerPattern.MatchString(qs) {
		return true
	}
	if notPrefixPattern.MatchString(qs) {
		return true
	}
	return strings.Contains(qs, ":")
}

// preprocessOperators rewrites shorthand boolean operators into
// keyword form.
func preprocessOperators(qs string) string {
	replacements := [][2]string{
		{" && ", " AND "},
		{" || ", " OR "},
		{" ! ", " NOT "},
		{" + ", " AND "},
		{" - ", " NOT "},
	}
	for _, r := range replacements {
		qs = strings.ReplaceAll(qs, r[0], r[1])
	}
	return qs
}

// extractDateRanges strips relative date phrases from the query and
// returns them as modified_at ranges anchored to now.
func (p *QueryParser) extractDateRanges(qs string) (string, []domain.Query) {
	now := p.now()

	var ranges []domain.Query
	for _, phrase := range relativeDatePhrases {
		match := phrase.pattern.FindStringSubmatch(qs)
		if match == nil {
			continue
		}

		days := phrase.days(match)
		start := now.AddDate(0, 0, -days)
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

		ranges = append(ranges, domain.RangeQuery{
			Field: "modified_at",
			Start: start,
			End:   now,
		})
		qs = phrase.pattern.ReplaceAllString(qs, " ")
	}
	return qs, ranges
}

// parseSimple OR-combines terms and phrases across the simple field
// set. Boolean keywords never reach this path; the advanced detector
// routes them away.
func (p *QueryParser) parseSimple(qs string) (domain.Query, error) {
	tokens, err := scanQueryTokens(qs)
	if err != nil {
		return nil, err
	}

	var children []domain.Query
	for _, tok := range tokens {
		switch tok.kind {
		case tokenTerm:
			children = append(children, expandTerm(tok.text, simpleQueryFields))
		case tokenPhrase:
			children = append(children, expandPhrase(tok.text, simpleQueryFields))
		}
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("no searchable terms")
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return domain.OrQuery{Children: children}, nil
}

// parseAdvanced runs the full field-aware grammar: boolean operators
// with OR below AND, NOT as a prefix, parenthesized groups, fielded
// terms, phrases, wildcards, fuzzy suffixes and ranges.
func (p *QueryParser) parseAdvanced(qs string) (domain.Query, error) {
	tokens, err := scanQueryTokens(qs)
	if err != nil {
		return nil, err
	}

	parser := &astParser{parser: p, tokens: tokens}
	query, err := parser.parseExpr()
	if err != nil {
		return nil, err
	}
	if !parser.eof() {
		return nil, fmt.Errorf("unexpected %q", parser.peek().text)
	}
	return query, nil
}

// fallbackQuery builds the degraded OR-of-terms query used when
// parsing fails.
func (p *QueryParser) fallbackQuery(qs string) domain.Query {
	var children []domain.Query
	for _, raw := range strings.Fields(qs) {
		term := strings.ToLower(strings.Trim(raw, `"'()[]`))
		if term == "" {
			continue
		}
		for _, field := range fallbackQueryFields {
			children = append(children, domain.FieldTermQuery{Field: field, Term: term})
		}
	}

	if len(children) == 0 {
		return domain.MatchAllQuery{}
	}
	if len(children) == 1 {
		return children[0]
	}
	return domain.OrQuery{Children: children}
}

// rangeQuery builds a typed range node from string bounds. The "*"
// bound and the empty string are open.
func (p *QueryParser) rangeQuery(spec domain.FieldSpec, from, to string) (domain.Query, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "*" {
		from = ""
	}
	if to == "*" {
		to = ""
	}
	if from == "" && to == "" {
		return nil, fmt.Errorf("range has no bounds")
	}

	switch spec.Type {
	case domain.FieldDatetime:
		rq := domain.RangeQuery{Field: spec.Name}
		if from != "" {
			start, err := parseDateBound(from)
			if err != nil {
				return nil, err
			}
			rq.Start = start
		}
		if to != "" {
			end, err := parseDateBound(to)
			if err != nil {
				return nil, err
			}
			rq.End = end
		}
		return rq, nil

	case domain.FieldNumeric:
		rq := domain.RangeQuery{Field: spec.Name}
		if from != "" {
			min, err := strconv.ParseFloat(from, 64)
			if err != nil {
				return nil, fmt.Errorf("bad numeric bound %q", from)
			}
			rq.Min = &min
		}
		if to != "" {
			max, err := strconv.ParseFloat(to, 64)
			if err != nil {
				return nil, fmt.Errorf("bad numeric bound %q", to)
			}
			rq.Max = &max
		}
		return rq, nil

	default:
		return nil, fmt.Errorf("field %s does not support ranges", spec.Name)
	}
}

// parseDateBound accepts ISO dates, compact dates and RFC3339 stamps.
func parseDateBound(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "20060102", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date bound %q", s)
}

// expandTerm searches one term across several fields.
func expandTerm(term string, fields []string) domain.Query {
	children := make([]domain.Query, 0, len(fields))
	for _, f := range fields {
		children = append(children, domain.FieldTermQuery{Field: f, Term: term})
	}
	if len(children) == 1 {
		return children[0]
	}
	return domain.OrQuery{Children: children}
}

// expandPhrase searches one phrase across several fields.
func expandPhrase(phrase string, fields []string) domain.Query {
	children := make([]domain.Query, 0, len(fields))
	for _, f := range fields {
		children = append(children, domain.PhraseQuery{Field: f, Phrase: phrase})
	}
	if len(children) == 1 {
		return children[0]
	}
	return domain.OrQuery{Children: children}
}

// expandWildcard searches one pattern across several fields.
func expandWildcard(pattern string, fields []string) domain.Query {
	children := make([]domain.Query, 0, len(fields))
	for _, f := range fields {
		children = append(children, domain.WildcardQuery{Field: f, Pattern: pattern})
	}
	if len(children) == 1 {
		return children[0]
	}
	return domain.OrQuery{Children: children}
}

// expandFuzzy searches one fuzzy term across several fields.
func expandFuzzy(term string, distance int, fields []string) domain.Query {
	children := make([]domain.Query, 0, len(fields))
	for _, f := range fields {
		children = append(children, domain.FuzzyQuery{Field: f, Term: term, Distance: distance})
	}
	if len(children) == 1 {
		return children[0]
	}
	return domain.OrQuery{Children: children}
}
