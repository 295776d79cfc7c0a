package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/docfind/internal/core/domain"
	"github.com/custodia-labs/docfind/internal/logger"
)

type tokenKind int

const (
	tokenTerm tokenKind = iota
	tokenPhrase
	tokenRange
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

// queryToken is one lexical unit of a query string. For fielded
// values the field prefix is carried alongside the text.
type queryToken struct {
	kind  tokenKind
	field string
	text  string
}

// scanQueryTokens splits a query string into tokens. It returns an
// error on unbalanced quotes or an unterminated range, which callers
// turn into a fallback query.
func scanQueryTokens(qs string) ([]queryToken, error) {
	runes := []rune(qs)
	var tokens []queryToken

	pos := 0
	for pos < len(runes) {
		r := runes[pos]
		switch {
		case r == ' ' || r == '\t' || r == '\n':
			pos++

		case r == '(':
			tokens = append(tokens, queryToken{kind: tokenLParen})
			pos++

		case r == ')':
			tokens = append(tokens, queryToken{kind: tokenRParen})
			pos++

		case r == '"':
			text, next, err := scanQuoted(runes, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, queryToken{kind: tokenPhrase, text: text})
			pos = next

		case (r == '!' || r == '-') && pos+1 < len(runes) && !isTokenBoundary(runes[pos+1]):
			tokens = append(tokens, queryToken{kind: tokenNot})
			pos++

		case r == '+' && pos+1 < len(runes) && !isTokenBoundary(runes[pos+1]):
			// Required-term marker; AND grouping already requires it.
			pos++

		default:
			tok, next, err := scanWord(runes, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			pos = next
		}
	}
	return tokens, nil
}

func isTokenBoundary(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '(' || r == ')'
}

// scanQuoted reads a double-quoted phrase starting at pos.
func scanQuoted(runes []rune, pos int) (string, int, error) {
	end := pos + 1
	for end < len(runes) && runes[end] != '"' {
		end++
	}
	if end >= len(runes) {
		return "", 0, fmt.Errorf("unbalanced quote")
	}
	return string(runes[pos+1 : end]), end + 1, nil
}

// scanWord reads a bare word, a field:value pair, a fielded phrase or
// a fielded range starting at pos.
func scanWord(runes []rune, pos int) (queryToken, int, error) {
	var sb strings.Builder
	var field string

	for pos < len(runes) {
		r := runes[pos]
		if isTokenBoundary(r) || r == '"' {
			break
		}

		if r == ':' && field == "" && sb.Len() > 0 {
			field = sb.String()
			sb.Reset()
			pos++

			if pos < len(runes) && runes[pos] == '"' {
				text, next, err := scanQuoted(runes, pos)
				if err != nil {
					return queryToken{}, 0, err
				}
				return queryToken{kind: tokenPhrase, field: field, text: text}, next, nil
			}
			if pos < len(runes) && runes[pos] == '[' {
				body, next, err := scanRangeBody(runes, pos)
				if err != nil {
					return queryToken{}, 0, err
				}
				return queryToken{kind: tokenRange, field: field, text: body}, next, nil
			}
			continue
		}

		sb.WriteRune(r)
		pos++
	}

	word := sb.String()
	if field == "" {
		switch word {
		case "AND", "&&":
			return queryToken{kind: tokenAnd}, pos, nil
		case "OR", "||":
			return queryToken{kind: tokenOr}, pos, nil
		case "NOT", "!":
			return queryToken{kind: tokenNot}, pos, nil
		}
	}
	if word == "" {
		return queryToken{}, 0, fmt.Errorf("missing value for field %q", field)
	}
	return queryToken{kind: tokenTerm, field: field, text: word}, pos, nil
}

// scanRangeBody reads a bracketed range body, spaces included.
func scanRangeBody(runes []rune, pos int) (string, int, error) {
	end := pos + 1
	for end < len(runes) && runes[end] != ']' {
		end++
	}
	if end >= len(runes) {
		return "", 0, fmt.Errorf("unterminated range")
	}
	return string(runes[pos+1 : end]), end + 1, nil
}

// astParser is a recursive-descent parser over scanned tokens.
// Precedence from loosest to tightest: OR, AND (implicit between
// adjacent factors), NOT, primary.
type astParser struct {
	parser *QueryParser
	tokens []queryToken
	pos    int
}

func (a *astParser) eof() bool {
	return a.pos >= len(a.tokens)
}

func (a *astParser) peek() queryToken {
	if a.eof() {
		return queryToken{}
	}
	return a.tokens[a.pos]
}

func (a *astParser) parseExpr() (domain.Query, error) {
	left, err := a.parseAndGroup()
	if err != nil {
		return nil, err
	}

	children := []domain.Query{left}
	for !a.eof() && a.peek().kind == tokenOr {
		a.pos++
		right, err := a.parseAndGroup()
		if err != nil {
			return nil, err
		}
		children = append(children, right)
	}

	if len(children) == 1 {
		return children[0], nil
	}
	return domain.OrQuery{Children: children}, nil
}

func (a *astParser) parseAndGroup() (domain.Query, error) {
	var children []domain.Query
	for !a.eof() {
		kind := a.peek().kind
		if kind == tokenOr || kind == tokenRParen {
			break
		}
		if kind == tokenAnd {
			a.pos++
			continue
		}

		child, err := a.parseUnary()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	if len(children) == 0 {
		return nil, fmt.Errorf("empty group")
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return domain.AndQuery{Children: children}, nil
}

func (a *astParser) parseUnary() (domain.Query, error) {
	if !a.eof() && a.peek().kind == tokenNot {
		a.pos++
		child, err := a.parseUnary()
		if err != nil {
			return nil, err
		}
		return domain.NotQuery{Child: child}, nil
	}
	return a.parsePrimary()
}

func (a *astParser) parsePrimary() (domain.Query, error) {
	if a.eof() {
		return nil, fmt.Errorf("unexpected end of query")
	}

	tok := a.peek()
	a.pos++

	switch tok.kind {
	case tokenLParen:
		inner, err := a.parseExpr()
		if err != nil {
			return nil, err
		}
		if a.eof() || a.peek().kind != tokenRParen {
			return nil, fmt.Errorf("unbalanced parenthesis")
		}
		a.pos++
		return inner, nil

	case tokenPhrase:
		if tok.field != "" {
			if resolved := a.resolveField(tok.field); resolved != "" {
				return domain.PhraseQuery{Field: resolved, Phrase: tok.text}, nil
			}
		}
		return expandPhrase(tok.text, advancedQueryFields), nil

	case tokenRange:
		return a.parseRange(tok)

	case tokenTerm:
		return a.parseTerm(tok)

	default:
		return nil, fmt.Errorf("unexpected token")
	}
}

// parseTerm classifies a word token as wildcard, fuzzy or plain term.
func (a *astParser) parseTerm(tok queryToken) (domain.Query, error) {
	text := tok.text

	if m := fuzzyTermPattern.FindStringSubmatch(text); m != nil && !strings.ContainsAny(text, "*?") {
		distance := 1
		if m[2] != "" {
			if n, err := strconv.Atoi(m[2]); err == nil && n > 0 {
				distance = n
			}
		}
		if distance > 2 {
			distance = 2
		}
		if tok.field != "" {
			if resolved := a.resolveField(tok.field); resolved != "" {
				return domain.FuzzyQuery{Field: resolved, Term: m[1], Distance: distance}, nil
			}
		}
		return expandFuzzy(m[1], distance, advancedQueryFields), nil
	}

	if strings.ContainsAny(text, "*?") {
		if tok.field != "" {
			if resolved := a.resolveField(tok.field); resolved != "" {
				return domain.WildcardQuery{Field: resolved, Pattern: text}, nil
			}
		}
		return expandWildcard(text, advancedQueryFields), nil
	}

	if tok.field != "" {
		resolved := a.resolveField(tok.field)
		if resolved == "" {
			// Unknown field: search the raw value as plain text.
			return expandTerm(text, advancedQueryFields), nil
		}
		return domain.FieldTermQuery{Field: resolved, Term: text}, nil
	}
	return expandTerm(text, advancedQueryFields), nil
}

// parseRange builds a typed range node from a bracketed token.
func (a *astParser) parseRange(tok queryToken) (domain.Query, error) {
	spec, ok := a.parser.schema.Field(tok.field)
	if !ok {
		return nil, fmt.Errorf("unknown range field %q", tok.field)
	}

	m := rangeBodyPattern.FindStringSubmatch(tok.text)
	if m == nil {
		return nil, fmt.Errorf("malformed range %q", tok.text)
	}
	return a.parser.rangeQuery(spec, m[1], m[2])
}

// resolveField returns the schema field name, or "" when unknown.
func (a *astParser) resolveField(field string) string {
	if a.parser.schema.Has(field) {
		return field
	}
	logger.Debug("Unknown query field %q, searching as text", field)
	return ""
}
