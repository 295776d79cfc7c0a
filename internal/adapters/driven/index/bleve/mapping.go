package bleve

import (
	"fmt"

	bleve "github.com/blevesearch/bleve/v2"
	_ "github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	_ "github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	_ "github.com/blevesearch/bleve/v2/analysis/token/porter"
	_ "github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	_ "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

// Analyzer names registered on the index mapping.
const (
	// analyzerStem tokenizes on word boundaries, lower-cases and
	// applies the Porter stemmer. Used for all text fields.
	analyzerStem = "en_stem"

	// analyzerKeyword keeps the whole value as one lower-cased
	// token. Used for keyword fields: case-folded, never stemmed.
	analyzerKeyword = "keyword_lc"
)

// sortSuffix names the unstored keyword companion indexed next to
// sortable text fields. Sorting an analyzed text field would order
// by its lowest token, so sorts go against the companion instead.
const sortSuffix = "_sort"

// calendarFields are numeric in the schema but indexed as zero-padded
// strings: term facets read raw index terms, and numeric terms are
// prefix-coded binary rather than display values.
var calendarFields = map[string]bool{
	"year":  true,
	"month": true,
}

// buildIndexMapping translates the schema into a Bleve index mapping.
// Every searchable field carries an explicit analyzer.
func buildIndexMapping(schema domain.Schema) (mapping.IndexMapping, error) {
	m := bleve.NewIndexMapping()

	err := m.AddCustomAnalyzer(analyzerStem, map[string]interface{}{
		"type":          "custom",
		"tokenizer":     "unicode",
		"token_filters": []string{"to_lower", "stemmer_porter"},
	})
	if err != nil {
		return nil, fmt.Errorf("register %s analyzer: %w", analyzerStem, err)
	}

	err = m.AddCustomAnalyzer(analyzerKeyword, map[string]interface{}{
		"type":          "custom",
		"tokenizer":     "single",
		"token_filters": []string{"to_lower"},
	})
	if err != nil {
		return nil, fmt.Errorf("register %s analyzer: %w", analyzerKeyword, err)
	}

	docMapping := bleve.NewDocumentStaticMapping()
	for _, spec := range schema.Fields() {
		docMapping.AddFieldMappingsAt(spec.Name, fieldMapping(spec))

		if spec.Type == domain.FieldText && spec.Sortable {
			docMapping.AddFieldMappingsAt(spec.Name+sortSuffix, sortFieldMapping())
		}
	}

	m.DefaultMapping = docMapping
	m.DefaultAnalyzer = analyzerStem
	m.ScoringModel = "bm25"
	return m, nil
}

// fieldMapping builds the Bleve field mapping for one schema field.
func fieldMapping(spec domain.FieldSpec) *mapping.FieldMapping {
	switch spec.Type {
	case domain.FieldKeyword:
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = analyzerKeyword
		fm.Store = spec.Stored
		fm.IncludeInAll = false
		fm.IncludeTermVectors = false
		return fm

	case domain.FieldNumeric:
		if calendarFields[spec.Name] {
			fm := bleve.NewTextFieldMapping()
			fm.Analyzer = analyzerKeyword
			fm.Store = spec.Stored
			fm.IncludeInAll = false
			fm.IncludeTermVectors = false
			return fm
		}
		fm := bleve.NewNumericFieldMapping()
		fm.Store = spec.Stored
		fm.IncludeInAll = false
		return fm

	case domain.FieldDatetime:
		fm := bleve.NewDateTimeFieldMapping()
		fm.Store = spec.Stored
		fm.IncludeInAll = false
		return fm

	case domain.FieldStored:
		fm := bleve.NewTextFieldMapping()
		fm.Index = false
		fm.Store = true
		fm.IncludeInAll = false
		fm.IncludeTermVectors = false
		return fm

	default:
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = analyzerStem
		fm.Store = spec.Stored
		fm.IncludeInAll = false
		fm.IncludeTermVectors = false
		return fm
	}
}

// sortFieldMapping builds the index-only keyword companion used to
// sort text fields.
func sortFieldMapping() *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	fm.Analyzer = analyzerKeyword
	fm.Store = false
	fm.IncludeInAll = false
	fm.IncludeTermVectors = false
	return fm
}
