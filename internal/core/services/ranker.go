package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/docfind/internal/core/domain"
)

// Boost factors applied on top of the BM25 base score.
const (
	boostTitleMatch      = 2.0
	boostExactMatch      = 3.0
	boostModifiedWeek    = 1.5
	boostModifiedMonth   = 1.3
	boostModifiedQuarter = 1.1
	boostStaleYear       = 0.9
	boostPreferredFormat = 1.1
	boostPopularHigh     = 1.2
	boostPopularMid      = 1.1
)

// Ranker rescores hits on top of their lexical base score and orders
// them deterministically.
type Ranker struct {
	now func() time.Time
}

// NewRanker creates a ranker.
func NewRanker() *Ranker {
	return &Ranker{now: time.Now}
}

// Rank multiplies each hit's base score by its boost factors and
// returns the hits ordered by final score. Ties break by modified_at
// descending, then by document ID ascending, so repeated searches
// paginate identically.
func (r *Ranker) Rank(hits []domain.Hit, queryString string, preferredFormats []string) []domain.Hit {
	if len(hits) == 0 {
		return hits
	}

	ranked := make([]domain.Hit, len(hits))
	copy(ranked, hits)

	for i := range ranked {
		ranked[i].Score *= r.boost(ranked[i], queryString, preferredFormats)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.ModifiedAt.Equal(b.ModifiedAt) {
			return a.ModifiedAt.After(b.ModifiedAt)
		}
		return a.DocumentID < b.DocumentID
	})
	return ranked
}

// ScoreExplanation breaks a hit's score into its factors, keyed by
// factor name.
type ScoreExplanation struct {
	BaseScore  float64
	Boost      float64
	FinalScore float64
	Factors    map[string]float64
}

// Explain reports which boost factors apply to a hit. Factors at 1.0
// are omitted.
func (r *Ranker) Explain(hit domain.Hit, queryString string, preferredFormats []string) ScoreExplanation {
	factors := make(map[string]float64)

	if titleMatches(hit.Title, queryString) {
		factors["title_match"] = boostTitleMatch
	}
	if exactMatches(hit, queryString) {
		factors["exact_match"] = boostExactMatch
	}
	if b := r.recencyBoost(hit.ModifiedAt); b != 1.0 {
		factors["recency"] = b
	}
	if b := formatBoost(hit.Format, preferredFormats); b != 1.0 {
		factors["format_preference"] = b
	}
	if b := popularityBoost(hit.DocScore); b != 1.0 {
		factors["popularity"] = b
	}

	boost := 1.0
	for _, b := range factors {
		boost *= b
	}
	return ScoreExplanation{
		BaseScore:  hit.Score,
		Boost:      boost,
		FinalScore: hit.Score * boost,
		Factors:    factors,
	}
}

// RelevanceFeedback scores how each hit performed against observed
// behavior: clicked documents earn positive feedback discounted by
// how high they already ranked, ignored documents earn a matching
// penalty. Position i carries weight log2(i+2).
func (r *Ranker) RelevanceFeedback(hits []domain.Hit, clicked, ignored []string) map[string]float64 {
	clickedSet := make(map[string]bool, len(clicked))
	for _, id := range clicked {
		clickedSet[id] = true
	}
	ignoredSet := make(map[string]bool, len(ignored))
	for _, id := range ignored {
		ignoredSet[id] = true
	}

	feedback := make(map[string]float64, len(hits))
	for i, hit := range hits {
		penalty := math.Log2(float64(i + 2))
		switch {
		case clickedSet[hit.DocumentID]:
			feedback[hit.DocumentID] = 1.0 / penalty
		case ignoredSet[hit.DocumentID]:
			feedback[hit.DocumentID] = -penalty
		default:
			feedback[hit.DocumentID] = 0.0
		}
	}
	return feedback
}

func (r *Ranker) boost(hit domain.Hit, queryString string, preferredFormats []string) float64 {
	boost := 1.0
	if titleMatches(hit.Title, queryString) {
		boost *= boostTitleMatch
	}
	if exactMatches(hit, queryString) {
		boost *= boostExactMatch
	}
	boost *= r.recencyBoost(hit.ModifiedAt)
	boost *= formatBoost(hit.Format, preferredFormats)
	boost *= popularityBoost(hit.DocScore)
	return boost
}

// recencyBoost favors recently modified documents and demotes stale
// ones.
func (r *Ranker) recencyBoost(modifiedAt time.Time) float64 {
	if modifiedAt.IsZero() {
		return 1.0
	}

	ageDays := int(r.now().Sub(modifiedAt).Hours() / 24)
	switch {
	case ageDays < 7:
		return boostModifiedWeek
	case ageDays < 30:
		return boostModifiedMonth
	case ageDays < 90:
		return boostModifiedQuarter
	case ageDays > 365:
		return boostStaleYear
	default:
		return 1.0
	}
}

// titleMatches reports whether any query term appears in the title.
func titleMatches(title, queryString string) bool {
	if title == "" {
		return false
	}
	title = strings.ToLower(title)
	for _, term := range strings.Fields(strings.ToLower(queryString)) {
		if strings.Contains(title, term) {
			return true
		}
	}
	return false
}

// exactMatches reports whether the de-quoted query appears verbatim
// in the title or snippet.
func exactMatches(hit domain.Hit, queryString string) bool {
	clean := strings.ToLower(strings.Trim(queryString, `"`))
	if clean == "" {
		return false
	}
	if strings.Contains(strings.ToLower(hit.Title), clean) {
		return true
	}
	return strings.Contains(strings.ToLower(hit.Snippet), clean)
}

func formatBoost(format string, preferredFormats []string) float64 {
	for _, preferred := range preferredFormats {
		if strings.EqualFold(format, preferred) {
			return boostPreferredFormat
		}
	}
	return 1.0
}

// popularityBoost rewards documents with a high precomputed score.
func popularityBoost(score float64) float64 {
	switch {
	case score > 0.8:
		return boostPopularHigh
	case score > 0.5:
		return boostPopularMid
	default:
		return 1.0
	}
}
