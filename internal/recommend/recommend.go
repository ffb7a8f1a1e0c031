// Package recommend answers "titles like this one" queries against a corpus
// and its similarity matrix.
package recommend

import (
	"fmt"
	"strings"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/domain"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/similarity"
)

// DefaultTopK is used when a query asks for a non-positive number of results.
const DefaultTopK = 10

// DisplayColumns are shown for each recommendation when present in the corpus.
var DisplayColumns = []domain.Column{
	domain.ColTitle,
	domain.ColType,
	domain.ColGenresClean,
	domain.ColIMDBScore,
	domain.ColReleaseYear,
}

// Recommender is bound to one corpus snapshot and the matrix built from it.
type Recommender struct {
	corpus *domain.Corpus
	sim    *similarity.Matrix
	lower  []string
}

// New checks that corpus and matrix are aligned and that titles are available.
func New(c *domain.Corpus, sim *similarity.Matrix) (*Recommender, error) {
	if !c.Has(domain.ColTitle) {
		return nil, domain.ErrMissingTitleColumn
	}
	if sim.Len() != c.Len() {
		return nil, fmt.Errorf("similarity matrix misaligned: %d rows for %d titles", sim.Len(), c.Len())
	}
	r := &Recommender{corpus: c, sim: sim, lower: make([]string, c.Len())}
	c.Each(func(i int, t domain.Title) {
		r.lower[i] = strings.ToLower(t.Title)
	})
	return r, nil
}

// Match resolves a query to a corpus position. An exact case-insensitive
// match wins over a substring match; among several matches the earliest
// position is used.
func (r *Recommender) Match(title string) (int, bool) {
	q := strings.ToLower(title)
	for i, t := range r.lower {
		if t == q {
			return i, true
		}
	}
	for i, t := range r.lower {
		if strings.Contains(t, q) {
			return i, true
		}
	}
	return -1, false
}

// Recommend returns up to topK titles most similar to the matched title,
// never including the matched position itself. The boolean is false when
// nothing matched the query.
func (r *Recommender) Recommend(title string, topK int) ([]domain.Recommendation, bool) {
	idx, ok := r.Match(title)
	if !ok {
		return nil, false
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	out := make([]domain.Recommendation, 0, min(topK, r.corpus.Len()-1))
	for _, s := range r.sim.Ranked(idx) {
		if len(out) == topK {
			break
		}
		if s.Index == idx {
			continue
		}
		out = append(out, domain.Recommendation{Index: s.Index, Score: s.Score, Title: r.corpus.At(s.Index)})
	}
	return out, true
}

// Columns returns the display columns present in the corpus.
func (r *Recommender) Columns() []domain.Column {
	var out []domain.Column
	for _, col := range DisplayColumns {
		if r.corpus.Has(col) {
			out = append(out, col)
		}
	}
	return out
}
