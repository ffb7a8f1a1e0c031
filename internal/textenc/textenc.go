// Package textenc turns each title into a TF-IDF document vector built from
// its genre tokens and description.
package textenc

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/domain"
)

// DefaultMaxFeatures caps the vocabulary when the caller passes zero.
const DefaultMaxFeatures = 5000

// Vector is a sparse, L2-normalized row. Indices are ascending.
type Vector struct {
	Indices []int
	Values  []float64
}

// Dot returns the inner product of two sparse vectors.
func (v Vector) Dot(o Vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	s := 0.0
	for _, x := range v.Values {
		s += x * x
	}
	return math.Sqrt(s)
}

// Encoder is a fitted TF-IDF vectorizer. It is immutable once returned by Fit.
type Encoder struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
}

// Matrix holds one encoded row per title, aligned to the corpus it was fitted on.
type Matrix struct {
	Rows []Vector
	Cols int
}

var tokenPattern = regexp.MustCompile(`\p{L}[\p{L}\p{N}_]+|\p{N}[\p{L}\p{N}_]+`)

// Document joins genre tokens and description, genres first.
func Document(t domain.Title) string {
	return t.GenresBag + " " + t.Description
}

// Fit builds the vocabulary from the corpus and encodes every title.
// The vocabulary keeps the maxFeatures most frequent non-stop-word terms,
// ties broken alphabetically.
func Fit(c *domain.Corpus, maxFeatures int) (*Encoder, *Matrix, error) {
	if c.Len() == 0 {
		return nil, nil, domain.ErrEmptyCorpus
	}
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	docs := make([][]string, c.Len())
	tf := make(map[string]int)
	df := make(map[string]int)
	c.Each(func(i int, t domain.Title) {
		docs[i] = tokenize(Document(t))
		seen := make(map[string]struct{}, len(docs[i]))
		for _, tok := range docs[i] {
			tf[tok]++
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	})
	if len(tf) == 0 {
		return nil, nil, fmt.Errorf("%w (%d documents)", domain.ErrEmptyVocabulary, c.Len())
	}

	terms := make([]string, 0, len(tf))
	for term := range tf {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if tf[terms[i]] != tf[terms[j]] {
			return tf[terms[i]] > tf[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	e := &Encoder{
		vocabulary: make(map[string]int, len(terms)),
		terms:      terms,
		idf:        make([]float64, len(terms)),
	}
	n := float64(c.Len())
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	m := &Matrix{Rows: make([]Vector, len(docs)), Cols: len(terms)}
	for i, tokens := range docs {
		m.Rows[i] = e.encode(tokens)
	}
	return e, m, nil
}

// Transform encodes free text with the fitted vocabulary.
func (e *Encoder) Transform(text string) Vector {
	return e.encode(tokenize(text))
}

// Vocabulary returns the terms in column order.
func (e *Encoder) Vocabulary() []string {
	out := make([]string, len(e.terms))
	copy(out, e.terms)
	return out
}

// IDF returns the inverse document frequency of term and whether it is known.
func (e *Encoder) IDF(term string) (float64, bool) {
	idx, ok := e.vocabulary[term]
	if !ok {
		return 0, false
	}
	return e.idf[idx], true
}

// Len returns the vocabulary size.
func (e *Encoder) Len() int { return len(e.terms) }

func (e *Encoder) encode(tokens []string) Vector {
	counts := make(map[int]int)
	for _, tok := range tokens {
		if idx, ok := e.vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	v := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		v.Indices = append(v.Indices, idx)
	}
	sort.Ints(v.Indices)
	for _, idx := range v.Indices {
		v.Values = append(v.Values, float64(counts[idx])*e.idf[idx])
	}
	// L2 normalize
	if norm := v.Norm(); norm > 0 {
		for i := range v.Values {
			v.Values[i] /= norm
		}
	}
	return v
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}
