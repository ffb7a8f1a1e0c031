// Package similarity computes pairwise cosine similarity over TF-IDF rows and
// ranks a row of the result.
package similarity

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/textenc"
)

// Matrix is a dense, symmetric N×N cosine similarity matrix. Row and column
// i refer to position i of the corpus the TF-IDF rows were built from.
type Matrix struct {
	sym *mat.SymDense
}

// Build computes cosine similarity for every pair of rows. Rows are L2
// normalized, so each entry is a plain dot product. The diagonal is 1 even
// for rows whose text produced no vocabulary terms.
func Build(m *textenc.Matrix) (*Matrix, error) {
	if m == nil || len(m.Rows) == 0 {
		return nil, fmt.Errorf("similarity: no rows to compare")
	}
	n := len(m.Rows)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sym.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			sym.SetSym(i, j, m.Rows[i].Dot(m.Rows[j]))
		}
	}
	return &Matrix{sym: sym}, nil
}

// Len returns the number of titles covered.
func (s *Matrix) Len() int {
	if s == nil || s.sym == nil {
		return 0
	}
	return s.sym.SymmetricDim()
}

// At returns the similarity of titles i and j.
func (s *Matrix) At(i, j int) float64 { return s.sym.At(i, j) }

// Row returns a copy of row i.
func (s *Matrix) Row(i int) []float64 {
	n := s.Len()
	out := make([]float64, n)
	for j := 0; j < n; j++ {
		out[j] = s.sym.At(i, j)
	}
	return out
}

// Scored pairs a corpus position with its similarity to a query row.
type Scored struct {
	Index int
	Score float64
}

// Ranked returns every column of row i ordered by descending score. Equal
// scores keep ascending index order.
func (s *Matrix) Ranked(i int) []Scored {
	return rankDesc(s.Row(i))
}

func rankDesc(vals []float64) []Scored {
	out := make([]Scored, len(vals))
	for i, v := range vals {
		out[i] = Scored{Index: i, Score: v}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out
}
