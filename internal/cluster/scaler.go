package cluster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/domain"
)

// NumericFeatures are the candidate clustering inputs, in column order.
var NumericFeatures = []domain.Column{
	domain.ColReleaseYear,
	domain.ColRuntime,
	domain.ColIMDBScore,
	domain.ColTMDBScore,
}

// Features returns the candidate features present in the corpus.
func Features(c *domain.Corpus) ([]domain.Column, error) {
	var out []domain.Column
	for _, col := range NumericFeatures {
		if c.Has(col) {
			out = append(out, col)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w (looked for %v)", domain.ErrNoNumericFeatures, NumericFeatures)
	}
	return out, nil
}

// Extract builds the raw feature matrix, one row per title. Missing values
// are filled with 0.
func Extract(c *domain.Corpus, features []domain.Column) *mat.Dense {
	x := mat.NewDense(c.Len(), len(features), nil)
	c.Each(func(i int, t domain.Title) {
		for j, col := range features {
			v, _ := t.Numeric(col)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			x.Set(i, j, v)
		}
	})
	return x
}

const constantTolerance = 1e-12

// Scaler standardizes each column to zero mean and unit variance using the
// population standard deviation.
type Scaler struct {
	Features []domain.Column
	Mean     []float64
	Std      []float64
}

// FitScaler computes per-column mean and standard deviation of x.
func FitScaler(features []domain.Column, x *mat.Dense) *Scaler {
	rows, cols := x.Dims()
	s := &Scaler{
		Features: features,
		Mean:     make([]float64, cols),
		Std:      make([]float64, cols),
	}
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		s.Mean[j], s.Std[j] = stat.PopMeanStdDev(col, nil)
		// rounding in the mean leaves a tiny spread on constant columns
		if s.Std[j] <= constantTolerance*math.Max(1, math.Abs(s.Mean[j])) {
			s.Std[j] = 0
		}
	}
	return s
}

// Transform returns a standardized copy of x. A zero-variance column maps
// to all zeros.
func (s *Scaler) Transform(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(i, j int, v float64) float64 {
		if s.Std[j] == 0 {
			return 0
		}
		return (v - s.Mean[j]) / s.Std[j]
	}, x)
	return out
}
