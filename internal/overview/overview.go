// Package overview computes the aggregate views shown on the dashboard's
// first page.
package overview

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/domain"
)

// DefaultHistogramBins is the number of score histogram bins.
const DefaultHistogramBins = 20

// YearCount is the number of titles released in a year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// GenreCount is the number of titles tagged with a genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Bin is one histogram bucket covering [Low, High).
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// TitlesPerYear counts titles by release year, oldest first. Titles without
// a year are skipped.
func TitlesPerYear(c *domain.Corpus) []YearCount {
	if !c.Has(domain.ColReleaseYear) {
		return nil
	}
	counts := make(map[int]int)
	c.Each(func(_ int, t domain.Title) {
		if t.ReleaseYear != nil {
			counts[*t.ReleaseYear]++
		}
	})
	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// TopGenres returns the n most common genres, most common first and ties by
// name.
func TopGenres(c *domain.Corpus, n int) []GenreCount {
	counts := make(map[string]int)
	c.Each(func(_ int, t domain.Title) {
		if t.GenresClean == "" {
			return
		}
		for _, g := range strings.Split(t.GenresClean, ", ") {
			counts[g]++
		}
	})
	out := make([]GenreCount, 0, len(counts))
	for g, k := range counts {
		out = append(out, GenreCount{Genre: g, Count: k})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Genre < out[j].Genre
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ScoreHistogram buckets the non-missing IMDB scores into equal-width bins
// over the observed range. The top bin includes the maximum.
func ScoreHistogram(c *domain.Corpus, bins int) []Bin {
	if !c.Has(domain.ColIMDBScore) {
		return nil
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	var scores []float64
	c.Each(func(_ int, t domain.Title) {
		if t.IMDBScore != nil {
			scores = append(scores, *t.IMDBScore)
		}
	})
	if len(scores) == 0 {
		return nil
	}
	sort.Float64s(scores)

	lo, hi := scores[0], scores[len(scores)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	edges := make([]float64, len(dividers))
	copy(edges, dividers)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, scores, nil)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Low: edges[i], High: edges[i+1], Count: int(counts[i])}
	}
	return out
}
