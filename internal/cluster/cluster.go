// Package cluster groups titles by their numeric attributes with standardized
// k-means and summarizes the resulting groups.
package cluster

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/domain"
)

// Result is everything produced by a clustering run over one corpus.
type Result struct {
	Scaler *Scaler
	Model  *KMeans
	// Labels[i] is the cluster of corpus position i.
	Labels []int
}

// Fit selects the available numeric features, fills missing values with 0,
// standardizes and clusters.
func Fit(c *domain.Corpus, opts Options) (*Result, error) {
	if c.Len() == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	features, err := Features(c)
	if err != nil {
		return nil, err
	}
	raw := Extract(c, features)
	scaler := FitScaler(features, raw)
	model, labels, err := FitKMeans(scaler.Transform(raw), opts)
	if err != nil {
		return nil, err
	}
	return &Result{Scaler: scaler, Model: model, Labels: labels}, nil
}

// Stats describes one cluster. Mean scores are nil when the column is absent
// from the corpus or no member has a value.
type Stats struct {
	Cluster   int      `json:"cluster"`
	Size      int      `json:"size"`
	IMDBScore *float64 `json:"imdb_score,omitempty"`
	TMDBScore *float64 `json:"tmdb_score,omitempty"`
}

// Summary groups a clustered corpus by label, ordered by label.
func Summary(c *domain.Corpus) []Stats {
	if !c.Has(domain.ColCluster) {
		return nil
	}
	type acc struct {
		size       int
		imdb, tmdb []float64
	}
	groups := make(map[int]*acc)
	c.Each(func(_ int, t domain.Title) {
		g, ok := groups[t.Cluster]
		if !ok {
			g = &acc{}
			groups[t.Cluster] = g
		}
		g.size++
		if t.IMDBScore != nil {
			g.imdb = append(g.imdb, *t.IMDBScore)
		}
		if t.TMDBScore != nil {
			g.tmdb = append(g.tmdb, *t.TMDBScore)
		}
	})

	out := make([]Stats, 0, len(groups))
	for label, g := range groups {
		s := Stats{Cluster: label, Size: g.size}
		if c.Has(domain.ColIMDBScore) {
			s.IMDBScore = mean(g.imdb)
		}
		if c.Has(domain.ColTMDBScore) {
			s.TMDBScore = mean(g.tmdb)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cluster < out[j].Cluster })
	return out
}

// Members lists up to limit titles of one cluster in corpus order. A
// non-positive limit means no limit.
func Members(c *domain.Corpus, label, limit int) []domain.Title {
	var out []domain.Title
	if !c.Has(domain.ColCluster) {
		return out
	}
	c.Each(func(_ int, t domain.Title) {
		if t.Cluster != label || (limit > 0 && len(out) >= limit) {
			return
		}
		out = append(out, t)
	})
	return out
}

func mean(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	m := stat.Mean(vals, nil)
	return &m
}
