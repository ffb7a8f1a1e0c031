// Package service builds the recommender and cluster artifacts for a corpus
// and serves read-only queries against them.
package service

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/cluster"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/domain"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/logger"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/overview"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/recommend"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/similarity"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/textenc"
)

// ErrNotBuilt is returned by queries issued before the first successful build.
var ErrNotBuilt = errors.New("no model built yet")

// Options configure a build.
type Options struct {
	MaxFeatures int
	TopK        int
	Clustering  cluster.Options
}

// Bundle is one internally consistent set of artifacts. Every field is
// aligned to Corpus and nothing in it is mutated after Build returns.
type Bundle struct {
	// Corpus carries the cluster column.
	Corpus      *domain.Corpus
	Encoder     *textenc.Encoder
	Similarity  *similarity.Matrix
	Clusters    *cluster.Result
	Recommender *recommend.Recommender
	BuiltAt     time.Time
}

// Build fits the text encoder, similarity matrix and cluster model for c.
func Build(c *domain.Corpus, opts Options) (*Bundle, error) {
	if c.Len() == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	if !c.Has(domain.ColTitle) {
		return nil, domain.ErrMissingTitleColumn
	}
	enc, tfidf, err := textenc.Fit(c, opts.MaxFeatures)
	if err != nil {
		return nil, fmt.Errorf("encode text: %w", err)
	}
	sim, err := similarity.Build(tfidf)
	if err != nil {
		return nil, fmt.Errorf("similarity: %w", err)
	}
	clusters, err := cluster.Fit(c, opts.Clustering)
	if err != nil {
		return nil, fmt.Errorf("cluster: %w", err)
	}
	augmented, err := c.WithClusters(clusters.Labels)
	if err != nil {
		return nil, err
	}
	rec, err := recommend.New(augmented, sim)
	if err != nil {
		return nil, fmt.Errorf("recommender: %w", err)
	}
	return &Bundle{
		Corpus:      augmented,
		Encoder:     enc,
		Similarity:  sim,
		Clusters:    clusters,
		Recommender: rec,
		BuiltAt:     time.Now(),
	}, nil
}

// Service holds the current bundle. Rebuilds replace the whole bundle at
// once; readers see either the old or the new one, never a mix.
type Service struct {
	opts   Options
	log    *logger.Logger
	bundle atomic.Pointer[Bundle]
}

// New creates a service with no bundle.
func New(opts Options, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{opts: opts, log: log.WithComponent("service")}
}

// Rebuild builds a bundle for c and swaps it in. On failure the previous
// bundle stays active.
func (s *Service) Rebuild(c *domain.Corpus) (*Bundle, error) {
	start := time.Now()
	b, err := Build(c, s.opts)
	if err != nil {
		s.log.Error().Err(err).Int("titles", c.Len()).Msg("build failed")
		return nil, err
	}
	s.bundle.Store(b)
	s.log.Info().
		Int("titles", b.Corpus.Len()).
		Int("vocabulary", b.Encoder.Len()).
		Int("clusters", len(cluster.Summary(b.Corpus))).
		Float64("inertia", b.Clusters.Model.Inertia).
		Dur("elapsed", time.Since(start)).
		Time("built_at", b.BuiltAt).
		Msg("model built")
	return b, nil
}

// Current returns the active bundle, or nil before the first build.
func (s *Service) Current() *Bundle { return s.bundle.Load() }

// Recommend returns titles similar to title. found is false when the title
// did not match anything.
func (s *Service) Recommend(title string, topK int) (recs []domain.Recommendation, found bool, err error) {
	b := s.Current()
	if b == nil {
		return nil, false, ErrNotBuilt
	}
	if topK <= 0 {
		topK = s.opts.TopK
	}
	recs, found = b.Recommender.Recommend(title, topK)
	if !found {
		s.log.Debug().Str("title", title).Msg("no matching title")
	}
	return recs, found, nil
}

// ClusterSummary returns per-cluster statistics of the active bundle.
func (s *Service) ClusterSummary() ([]cluster.Stats, error) {
	b := s.Current()
	if b == nil {
		return nil, ErrNotBuilt
	}
	return cluster.Summary(b.Corpus), nil
}

// ClusterMembers lists up to limit titles of a cluster in corpus order.
func (s *Service) ClusterMembers(label, limit int) ([]domain.Title, error) {
	b := s.Current()
	if b == nil {
		return nil, ErrNotBuilt
	}
	return cluster.Members(b.Corpus, label, limit), nil
}

// Overview holds the dashboard aggregates.
type Overview struct {
	Titles        int                   `json:"titles"`
	TitlesPerYear []overview.YearCount  `json:"titles_per_year"`
	TopGenres     []overview.GenreCount `json:"top_genres"`
	IMDBHistogram []overview.Bin        `json:"imdb_histogram"`
}

// Overview computes the dashboard aggregates of the active bundle.
func (s *Service) Overview(topGenres int) (*Overview, error) {
	b := s.Current()
	if b == nil {
		return nil, ErrNotBuilt
	}
	return &Overview{
		Titles:        b.Corpus.Len(),
		TitlesPerYear: overview.TitlesPerYear(b.Corpus),
		TopGenres:     overview.TopGenres(b.Corpus, topGenres),
		IMDBHistogram: overview.ScoreHistogram(b.Corpus, overview.DefaultHistogramBins),
	}, nil
}

// Titles returns the distinct non-empty title names of the active bundle,
// sorted.
func (s *Service) Titles() []string {
	b := s.Current()
	if b == nil {
		return nil
	}
	out := make([]string, 0, b.Corpus.Len())
	b.Corpus.Each(func(_ int, t domain.Title) {
		if t.Title != "" {
			out = append(out, t.Title)
		}
	})
	slices.Sort(out)
	return slices.Compact(out)
}
