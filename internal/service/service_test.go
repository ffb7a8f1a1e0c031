package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/cluster"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/domain"
)

var allCols = []domain.Column{
	domain.ColTitle, domain.ColType, domain.ColDescription, domain.ColReleaseYear,
	domain.ColRuntime, domain.ColIMDBScore, domain.ColTMDBScore,
	domain.ColGenresClean, domain.ColGenresBag,
}

func catalog() *domain.Corpus {
	return domain.NewCorpus([]domain.Title{
		{Title: "Star Drift", Type: "MOVIE", Description: "space opera adventure", GenresClean: "scifi, action", GenresBag: "scifi action",
			ReleaseYear: domain.Int(2000), Runtime: domain.Float(120), IMDBScore: domain.Float(7.1), TMDBScore: domain.Float(7.0)},
		{Title: "Star Drift II", Type: "MOVIE", Description: "space opera saga", GenresClean: "scifi, action", GenresBag: "scifi action",
			ReleaseYear: domain.Int(2003), Runtime: domain.Float(125), IMDBScore: domain.Float(6.8)},
		{Title: "Bake Off", Type: "SHOW", Description: "cooking competition", GenresClean: "reality", GenresBag: "reality",
			ReleaseYear: domain.Int(2015), Runtime: domain.Float(45), IMDBScore: domain.Float(8.0), TMDBScore: domain.Float(7.9)},
		{Title: "Kitchen Wars", Type: "SHOW", Description: "cooking contest chefs", GenresClean: "reality", GenresBag: "reality",
			ReleaseYear: domain.Int(2016), Runtime: domain.Float(40)},
		{Title: "Old Western", Type: "MOVIE", Description: "cowboys ride", GenresClean: "western", GenresBag: "western",
			ReleaseYear: domain.Int(1955), Runtime: domain.Float(95), IMDBScore: domain.Float(6.0)},
	}, allCols...)
}

func opts() Options {
	o := Options{MaxFeatures: 5000, TopK: 10, Clustering: cluster.DefaultOptions()}
	o.Clustering.Clusters = 2
	return o
}

func TestBuild(t *testing.T) {
	b, err := Build(catalog(), opts())
	require.NoError(t, err)

	assert.Equal(t, 5, b.Corpus.Len())
	assert.True(t, b.Corpus.Has(domain.ColCluster))
	assert.Equal(t, 5, b.Similarity.Len())
	assert.False(t, b.BuiltAt.IsZero())
	require.Len(t, b.Clusters.Labels, 5)
	for i, l := range b.Clusters.Labels {
		assert.Equal(t, l, b.Corpus.At(i).Cluster)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		corpus *domain.Corpus
		want   error
	}{
		{"empty", domain.NewCorpus(nil, allCols...), domain.ErrEmptyCorpus},
		{"no title column", domain.NewCorpus([]domain.Title{{Description: "space"}}, domain.ColDescription, domain.ColRuntime), domain.ErrMissingTitleColumn},
		{"stop words only", domain.NewCorpus([]domain.Title{{Title: "x", Description: "the"}}, domain.ColTitle, domain.ColRuntime), domain.ErrEmptyVocabulary},
		{"no numeric features", domain.NewCorpus([]domain.Title{{Title: "x", Description: "space"}}, domain.ColTitle, domain.ColDescription), domain.ErrNoNumericFeatures},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.corpus, opts())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestService_NotBuilt(t *testing.T) {
	s := New(opts(), nil)
	_, _, err := s.Recommend("x", 3)
	assert.ErrorIs(t, err, ErrNotBuilt)
	_, err = s.ClusterSummary()
	assert.ErrorIs(t, err, ErrNotBuilt)
	_, err = s.ClusterMembers(0, 10)
	assert.ErrorIs(t, err, ErrNotBuilt)
	_, err = s.Overview(10)
	assert.ErrorIs(t, err, ErrNotBuilt)
	assert.Nil(t, s.Titles())
}

func TestService_Queries(t *testing.T) {
	s := New(opts(), nil)
	_, err := s.Rebuild(catalog())
	require.NoError(t, err)

	recs, found, err := s.Recommend("star drift", 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, recs, 1)
	assert.Equal(t, "Star Drift II", recs[0].Title.Title)

	recs, found, err = s.Recommend("no such show", 3)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, recs)

	recs, found, err = s.Recommend("kitchen", 0)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, recs, 4)
	assert.Equal(t, "Bake Off", recs[0].Title.Title)

	summary, err := s.ClusterSummary()
	require.NoError(t, err)
	total := 0
	for _, st := range summary {
		total += st.Size
	}
	assert.Equal(t, 5, total)

	members, err := s.ClusterMembers(summary[0].Cluster, 50)
	require.NoError(t, err)
	assert.Len(t, members, summary[0].Size)

	ov, err := s.Overview(10)
	require.NoError(t, err)
	assert.Equal(t, 5, ov.Titles)
	assert.Len(t, ov.TitlesPerYear, 5)
	assert.Equal(t, "action", ov.TopGenres[0].Genre)

	assert.Equal(t, []string{"Bake Off", "Kitchen Wars", "Old Western", "Star Drift", "Star Drift II"}, s.Titles())
}

func TestService_FailedRebuildKeepsBundle(t *testing.T) {
	s := New(opts(), nil)
	first, err := s.Rebuild(catalog())
	require.NoError(t, err)

	_, err = s.Rebuild(domain.NewCorpus(nil, allCols...))
	require.Error(t, err)
	assert.Same(t, first, s.Current())
}

func TestService_ConcurrentReadsDuringRebuild(t *testing.T) {
	s := New(opts(), nil)
	_, err := s.Rebuild(catalog())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				b := s.Current()
				assert.Equal(t, b.Corpus.Len(), b.Similarity.Len(), fmt.Sprintf("reader %d", i))
				_, _, err := s.Recommend("star", 2)
				assert.NoError(t, err)
			}
		}(i)
	}
	for i := 0; i < 3; i++ {
		_, err := s.Rebuild(catalog())
		require.NoError(t, err)
	}
	wg.Wait()
}

func TestService_TitlesDistinct(t *testing.T) {
	titles := []domain.Title{
		{Title: "Zeta", Description: "quiet harbour town", GenresBag: "drama", Runtime: domain.Float(90)},
		{Title: "Alpha", Description: "loud city nights", GenresBag: "crime", Runtime: domain.Float(100)},
		{Title: "Zeta", Description: "harbour remake", GenresBag: "drama", Runtime: domain.Float(95)},
		{Title: "", Description: "untitled pilot episode", GenresBag: "comedy", Runtime: domain.Float(30)},
	}
	s := New(opts(), nil)
	_, err := s.Rebuild(domain.NewCorpus(titles, allCols...))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Zeta"}, s.Titles())
}
