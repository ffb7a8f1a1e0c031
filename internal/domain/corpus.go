package domain

import "fmt"

// Corpus is an ordered, immutable snapshot of titles. Every derived artifact
// (TF-IDF rows, similarity matrix, cluster labels) is indexed by the position
// of a title in exactly this snapshot.
type Corpus struct {
	titles  []Title
	columns map[Column]struct{}
}

// NewCorpus copies titles into a new corpus that reports the given columns as present.
func NewCorpus(titles []Title, columns ...Column) *Corpus {
	c := &Corpus{
		titles:  make([]Title, len(titles)),
		columns: make(map[Column]struct{}, len(columns)),
	}
	copy(c.titles, titles)
	for _, col := range columns {
		c.columns[col] = struct{}{}
	}
	return c
}

// Len returns the number of titles.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.titles)
}

// At returns the title at position i.
func (c *Corpus) At(i int) Title { return c.titles[i] }

// Has reports whether the column was present in the source.
func (c *Corpus) Has(col Column) bool {
	if c == nil {
		return false
	}
	_, ok := c.columns[col]
	return ok
}

// Columns returns the present columns in canonical order.
func (c *Corpus) Columns() []Column {
	out := make([]Column, 0, len(c.columns))
	for _, col := range canonicalColumns {
		if c.Has(col) {
			out = append(out, col)
		}
	}
	return out
}

// Each calls fn for every title in positional order.
func (c *Corpus) Each(fn func(i int, t Title)) {
	for i := range c.titles {
		fn(i, c.titles[i])
	}
}

// WithClusters returns a new corpus carrying the cluster column. Labels must be
// aligned to this corpus.
func (c *Corpus) WithClusters(labels []int) (*Corpus, error) {
	if len(labels) != c.Len() {
		return nil, fmt.Errorf("cluster labels misaligned: %d labels for %d titles", len(labels), c.Len())
	}
	out := NewCorpus(c.titles, c.Columns()...)
	out.columns[ColCluster] = struct{}{}
	for i, l := range labels {
		out.titles[i].Cluster = l
	}
	return out, nil
}

var canonicalColumns = []Column{
	ColTitle, ColType, ColDescription, ColReleaseYear, ColAgeCertification,
	ColRuntime, ColGenres, ColProductionCountries, ColIMDBScore, ColIMDBVotes,
	ColTMDBPopularity, ColTMDBScore, ColGenresClean, ColGenresBag, ColCluster,
}
