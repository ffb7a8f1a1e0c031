package domain

// Column names a field of the title catalog. Presence of a column is tracked
// per corpus because source files do not always carry every field.
type Column string

const (
	ColTitle               Column = "title"
	ColType                Column = "type"
	ColDescription         Column = "description"
	ColReleaseYear         Column = "release_year"
	ColAgeCertification    Column = "age_certification"
	ColRuntime             Column = "runtime"
	ColGenres              Column = "genres"
	ColProductionCountries Column = "production_countries"
	ColIMDBScore           Column = "imdb_score"
	ColIMDBVotes           Column = "imdb_votes"
	ColTMDBPopularity      Column = "tmdb_popularity"
	ColTMDBScore           Column = "tmdb_score"
	ColGenresClean         Column = "genres_clean"
	ColGenresBag           Column = "genres_bag"
	ColCluster             Column = "cluster"
)

// Title is one row of the catalog. Optional numeric fields are nil when the
// source cell was missing or unparseable.
type Title struct {
	Title               string
	Type                string
	Description         string
	ReleaseYear         *int
	AgeCertification    string
	Runtime             *float64
	Genres              string
	ProductionCountries string
	IMDBScore           *float64
	IMDBVotes           *float64
	TMDBPopularity      *float64
	TMDBScore           *float64
	GenresClean         string
	GenresBag           string
	Cluster             int
}

// Numeric returns the value of a numeric column and whether it is present.
func (t Title) Numeric(col Column) (float64, bool) {
	switch col {
	case ColReleaseYear:
		if t.ReleaseYear == nil {
			return 0, false
		}
		return float64(*t.ReleaseYear), true
	case ColRuntime:
		return deref(t.Runtime)
	case ColIMDBScore:
		return deref(t.IMDBScore)
	case ColIMDBVotes:
		return deref(t.IMDBVotes)
	case ColTMDBPopularity:
		return deref(t.TMDBPopularity)
	case ColTMDBScore:
		return deref(t.TMDBScore)
	case ColCluster:
		return float64(t.Cluster), true
	}
	return 0, false
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Recommendation is a ranked neighbour of a queried title.
type Recommendation struct {
	Index int
	Score float64
	Title Title
}
