// Package dataset loads the title catalog from CSV and normalizes the fields
// the recommender and clusterer rely on.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/domain"
)

// recognized lists the source columns kept from the CSV, in output order.
var recognized = []domain.Column{
	domain.ColTitle,
	domain.ColType,
	domain.ColDescription,
	domain.ColReleaseYear,
	domain.ColAgeCertification,
	domain.ColRuntime,
	domain.ColGenres,
	domain.ColProductionCountries,
	domain.ColIMDBScore,
	domain.ColIMDBVotes,
	domain.ColTMDBPopularity,
	domain.ColTMDBScore,
}

// Load reads and cleans the catalog file at path.
func Load(path string) (*domain.Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c, nil
}

// Read parses CSV with a header row. Unknown columns are ignored, rows with an
// empty title or description are dropped, and genres are normalized into
// genres_clean ("Drama, Romance") and genres_bag ("Drama Romance").
func Read(r io.Reader) (*domain.Corpus, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, err
	}
	index := make(map[domain.Column]int)
	for i, name := range header {
		index[domain.Column(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	var columns []domain.Column
	for _, col := range recognized {
		if _, ok := index[col]; ok {
			columns = append(columns, col)
		}
	}
	columns = append(columns, domain.ColGenresClean, domain.ColGenresBag)

	var titles []domain.Title
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		cell := func(col domain.Column) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		if _, ok := index[domain.ColTitle]; ok && strings.TrimSpace(cell(domain.ColTitle)) == "" {
			continue
		}
		if _, ok := index[domain.ColDescription]; ok && strings.TrimSpace(cell(domain.ColDescription)) == "" {
			continue
		}
		t := domain.Title{
			Title:               cell(domain.ColTitle),
			Type:                cell(domain.ColType),
			Description:         cell(domain.ColDescription),
			ReleaseYear:         parseInt(cell(domain.ColReleaseYear)),
			AgeCertification:    cell(domain.ColAgeCertification),
			Runtime:             parseFloat(cell(domain.ColRuntime)),
			Genres:              cell(domain.ColGenres),
			ProductionCountries: cell(domain.ColProductionCountries),
			IMDBScore:           parseFloat(cell(domain.ColIMDBScore)),
			IMDBVotes:           parseFloat(cell(domain.ColIMDBVotes)),
			TMDBPopularity:      parseFloat(cell(domain.ColTMDBPopularity)),
			TMDBScore:           parseFloat(cell(domain.ColTMDBScore)),
		}
		t.GenresClean = CleanGenres(t.Genres)
		t.GenresBag = strings.ReplaceAll(t.GenresClean, ", ", " ")
		titles = append(titles, t)
	}
	return domain.NewCorpus(titles, columns...), nil
}

// CleanGenres turns a stringified list such as "['drama', 'crime']" into
// "drama, crime".
func CleanGenres(g string) string {
	g = strings.Trim(g, "[]")
	g = strings.NewReplacer("'", "", `"`, "").Replace(g)
	parts := strings.Split(g, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	v := parseFloat(s)
	if v == nil {
		return nil
	}
	i := int(math.Round(*v))
	return &i
}
