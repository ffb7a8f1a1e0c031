package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/cluster"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/config"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/dataset"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/domain"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/logger"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/service"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/tui"
)

type rootFlags struct {
	configPath string
	dataPath   string
	jsonOut    bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "netflix-explorer",
		Short:         "Explore, cluster and get recommendations from a catalog of titles",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(flags)
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to YAML config file (defaults to ./config.yaml or ~/.config/netflix-explorer/config.yaml)")
	root.PersistentFlags().StringVar(&flags.dataPath, "data", "", "Path to the titles CSV (overrides data.path)")
	root.PersistentFlags().BoolVar(&flags.jsonOut, "json", false, "Print JSON instead of tables")

	root.AddCommand(
		&cobra.Command{
			Use:   "explore",
			Short: "Open the interactive dashboard",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runExplore(flags)
			},
		},
		newRecommendCmd(flags),
		newClustersCmd(flags),
		newOverviewCmd(flags),
	)
	return root
}

func newRecommendCmd(flags *rootFlags) *cobra.Command {
	var topK int
	cmd := &cobra.Command{
		Use:   "recommend <title>",
		Short: "List titles similar to the given one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, false)
			if err != nil {
				return err
			}
			defer a.log.Close()

			query := strings.Join(args, " ")
			recs, found, err := a.svc.Recommend(query, topK)
			if err != nil {
				return err
			}
			if !found {
				if flags.jsonOut {
					return writeJSON(cmd.OutOrStdout(), notFound{Found: false, Query: query})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "No title matches %q.\n", query)
				return nil
			}
			return printRecommendations(cmd.OutOrStdout(), flags.jsonOut, a.svc.Current().Recommender.Columns(), recs)
		},
	}
	cmd.Flags().IntVarP(&topK, "top", "k", 0, "Number of recommendations (defaults to recommender.top_k)")
	return cmd
}

func newClustersCmd(flags *rootFlags) *cobra.Command {
	var (
		label int
		limit int
	)
	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Show the cluster summary, or the titles of one cluster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, false)
			if err != nil {
				return err
			}
			defer a.log.Close()

			if cmd.Flags().Changed("cluster") {
				members, err := a.svc.ClusterMembers(label, limit)
				if err != nil {
					return err
				}
				return printMembers(cmd.OutOrStdout(), flags.jsonOut, a.svc.Current().Recommender.Columns(), members)
			}
			summary, err := a.svc.ClusterSummary()
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), flags.jsonOut, summary)
		},
	}
	cmd.Flags().IntVar(&label, "cluster", 0, "List the titles of this cluster")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum titles listed with --cluster")
	return cmd
}

func newOverviewCmd(flags *rootFlags) *cobra.Command {
	var topGenres int
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Print titles per year, top genres and the IMDB score histogram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, false)
			if err != nil {
				return err
			}
			defer a.log.Close()

			ov, err := a.svc.Overview(topGenres)
			if err != nil {
				return err
			}
			return printOverview(cmd.OutOrStdout(), flags.jsonOut, ov)
		},
	}
	cmd.Flags().IntVar(&topGenres, "genres", 10, "Number of genres listed")
	return cmd
}

func runExplore(flags *rootFlags) error {
	a, err := newApp(flags, true)
	if err != nil {
		return err
	}
	defer a.log.Close()

	m := tui.New(a.svc, a.cfg.Recommender.TopK)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}

// notFound is the --json answer to a query that matches no title.
type notFound struct {
	Found bool   `json:"found"`
	Query string `json:"query"`
}

type app struct {
	cfg *config.AppConfig
	log *logger.Logger
	svc *service.Service
}

// newApp loads config and data and builds the model. quiet keeps log output
// off the terminal.
func newApp(flags *rootFlags, quiet bool) (*app, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if flags.configPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(flags.configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.dataPath != "" {
		cfg.Data.Path = flags.dataPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Path:   cfg.Logging.Path,
		Quiet:  quiet,
	})

	corpus, err := dataset.Load(cfg.Data.Path)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("load data: %w", err)
	}
	log.Info().Str("path", cfg.Data.Path).Int("titles", corpus.Len()).Msg("catalog loaded")

	svc := service.New(service.Options{
		MaxFeatures: cfg.Recommender.MaxFeatures,
		TopK:        cfg.Recommender.TopK,
		Clustering: cluster.Options{
			Clusters:  cfg.Clustering.NClusters,
			NInit:     cfg.Clustering.NInit,
			MaxIter:   cfg.Clustering.MaxIter,
			Tolerance: cfg.Clustering.Tolerance,
			Seed:      cfg.Clustering.Seed,
		},
	}, log)
	if _, err := svc.Rebuild(corpus); err != nil {
		log.Close()
		return nil, fmt.Errorf("build model: %w", err)
	}
	return &app{cfg: cfg, log: log, svc: svc}, nil
}

func printRecommendations(w io.Writer, asJSON bool, cols []domain.Column, recs []domain.Recommendation) error {
	rows := make([]map[string]any, len(recs))
	for i, r := range recs {
		row := map[string]any{"score": r.Score}
		for _, col := range cols {
			row[string(col)] = cell(r.Title, col)
		}
		rows[i] = row
	}
	if asJSON {
		return writeJSON(w, rows)
	}
	headers := make([]string, 0, len(cols)+1)
	for _, col := range cols {
		headers = append(headers, string(col))
	}
	headers = append(headers, "score")
	t := newTable(headers...)
	for _, r := range recs {
		cells := make([]string, 0, len(headers))
		for _, col := range cols {
			cells = append(cells, text(cell(r.Title, col)))
		}
		t.Row(append(cells, strconv.FormatFloat(r.Score, 'f', 3, 64))...)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func printSummary(w io.Writer, asJSON bool, summary []cluster.Stats) error {
	if asJSON {
		return writeJSON(w, summary)
	}
	t := newTable("cluster", "size", "imdb_score", "tmdb_score")
	for _, s := range summary {
		t.Row(strconv.Itoa(s.Cluster), strconv.Itoa(s.Size), text(s.IMDBScore), text(s.TMDBScore))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func printMembers(w io.Writer, asJSON bool, cols []domain.Column, members []domain.Title) error {
	if asJSON {
		rows := make([]map[string]any, len(members))
		for i, m := range members {
			rows[i] = make(map[string]any, len(cols))
			for _, col := range cols {
				rows[i][string(col)] = cell(m, col)
			}
		}
		return writeJSON(w, rows)
	}
	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = string(col)
	}
	t := newTable(headers...)
	for _, m := range members {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = text(cell(m, col))
		}
		t.Row(cells...)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func printOverview(w io.Writer, asJSON bool, ov *service.Overview) error {
	if asJSON {
		return writeJSON(w, ov)
	}
	fmt.Fprintf(w, "%d titles\n\nTitles per year\n", ov.Titles)
	years := newTable("year", "count")
	for _, y := range ov.TitlesPerYear {
		years.Row(strconv.Itoa(y.Year), strconv.Itoa(y.Count))
	}
	fmt.Fprintln(w, years.Render())

	fmt.Fprintln(w, "\nTop genres")
	genres := newTable("genre", "count")
	for _, g := range ov.TopGenres {
		genres.Row(g.Genre, strconv.Itoa(g.Count))
	}
	fmt.Fprintln(w, genres.Render())

	fmt.Fprintln(w, "\nIMDB score distribution")
	hist := newTable("from", "to", "count")
	for _, b := range ov.IMDBHistogram {
		hist.Row(strconv.FormatFloat(b.Low, 'f', 2, 64), strconv.FormatFloat(b.High, 'f', 2, 64), strconv.Itoa(b.Count))
	}
	_, err := fmt.Fprintln(w, hist.Render())
	return err
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// newTable pads every cell so lipgloss never sizes a column to its widest
// value and then cuts that value off with an ellipsis.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Headers(headers...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// cell returns the value of a display column; nil for missing numbers.
func cell(t domain.Title, col domain.Column) any {
	switch col {
	case domain.ColTitle:
		return t.Title
	case domain.ColType:
		return t.Type
	case domain.ColGenresClean:
		return t.GenresClean
	case domain.ColReleaseYear:
		if t.ReleaseYear == nil {
			return nil
		}
		return *t.ReleaseYear
	}
	if v, ok := t.Numeric(col); ok {
		return v
	}
	return nil
}

func text(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case *float64:
		if v == nil {
			return "-"
		}
		return strconv.FormatFloat(*v, 'f', 2, 64)
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case int:
		return strconv.Itoa(v)
	case string:
		return v
	}
	return fmt.Sprint(v)
}
