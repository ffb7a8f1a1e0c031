package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/cluster"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/domain"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/overview"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/service"
)

// Port is the TUI-facing subset of the service.
type Port interface {
	Recommend(title string, topK int) ([]domain.Recommendation, bool, error)
	ClusterSummary() ([]cluster.Stats, error)
	ClusterMembers(label, limit int) ([]domain.Title, error)
	Overview(topGenres int) (*service.Overview, error)
	Titles() []string
}

type page int

const (
	pageOverview page = iota
	pageRecommend
	pageClusters
)

var pageNames = []string{"Overview", "Recommendations", "Clusters"}

const (
	minTopK      = 3
	maxTopK      = 20
	memberLimit  = 50
	topGenresCnt = 10
)

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	service  Port
	page     page
	input    textinput.Model
	viewport viewport.Model
	topK     int
	status   string
	ready    bool

	recs      []domain.Recommendation
	lastQuery string
	notFound  bool

	summary    []cluster.Stats
	clusterPos int
}

// New creates a new TUI model instance.
func New(svc Port, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a title and press Enter"
	ti.CharLimit = 0
	// Tab and Up/Down belong to page switching and top_k.
	ti.ShowSuggestions = true
	ti.KeyMap.AcceptSuggestion = key.NewBinding(key.WithKeys("ctrl+l"))
	ti.KeyMap.NextSuggestion = key.NewBinding(key.WithKeys("ctrl+n"))
	ti.KeyMap.PrevSuggestion = key.NewBinding(key.WithKeys("ctrl+p"))
	ti.SetSuggestions(svc.Titles())
	vp := viewport.New(0, 0)
	if topK < minTopK {
		topK = minTopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}
	m := Model{service: svc, input: ti, viewport: vp, topK: topK, status: "Tab switches pages. Ctrl+L completes a title. Ctrl+C quits."}
	if s, err := svc.ClusterSummary(); err == nil {
		m.summary = s
	} else {
		m.status = "Error: " + err.Error()
	}
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := bodyBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + 1 + qh + 1 // header, tabs, status, query box
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-bh)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			m.setPage((m.page + 1) % page(len(pageNames)))
			return m, nil
		case "shift+tab":
			m.setPage((m.page + page(len(pageNames)) - 1) % page(len(pageNames)))
			return m, nil
		case "pgdown":
			m.viewport.HalfViewDown()
			return m, nil
		case "pgup":
			m.viewport.HalfViewUp()
			return m, nil
		}
		switch m.page {
		case pageRecommend:
			if handled := m.updateRecommend(msg); handled {
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		case pageClusters:
			m.updateClusters(msg)
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) setPage(p page) {
	m.page = p
	if p == pageRecommend {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	m.viewport.GotoTop()
	m.refresh()
}

func (m *Model) updateRecommend(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "enter":
		q := strings.TrimSpace(m.input.Value())
		if q == "" {
			return true
		}
		m.query(q)
		return true
	case "up":
		if m.topK < maxTopK {
			m.topK++
		}
	case "down":
		if m.topK > minTopK {
			m.topK--
		}
	default:
		return false
	}
	if m.lastQuery != "" {
		m.query(m.lastQuery)
	} else {
		m.status = fmt.Sprintf("top_k=%d", m.topK)
	}
	return true
}

func (m *Model) query(q string) {
	recs, found, err := m.service.Recommend(q, m.topK)
	m.lastQuery = q
	switch {
	case err != nil:
		m.status = "Error: " + err.Error()
		m.recs, m.notFound = nil, false
	case !found:
		m.status = fmt.Sprintf("No title matches %q", q)
		m.recs, m.notFound = nil, true
	default:
		m.status = fmt.Sprintf("%d titles similar to %q (top_k=%d)", len(recs), q, m.topK)
		m.recs, m.notFound = recs, false
	}
	m.viewport.GotoTop()
	m.refresh()
}

func (m *Model) updateClusters(msg tea.KeyMsg) {
	if len(m.summary) == 0 {
		return
	}
	switch msg.String() {
	case "right", "down", "l", "j":
		m.clusterPos = (m.clusterPos + 1) % len(m.summary)
	case "left", "up", "h", "k":
		m.clusterPos = (m.clusterPos - 1 + len(m.summary)) % len(m.summary)
	default:
		return
	}
	m.viewport.GotoTop()
	m.refresh()
}

func (m *Model) refresh() {
	var body string
	switch m.page {
	case pageOverview:
		body = m.renderOverview()
	case pageRecommend:
		body = m.renderRecommendations()
	case pageClusters:
		body = m.renderClusters()
	}
	m.viewport.SetContent(body)
}

// View renders the TUI layout and current page.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Netflix Content Explorer & Recommender")
	tabs := make([]string, len(pageNames))
	for i, name := range pageNames {
		if page(i) == m.page {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	parts := []string{header, lipgloss.JoinHorizontal(lipgloss.Top, tabs...), bodyBoxStyle.Render(m.viewport.View())}
	if m.page == pageRecommend {
		parts = append(parts, queryBoxStyle.Render(m.input.View()))
	}
	parts = append(parts, statusStyle.Render(m.status))
	return strings.Join(parts, "\n")
}

func (m Model) renderOverview() string {
	ov, err := m.service.Overview(topGenresCnt)
	if err != nil {
		return "Error: " + err.Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d titles\n\n", ov.Titles)

	b.WriteString(sectionStyle.Render("Titles over the Years") + "\n")
	if len(ov.TitlesPerYear) == 0 {
		b.WriteString("No release_year information available.\n")
	}
	top := maxCount(ov.TitlesPerYear, func(y overview.YearCount) int { return y.Count })
	for _, y := range ov.TitlesPerYear {
		b.WriteString(bar(strconv.Itoa(y.Year), y.Count, top))
	}

	b.WriteString("\n" + sectionStyle.Render("Top Genres") + "\n")
	if len(ov.TopGenres) == 0 {
		b.WriteString("No genre information available.\n")
	}
	top = maxCount(ov.TopGenres, func(g overview.GenreCount) int { return g.Count })
	for _, g := range ov.TopGenres {
		b.WriteString(bar(g.Genre, g.Count, top))
	}

	b.WriteString("\n" + sectionStyle.Render("IMDB Score Distribution") + "\n")
	if len(ov.IMDBHistogram) == 0 {
		b.WriteString("No IMDB score data available.\n")
	}
	top = maxCount(ov.IMDBHistogram, func(bin overview.Bin) int { return bin.Count })
	for _, bin := range ov.IMDBHistogram {
		b.WriteString(bar(fmt.Sprintf("%.1f-%.1f", bin.Low, bin.High), bin.Count, top))
	}
	return b.String()
}

func (m Model) renderRecommendations() string {
	if m.notFound {
		return "No recommendations found."
	}
	if len(m.recs) == 0 {
		return fmt.Sprintf("Type a title below. Up/Down adjusts top_k (now %d).", m.topK)
	}
	t := newTable("#", "Title", "Type", "Genres", "IMDB", "Year", "Score")
	for i, r := range m.recs {
		t.Row(strconv.Itoa(i+1), r.Title.Title, r.Title.Type, r.Title.GenresClean,
			optFloat(r.Title.IMDBScore), optInt(r.Title.ReleaseYear), fmt.Sprintf("%.3f", r.Score))
	}
	return fmt.Sprintf("Recommendations similar to %s\n%s", highlightStyle.Render(m.lastQuery), t.Render())
}

func (m Model) renderClusters() string {
	if len(m.summary) == 0 {
		return "No cluster information available."
	}
	st := newTable("Cluster", "Size", "IMDB mean", "TMDB mean")
	for i, s := range m.summary {
		label := strconv.Itoa(s.Cluster)
		if i == m.clusterPos {
			label = "> " + label
		}
		st.Row(label, strconv.Itoa(s.Size), optFloat(s.IMDBScore), optFloat(s.TMDBScore))
	}

	selected := m.summary[m.clusterPos].Cluster
	members, err := m.service.ClusterMembers(selected, memberLimit)
	if err != nil {
		return "Error: " + err.Error()
	}
	mt := newTable("Title", "Type", "Genres", "IMDB", "Year")
	for _, t := range members {
		mt.Row(t.Title, t.Type, t.GenresClean, optFloat(t.IMDBScore), optInt(t.ReleaseYear))
	}
	return fmt.Sprintf("%s\n%s\n\n%s\n%s",
		sectionStyle.Render("Cluster summary (Left/Right selects)"), st.Render(),
		sectionStyle.Render(fmt.Sprintf("Sample titles from cluster %d", selected)), mt.Render())
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true)
	bodyBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sectionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	tableHeadStyle = cellStyle.Copy().Bold(true)
)

// newTable pads cells so no column is sized to its widest value and then
// truncated.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 {
				return tableHeadStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

const barWidth = 40

func bar(label string, n, maxN int) string {
	w := 0
	if maxN > 0 {
		w = n * barWidth / maxN
	}
	return fmt.Sprintf("%12s %s %d\n", label, barStyle.Render(strings.Repeat("█", w)), n)
}

func maxCount[T any](items []T, count func(T) int) int {
	out := 0
	for _, it := range items {
		out = max(out, count(it))
	}
	return out
}

func optFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
