package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/cluster"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/domain"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/overview"
	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/service"
)

type fakePort struct {
	queries []string
	topKs   []int
	members []int
}

func (f *fakePort) Recommend(title string, topK int) ([]domain.Recommendation, bool, error) {
	f.queries = append(f.queries, title)
	f.topKs = append(f.topKs, topK)
	if title == "missing" {
		return nil, false, nil
	}
	return []domain.Recommendation{{Index: 1, Score: 0.5, Title: domain.Title{Title: "Neighbour", IMDBScore: domain.Float(7)}}}, true, nil
}

func (f *fakePort) ClusterSummary() ([]cluster.Stats, error) {
	return []cluster.Stats{{Cluster: 0, Size: 2}, {Cluster: 3, Size: 1, IMDBScore: domain.Float(6.5)}}, nil
}

func (f *fakePort) ClusterMembers(label, limit int) ([]domain.Title, error) {
	f.members = append(f.members, label)
	return []domain.Title{{Title: "Member"}}, nil
}

func (f *fakePort) Overview(int) (*service.Overview, error) {
	return &service.Overview{
		Titles:        3,
		TitlesPerYear: []overview.YearCount{{Year: 2001, Count: 2}},
		TopGenres:     []overview.GenreCount{{Genre: "drama", Count: 3}},
	}, nil
}

func (f *fakePort) Titles() []string {
	return []string{"Bake Off", "Kitchen Wars", "Star Drift", "Star Drift II"}
}

func send(m tea.Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m.(Model)
}

func typed(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestModel_Navigation(t *testing.T) {
	f := &fakePort{}
	m := send(New(f, 10), tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, pageOverview, m.page)
	assert.Contains(t, m.View(), "drama")

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, pageRecommend, m.page)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, pageClusters, m.page)
	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, pageOverview, m.page)
}

func TestModel_Recommend(t *testing.T) {
	f := &fakePort{}
	m := send(New(f, 10), tea.WindowSizeMsg{Width: 100, Height: 40}, tea.KeyMsg{Type: tea.KeyTab})

	m = send(m, typed("dark"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, []string{"dark"}, f.queries)
	assert.Len(t, m.recs, 1)
	assert.Contains(t, m.status, "similar to")

	m = send(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 11, m.topK)
	assert.Equal(t, []int{10, 11}, f.topKs)

	m.input.SetValue("missing")
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.notFound)
	assert.Nil(t, m.recs)
	assert.Contains(t, m.View(), "No recommendations found.")
}

func TestModel_TopKBounds(t *testing.T) {
	m := New(&fakePort{}, 100)
	assert.Equal(t, maxTopK, m.topK)
	m = New(&fakePort{}, 1)
	assert.Equal(t, minTopK, m.topK)

	m = send(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, minTopK, m.topK)
}

func TestModel_Clusters(t *testing.T) {
	f := &fakePort{}
	m := send(New(f, 10), tea.WindowSizeMsg{Width: 100, Height: 40},
		tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, pageClusters, m.page)
	assert.Equal(t, []int{0}, f.members)

	m = send(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.clusterPos)
	assert.Equal(t, []int{0, 3}, f.members)

	m = send(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 0, m.clusterPos)
	assert.Contains(t, m.View(), "Member")
	assert.NotContains(t, m.View(), "…")
}

func TestModel_RecommendationTable(t *testing.T) {
	f := &fakePort{}
	m := send(New(f, 10), tea.WindowSizeMsg{Width: 120, Height: 40}, tea.KeyMsg{Type: tea.KeyTab},
		typed("dark"), tea.KeyMsg{Type: tea.KeyEnter})
	view := m.View()
	assert.Contains(t, view, "Neighbour")
	assert.Contains(t, view, "7.00")
	assert.NotContains(t, view, "…")
}

func TestModel_TitleSuggestion(t *testing.T) {
	f := &fakePort{}
	m := send(New(f, 10), tea.WindowSizeMsg{Width: 100, Height: 40}, tea.KeyMsg{Type: tea.KeyTab})

	m = send(m, typed("star drift "), tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, "star drift II", m.input.Value())

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, []string{"star drift II"}, f.queries)
	assert.Len(t, m.recs, 1)

	m.input.SetValue("")
	m = send(m, typed("kit"), tea.KeyMsg{Type: tea.KeyCtrlL}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"star drift II", "kitchen Wars"}, f.queries)
	assert.Equal(t, pageRecommend, m.page)
}
