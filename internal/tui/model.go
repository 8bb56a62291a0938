package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pulse/internal/domain"
)

// Model is the Bubble Tea model for browsing one batch result: a cluster
// list with a per-cluster drill-down of member posts and their sentiment.
type Model struct {
	result   *domain.BatchResult
	posts    map[string]domain.Post
	viewport viewport.Model
	cursor   int
	detail   bool
	ready    bool
}

// New creates a result browser for the given batch result and its posts.
func New(result *domain.BatchResult, posts []domain.Post) Model {
	byID := make(map[string]domain.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	return Model{result: result, posts: byID, viewport: viewport.New(0, 0)}
}

func (m Model) Init() tea.Cmd { return nil }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := boxStyle.GetFrameSize()
		vh := msg.Height - 4 - fh
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-boxStyle.GetHorizontalFrameSize())
		m.viewport.Height = vh
		m.viewport.SetContent(m.content())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "down", "j":
			if !m.detail && len(m.result.Clusters) > 0 {
				m.cursor = (m.cursor + 1) % len(m.result.Clusters)
				m.viewport.SetContent(m.content())
			} else {
				m.viewport.LineDown(1)
			}
		case "up", "k":
			if !m.detail && len(m.result.Clusters) > 0 {
				m.cursor = (m.cursor - 1 + len(m.result.Clusters)) % len(m.result.Clusters)
				m.viewport.SetContent(m.content())
			} else {
				m.viewport.LineUp(1)
			}
		case "enter":
			if !m.detail && len(m.result.Clusters) > 0 {
				m.detail = true
				m.viewport.GotoTop()
				m.viewport.SetContent(m.content())
			}
		case "esc":
			if m.detail {
				m.detail = false
				m.viewport.SetContent(m.content())
			}
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the header, the current pane and the status footer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Pulse — batch " + m.result.RunID)
	body := boxStyle.Render(m.viewport.View())
	fallback := m.result.FallbackCount()
	status := statusStyle.Render(fmt.Sprintf(
		"%d posts · %d clusters · %d/%d fallback · insufficient=%v · enter: drill down · esc: back · q: quit",
		m.result.PostsAnalyzed, len(m.result.Clusters), fallback, len(m.result.Sentiments),
		m.result.InsufficientData))
	return header + "\n" + body + "\n" + status
}

func (m Model) content() string {
	if m.detail {
		return m.renderDetail()
	}
	return m.renderList()
}

func (m Model) renderList() string {
	if len(m.result.Clusters) == 0 {
		return "No clusters."
	}
	var b strings.Builder
	for i, c := range m.result.Clusters {
		marker := "  "
		if i == m.cursor {
			marker = selectedStyle.Render("> ")
		}
		line := fmt.Sprintf("%s#%d %s  (%d posts, %s %.2f)",
			marker, c.ID, c.Label, len(c.PostIDs), c.SentimentLabel, c.SentimentAvg)
		b.WriteString(line + "\n")
		if len(c.Keywords) > 0 {
			b.WriteString(keywordStyle.Render("    "+strings.Join(c.Keywords, ", ")) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderDetail() string {
	c := m.result.Clusters[m.cursor]
	sentByID := make(map[string]domain.SentimentResult, len(m.result.Sentiments))
	for _, s := range m.result.Sentiments {
		sentByID[s.PostID] = s
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("#%d %s", c.ID, c.Label)) + "\n")
	b.WriteString(keywordStyle.Render(strings.Join(c.Keywords, ", ")) + "\n\n")
	for _, id := range c.PostIDs {
		s := sentByID[id]
		b.WriteString(fmt.Sprintf("[%s] %s %.2f (%s)\n", id, s.Label, s.Score.Compound, s.Source))
		if p, ok := m.posts[id]; ok {
			b.WriteString("  " + strings.TrimSpace(p.Text) + "\n")
		}
	}
	return b.String()
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	keywordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
