package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Page is one screen of the pager.
type Page struct {
	Title string
	Body  string
}

type model struct {
	series        []Series
	opts          ChartOptions
	pages         []Page
	cursor        int
	theme         int
	width, height int
	err           error
}

// NewPager renders the charts for series and returns a pager positioned on
// the first chart.
func NewPager(series []Series, opts ChartOptions) (tea.Model, error) {
	opts = opts.normalized()
	m := model{series: series, opts: opts, width: opts.Width + 4, height: opts.Height + 8}
	for i, t := range Themes {
		if t.Name == opts.Theme.Name {
			m.theme = i
		}
	}
	pages, err := Pages(series, opts)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrEmptySeries
	}
	m.pages = pages
	return m, nil
}

// RunPager shows the charts full screen until the user quits.
func RunPager(series []Series, opts ChartOptions) error {
	m, err := NewPager(series, opts)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "right", "l", "n", "tab":
		if m.cursor < len(m.pages)-1 {
			m.cursor++
		}
	case "left", "h", "p", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.pages) - 1
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.opts.Theme = Themes[m.theme]
		pages, err := Pages(m.series, m.opts)
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.pages = pages
	}
	return m, nil
}

func (m model) View() string {
	if len(m.pages) == 0 {
		return ""
	}
	theme := Themes[m.theme]
	page := m.pages[m.cursor]

	var b strings.Builder
	b.WriteString(BoxWithTitle(page.Title, page.Body, max(m.opts.Width+16, lipgloss.Width(page.Title)+8), theme))
	b.WriteString("\n")

	active := lipgloss.NewStyle().Foreground(theme.Primary)
	muted := lipgloss.NewStyle().Foreground(theme.Muted)
	dots := make([]string, len(m.pages))
	for i := range m.pages {
		if i == m.cursor {
			dots[i] = active.Render("●")
		} else {
			dots[i] = muted.Render("○")
		}
	}
	b.WriteString(strings.Join(dots, " "))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("  %d/%d", m.cursor+1, len(m.pages))))
	b.WriteString(muted.Render("  theme: " + theme.Name))
	b.WriteString("\n")
	b.WriteString(KeyHint.Render("←/→ page • g/G first/last • t theme • q quit"))
	b.WriteString("\n")
	return b.String()
}
