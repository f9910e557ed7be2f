package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nimbus/internal/api"
)

type searchDoneMsg struct{}

// SearchModel is the one-shot search screen. Results are transient and never
// enter the entity cache.
type SearchModel struct {
	deps  Deps
	Input textinput.Model
	Table table.Model

	width  int
	height int
}

func NewSearchModel(deps Deps) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "Search files..."
	ti.CharLimit = 255
	ti.Width = 48
	ti.Focus()

	columns := []table.Column{
		{Title: "Name", Width: 40},
		{Title: "Category", Width: 12},
		{Title: "Size", Width: 12},
		{Title: "Updated", Width: 16},
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(14))
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(st)

	return SearchModel{deps: deps, Input: ti, Table: t}
}

func (m SearchModel) Init() tea.Cmd { return textinput.Blink }

func (m *SearchModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if height > 12 {
		m.Table.SetHeight(height - 12)
	}
}

func (m SearchModel) runSearch(query string) tea.Cmd {
	coord := m.deps.Coord
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		coord.SearchFiles(ctx, api.SearchQuery{Query: query})
		return searchDoneMsg{}
	}
}

func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case searchDoneMsg:
		snap := m.deps.Coord.Search.Snapshot()
		rows := make([]table.Row, 0, len(snap.Files))
		for _, f := range snap.Files {
			rows = append(rows, table.Row{
				f.Name,
				string(f.Category),
				humanSize(f.Size),
				f.UpdatedAt.Format("2006-01-02 15:04"),
			})
		}
		m.Table.SetRows(rows)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return backToBrowserMsg{} }
		case "enter":
			if q := strings.TrimSpace(m.Input.Value()); q != "" {
				return m, m.runSearch(q)
			}
			return m, nil
		case "tab":
			if m.Input.Focused() {
				m.Input.Blur()
				m.Table.Focus()
			} else {
				m.Table.Blur()
				m.Input.Focus()
				cmds = append(cmds, textinput.Blink)
			}
			return m, tea.Batch(cmds...)
		}
	}

	if m.Input.Focused() {
		m.Input, cmd = m.Input.Update(msg)
	} else {
		m.Table, cmd = m.Table.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m SearchModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Search") + "\n\n")
	b.WriteString(m.Input.View() + "\n\n")

	snap := m.deps.Coord.Search.Snapshot()
	switch {
	case snap.Loading:
		b.WriteString(statusMessageStyle("searching..."))
	case snap.Err != "":
		b.WriteString(errorMessageStyle(snap.Err))
	case snap.Query != "":
		b.WriteString(m.Table.View())
	}

	b.WriteString("\n" + helpStyle.Render("enter: search • tab: switch focus • esc: back"))
	return b.String()
}
