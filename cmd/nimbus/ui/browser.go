package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nimbus/internal/api"
	"nimbus/internal/nav"
	"nimbus/internal/store"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptNewFolder
	promptRename
	promptUpload
	promptDelete
)

// rowRef maps a table row back to the entity it renders.
type rowRef struct {
	isFolder bool
	id       string
	name     string
}

type pageLoadedMsg struct{ folderID string }

type mutationDoneMsg struct {
	err     error
	status  string
	refresh bool
}

// crumbTickMsg re-joins the breadcrumb after background ancestor resolution.
type crumbTickMsg struct{}

// BrowserModel is the folder listing screen: breadcrumb, mixed table of
// subfolders and files, and a single prompt line for create/rename/delete/
// upload actions.
type BrowserModel struct {
	deps Deps

	Table  table.Model
	Rows   []rowRef
	Prompt textinput.Model
	Mode   promptKind
	Status string

	width  int
	height int
}

func NewBrowserModel(deps Deps) BrowserModel {
	columns := []table.Column{
		{Title: " ", Width: 3},
		{Title: "Name", Width: 40},
		{Title: "Size", Width: 12},
		{Title: "Modified", Width: 16},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(16),
	)
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

	ti := textinput.New()
	ti.CharLimit = 255
	ti.Width = 48

	return BrowserModel{deps: deps, Table: t, Prompt: ti}
}

func (m BrowserModel) Init() tea.Cmd {
	return m.loadPage(m.deps.Nav.CurrentFolder())
}

func (m *BrowserModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if height > 12 {
		m.Table.SetHeight(height - 10)
	}
}

func (m *BrowserModel) currentKey() string {
	return store.BuildPaginationKey(m.deps.Nav.CurrentFolder(), "all")
}

// loadPage drives one guarded page fetch. The coordinator absorbs duplicate
// and exhausted requests, so the UI can fire this freely.
func (m BrowserModel) loadPage(folderID string) tea.Cmd {
	coord := m.deps.Coord
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		coord.FetchFolderContents(ctx, folderID)
		return pageLoadedMsg{folderID: folderID}
	}
}

func (m *BrowserModel) rebuildRows() {
	key := m.currentKey()
	folders := m.deps.FS.FoldersIn(key)
	files := m.deps.FS.FilesIn(key)

	m.Rows = m.Rows[:0]
	rows := make([]table.Row, 0, len(folders)+len(files))
	for _, f := range folders {
		m.Rows = append(m.Rows, rowRef{isFolder: true, id: f.ID, name: f.Name})
		rows = append(rows, table.Row{"📁", f.Name, "-", f.UpdatedAt.Format("2006-01-02 15:04")})
	}
	for _, f := range files {
		m.Rows = append(m.Rows, rowRef{id: f.ID, name: f.Name})
		rows = append(rows, table.Row{"📄", f.Name, humanSize(f.Size), f.UpdatedAt.Format("2006-01-02 15:04")})
	}
	m.Table.SetRows(rows)
	if m.Table.Cursor() >= len(rows) {
		m.Table.SetCursor(0)
	}
}

func (m *BrowserModel) selected() (rowRef, bool) {
	idx := m.Table.Cursor()
	if idx < 0 || idx >= len(m.Rows) {
		return rowRef{}, false
	}
	return m.Rows[idx], true
}

func (m BrowserModel) Update(msg tea.Msg) (BrowserModel, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case pageLoadedMsg:
		m.rebuildRows()
		page := m.deps.Coord.PageStatus(m.currentKey())
		if page.Err != "" {
			m.Status = "load failed: " + page.Err
		} else {
			m.Status = ""
		}
		return m, nil

	case crumbTickMsg:
		// names may have resolved meanwhile; the view re-joins on render
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.Status = msg.err.Error()
			var conflict *api.ConflictError
			if errors.As(msg.err, &conflict) {
				m.Status = conflict.Message + " (try another name)"
			}
		} else {
			m.Status = msg.status
		}
		if msg.refresh {
			m.rebuildRows()
		}
		return m, nil

	case tea.KeyMsg:
		if m.Mode != promptNone {
			return m.updatePrompt(msg)
		}

		switch msg.String() {
		case "enter":
			if ref, ok := m.selected(); ok && ref.isFolder {
				m.deps.Coord.ChangeFolder(ref.id)
				m.Table.SetCursor(0)
				cmds = append(cmds,
					m.loadPage(ref.id),
					tea.Tick(time.Second, func(time.Time) tea.Msg { return crumbTickMsg{} }),
				)
				m.rebuildRows()
				return m, tea.Batch(cmds...)
			}
		case "backspace", "esc":
			crumbs := m.deps.Coord.Breadcrumb(m.deps.Nav.CurrentFolder())
			if len(crumbs) >= 2 {
				parent := crumbs[len(crumbs)-2]
				m.deps.Coord.ChangeFolder(parent.ID)
				m.Table.SetCursor(0)
				m.rebuildRows()
				return m, m.loadPage(parent.ID)
			}
		case "m", "pgdown":
			return m, m.loadPage(m.deps.Nav.CurrentFolder())
		case "n":
			return m.openPrompt(promptNewFolder, "New folder name", ""), textinput.Blink
		case "r", "f2":
			if ref, ok := m.selected(); ok {
				return m.openPrompt(promptRename, "Rename "+ref.name, ref.name), textinput.Blink
			}
		case "d", "delete":
			if ref, ok := m.selected(); ok {
				return m.openPrompt(promptDelete, fmt.Sprintf("Delete %q? type yes", ref.name), ""), textinput.Blink
			}
		case "u":
			return m.openPrompt(promptUpload, "Local file path to upload", ""), textinput.Blink
		case "v":
			if m.deps.Nav.ViewMode() == nav.ViewGrid {
				m.deps.Nav.SetViewMode(nav.ViewList)
			} else {
				m.deps.Nav.SetViewMode(nav.ViewGrid)
			}
			return m, nil
		case "p":
			if _, open, _, _ := m.deps.Uploads.Snapshot(); open {
				m.deps.Uploads.ClosePopup()
				return m, nil
			}
			m.deps.Uploads.OpenPopup()
			return m, tickUploads()
		case "/":
			return m, func() tea.Msg { return showSearchMsg{} }
		case "s":
			return m, func() tea.Msg { return showDashboardMsg{} }
		case "q":
			return m, tea.Quit
		}
	}

	m.Table, cmd = m.Table.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m BrowserModel) openPrompt(kind promptKind, placeholder, value string) BrowserModel {
	m.Mode = kind
	m.Prompt.Placeholder = placeholder
	m.Prompt.SetValue(value)
	m.Prompt.Focus()
	m.Status = ""
	return m
}

func (m BrowserModel) updatePrompt(msg tea.KeyMsg) (BrowserModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = promptNone
		m.Prompt.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.Prompt.Value())
		kind := m.Mode
		m.Mode = promptNone
		m.Prompt.Blur()
		m.Prompt.SetValue("")
		if value == "" {
			return m, nil
		}
		return m, m.submitPrompt(kind, value)
	}
	var cmd tea.Cmd
	m.Prompt, cmd = m.Prompt.Update(msg)
	return m, cmd
}

func (m BrowserModel) submitPrompt(kind promptKind, value string) tea.Cmd {
	deps := m.deps
	key := m.currentKey()
	ref, hasSel := m.selected()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		switch kind {
		case promptNewFolder:
			_, err := deps.Coord.CreateFolder(ctx, value, deps.Nav.CurrentFolder(), false)
			return mutationDoneMsg{err: err, status: "folder created", refresh: true}

		case promptRename:
			if !hasSel {
				return mutationDoneMsg{}
			}
			var err error
			if ref.isFolder {
				_, err = deps.Coord.RenameFolder(ctx, ref.id, value)
			} else {
				_, err = deps.Coord.RenameFile(ctx, ref.id, value)
			}
			return mutationDoneMsg{err: err, status: "renamed", refresh: true}

		case promptDelete:
			if !hasSel || value != "yes" {
				return mutationDoneMsg{status: "delete aborted"}
			}
			var err error
			if ref.isFolder {
				err = deps.Coord.DeleteFolder(ctx, key, ref.id)
			} else {
				err = deps.Coord.DeleteFile(ctx, key, ref.id)
			}
			return mutationDoneMsg{err: err, status: "deleted", refresh: true}

		case promptUpload:
			deps.Uploads.Enqueue(context.Background(), []string{value}, deps.Nav.CurrentFolder())
			return uploadsTickMsg{}
		}
		return mutationDoneMsg{}
	}
}

func (m BrowserModel) View() string {
	var b strings.Builder

	crumbs := m.deps.Coord.Breadcrumb(m.deps.Nav.CurrentFolder())
	parts := make([]string, 0, len(crumbs))
	for _, c := range crumbs {
		parts = append(parts, c.Name)
	}
	b.WriteString(titleStyle.Render("Nimbus Drive") + "  ")
	b.WriteString(crumbStyle.Render(strings.Join(parts, " / ")))
	b.WriteString(blurredStyle.Render(fmt.Sprintf("  [%s]", m.deps.Nav.ViewMode())))
	b.WriteString("\n\n")

	b.WriteString(m.Table.View())
	b.WriteString("\n")

	page := m.deps.Coord.PageStatus(m.currentKey())
	switch {
	case page.Loading:
		b.WriteString(statusMessageStyle("loading..."))
	case page.Err != "":
		b.WriteString(errorMessageStyle(page.Err + " (press m to retry)"))
	case page.HasMore:
		b.WriteString(blurredStyle.Render("more available, press m"))
	default:
		b.WriteString(blurredStyle.Render("end of folder"))
	}

	if m.Mode != promptNone {
		b.WriteString("\n\n" + focusedStyle.Render("> ") + m.Prompt.View())
	} else if m.Status != "" {
		b.WriteString("\n\n" + statusMessageStyle(m.Status))
	}

	b.WriteString("\n" + helpStyle.Render(
		"enter: open • backspace: up • n: new folder • r: rename • d: delete • u: upload • m: more • /: search • s: dashboard • p: uploads • v: view • ctrl+l: logout • q: quit"))
	return b.String()
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
