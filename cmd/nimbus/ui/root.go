// Package ui is the terminal front end. Every screen reads from the shared
// client cache and drives the fetch coordinator; no screen talks to the
// backend directly.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"nimbus/internal/fetch"
	"nimbus/internal/nav"
	"nimbus/internal/session"
	"nimbus/internal/store"
	"nimbus/internal/upload"
)

// Deps are the shared client-side singletons every screen works against.
type Deps struct {
	Coord   *fetch.Coordinator
	FS      *store.FileSystem
	Nav     *nav.Navigator
	Uploads *upload.Manager
	Session *session.Session
}

type state int

const (
	stateBrowser state = iota
	stateSearch
	stateDashboard
)

// Screen-switch messages, emitted by the child models.
type showSearchMsg struct{}
type showDashboardMsg struct{}
type backToBrowserMsg struct{ refresh bool }

// uploadsTickMsg re-renders the upload popup while transfers run.
type uploadsTickMsg struct{}

func tickUploads() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
		return uploadsTickMsg{}
	})
}

type RootModel struct {
	deps Deps

	State     state
	Browser   BrowserModel
	Search    SearchModel
	Dashboard DashboardModel

	Quitting bool
	width    int
	height   int
}

func NewRootModel(deps Deps) RootModel {
	return RootModel{
		deps:    deps,
		State:   stateBrowser,
		Browser: NewBrowserModel(deps),
	}
}

func (m RootModel) Init() tea.Cmd {
	return m.Browser.Init()
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.Browser.SetSize(msg.Width, msg.Height)
		m.Search.SetSize(msg.Width, msg.Height)
		m.Dashboard.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.Quitting = true
			return m, tea.Quit
		case tea.KeyCtrlL:
			// Logout tears every cache down through the session hooks.
			m.deps.Session.Logout()
			m.State = stateBrowser
			m.Browser = NewBrowserModel(m.deps)
			m.Browser.SetSize(m.width, m.height)
			return m, m.Browser.Init()
		}

	case showSearchMsg:
		m.State = stateSearch
		m.Search = NewSearchModel(m.deps)
		m.Search.SetSize(m.width, m.height)
		return m, m.Search.Init()

	case showDashboardMsg:
		m.State = stateDashboard
		m.Dashboard = NewDashboardModel(m.deps)
		m.Dashboard.SetSize(m.width, m.height)
		return m, m.Dashboard.Init()

	case backToBrowserMsg:
		m.State = stateBrowser
		if msg.refresh {
			m.Browser.rebuildRows()
		}
		return m, nil

	case uploadsTickMsg:
		// Keep ticking while anything is still moving.
		items, open, _, _ := m.deps.Uploads.Snapshot()
		if open && anyActive(items) {
			cmds = append(cmds, tickUploads())
		}
	}

	var cmd tea.Cmd
	switch m.State {
	case stateBrowser:
		m.Browser, cmd = m.Browser.Update(msg)
	case stateSearch:
		m.Search, cmd = m.Search.Update(msg)
	case stateDashboard:
		m.Dashboard, cmd = m.Dashboard.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m RootModel) View() string {
	if m.Quitting {
		return "Bye!\n"
	}

	var body string
	switch m.State {
	case stateBrowser:
		body = m.Browser.View()
	case stateSearch:
		body = m.Search.View()
	case stateDashboard:
		body = m.Dashboard.View()
	}

	if popup := renderUploadPopup(m.deps.Uploads, m.width); popup != "" {
		body += "\n" + popup
	}
	return body
}

func anyActive(items []upload.Item) bool {
	for _, it := range items {
		if it.Status == upload.StatusPending || it.Status == upload.StatusUploading {
			return true
		}
	}
	return false
}
