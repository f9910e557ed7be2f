package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type dashboardDoneMsg struct{}
type reportDoneMsg struct{}

// DashboardModel renders the aggregate stats screen plus an on-demand
// activity report (files touched in the last 30 days).
type DashboardModel struct {
	deps   Deps
	Recent viewport.Model

	width  int
	height int
}

func NewDashboardModel(deps Deps) DashboardModel {
	vp := viewport.New(70, 12)
	vp.Style = lipgloss.NewStyle().PaddingLeft(1)
	return DashboardModel{deps: deps, Recent: vp}
}

func (m DashboardModel) Init() tea.Cmd {
	return m.refresh()
}

func (m *DashboardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if width > 10 {
		m.Recent.Width = width - 6
	}
	if height > 18 {
		m.Recent.Height = height - 16
	}
}

func (m DashboardModel) refresh() tea.Cmd {
	coord := m.deps.Coord
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		coord.FetchDashboardSummary(ctx)
		return dashboardDoneMsg{}
	}
}

func (m DashboardModel) runReport() tea.Cmd {
	coord := m.deps.Coord
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		end := time.Now()
		coord.FetchFilesByDateRange(ctx, end.AddDate(0, 0, -30), end)
		return reportDoneMsg{}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case dashboardDoneMsg:
		m.rebuildRecent()
		return m, nil

	case reportDoneMsg:
		m.rebuildRecent()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return backToBrowserMsg{} }
		case "r":
			return m, m.refresh()
		case "t":
			return m, m.runReport()
		}
	}

	m.Recent, cmd = m.Recent.Update(msg)
	return m, cmd
}

func (m *DashboardModel) rebuildRecent() {
	var b strings.Builder

	snap := m.deps.Coord.Dashboard.Snapshot()
	if snap.Loaded {
		b.WriteString(crumbStyle.Render("Recent files") + "\n")
		for _, f := range snap.Data.RecentFiles {
			where := ""
			if f.Parent != nil {
				where = " in " + f.Parent.Name
			}
			b.WriteString(fmt.Sprintf("  %-40s %10s%s\n", f.Name, f.Size, where))
		}
	}

	report := m.deps.Coord.Report.Snapshot()
	if !report.Start.IsZero() {
		b.WriteString("\n" + crumbStyle.Render(fmt.Sprintf(
			"Activity %s .. %s (%d files)",
			report.Start.Format("2006-01-02"), report.End.Format("2006-01-02"), len(report.Files))) + "\n")
		if report.Err != "" {
			b.WriteString("  " + errorMessageStyle(report.Err) + "\n")
		}
		for _, f := range report.Files {
			b.WriteString(fmt.Sprintf("  %-40s %10s  %s\n",
				f.Name, humanSize(f.Size), f.UpdatedAt.Format("2006-01-02 15:04")))
		}
	}

	m.Recent.SetContent(b.String())
}

func (m DashboardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Dashboard") + "\n\n")

	snap := m.deps.Coord.Dashboard.Snapshot()
	switch {
	case snap.Loading:
		b.WriteString(statusMessageStyle("loading summary..."))
	case snap.Err != "":
		b.WriteString(errorMessageStyle(snap.Err + " (press r to retry)"))
	case snap.Loaded:
		d := snap.Data.SummaryData
		b.WriteString(fmt.Sprintf(
			"Storage: %s / %s\n\n", humanSize(d.StorageUsed), humanSize(d.StorageTotal)))
		b.WriteString(fmt.Sprintf(
			"Folders %d  Images %d  Videos %d  Documents %d  Music %d  Others %d\n",
			d.TotalFolders, d.TotalImages, d.TotalVideos, d.TotalDocuments, d.TotalMusic, d.TotalOthers))
		b.WriteString(blurredStyle.Render(fmt.Sprintf(
			"This month: +%d images, +%d videos, +%d documents",
			d.NewUploadsThisMonth.TotalImages, d.NewUploadsThisMonth.TotalVideos, d.NewUploadsThisMonth.TotalDocuments)))
		b.WriteString("\n\n")
		b.WriteString(m.Recent.View())
	}

	b.WriteString("\n" + helpStyle.Render("r: refresh • t: 30-day report • esc: back"))
	return b.String()
}
