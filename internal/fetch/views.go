package fetch

import (
	"context"
	"sync"
	"time"

	"nimbus/internal/api"
	"nimbus/internal/logger"
)

// The search, report and dashboard screens are query-scoped and transient:
// their results never enter the normalized store. Each view keeps its own
// small state with loading/error flags, mirroring the per-screen slices of a
// typical drive UI.

type SearchView struct {
	mu      sync.RWMutex
	query   string
	files   []api.RemoteFile
	loading bool
	err     string
}

type SearchSnapshot struct {
	Query   string
	Files   []api.RemoteFile
	Loading bool
	Err     string
}

func (v *SearchView) Snapshot() SearchSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return SearchSnapshot{
		Query:   v.query,
		Files:   append([]api.RemoteFile(nil), v.files...),
		Loading: v.loading,
		Err:     v.err,
	}
}

// Clear resets the fields one by one; the mutex itself must survive the reset.
func (v *SearchView) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = ""
	v.files = nil
	v.loading = false
	v.err = ""
}

func (v *SearchView) begin(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = query
	v.loading = true
	v.err = ""
}

func (v *SearchView) finish(files []api.RemoteFile, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		v.err = err.Error()
		return
	}
	v.files = files
	v.err = ""
}

// SearchFiles runs a one-shot search. Failure is recovered into the view
// state, never returned.
func (c *Coordinator) SearchFiles(ctx context.Context, q api.SearchQuery) {
	c.Search.begin(q.Query)
	files, err := c.remote.Search(ctx, q)
	if err != nil {
		logger.Errorf("search %q: %v", q.Query, err)
	}
	c.Search.finish(files, err)
}

type ReportView struct {
	mu         sync.RWMutex
	start, end time.Time
	files      []api.RemoteFile
	loading    bool
	err        string
}

type ReportSnapshot struct {
	Start, End time.Time
	Files      []api.RemoteFile
	Loading    bool
	Err        string
}

func (v *ReportView) Snapshot() ReportSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return ReportSnapshot{
		Start:   v.start,
		End:     v.end,
		Files:   append([]api.RemoteFile(nil), v.files...),
		Loading: v.loading,
		Err:     v.err,
	}
}

func (v *ReportView) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.start, v.end = time.Time{}, time.Time{}
	v.files = nil
	v.loading = false
	v.err = ""
}

// FetchFilesByDateRange populates the date-range report. One-shot, no cursor.
func (c *Coordinator) FetchFilesByDateRange(ctx context.Context, start, end time.Time) {
	c.Report.mu.Lock()
	c.Report.start, c.Report.end = start, end
	c.Report.loading = true
	c.Report.err = ""
	c.Report.mu.Unlock()

	files, err := c.remote.FilesByDateRange(ctx, start, end, 1000)

	c.Report.mu.Lock()
	defer c.Report.mu.Unlock()
	c.Report.loading = false
	if err != nil {
		logger.Errorf("files by date range: %v", err)
		c.Report.err = err.Error()
		return
	}
	c.Report.files = files
}

type DashboardView struct {
	mu      sync.RWMutex
	data    api.DashboardSummary
	loaded  bool
	loading bool
	err     string
}

type DashboardSnapshot struct {
	Data    api.DashboardSummary
	Loaded  bool
	Loading bool
	Err     string
}

func (v *DashboardView) Snapshot() DashboardSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return DashboardSnapshot{Data: v.data, Loaded: v.loaded, Loading: v.loading, Err: v.err}
}

func (v *DashboardView) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data = api.DashboardSummary{}
	v.loaded = false
	v.loading = false
	v.err = ""
}

// FetchDashboardSummary loads the aggregate stats for the dashboard screen.
func (c *Coordinator) FetchDashboardSummary(ctx context.Context) {
	c.Dashboard.mu.Lock()
	c.Dashboard.loading = true
	c.Dashboard.err = ""
	c.Dashboard.mu.Unlock()

	data, err := c.remote.DashboardSummary(ctx)

	c.Dashboard.mu.Lock()
	defer c.Dashboard.mu.Unlock()
	c.Dashboard.loading = false
	if err != nil {
		logger.Errorf("dashboard summary: %v", err)
		c.Dashboard.err = err.Error()
		return
	}
	c.Dashboard.data = data
	c.Dashboard.loaded = true
}
