// Package fetch orchestrates remote calls and merges their results into the
// client cache. It is the only writer of pagination state: every listing fetch
// follows the same guarded template, so at most one request is in flight per
// view key and exhausted keys are never refetched.
package fetch

import (
	"context"
	"time"

	"nimbus/internal/api"
	"nimbus/internal/logger"
	"nimbus/internal/nav"
	"nimbus/internal/store"
)

// Remote is the slice of the backend API the coordinator drives.
// *api.Client satisfies it; tests plug in a fake.
type Remote interface {
	FolderContents(ctx context.Context, folderID string, limit int, cursor string) (api.ContentsPage, error)
	FlatFiles(ctx context.Context, filter api.FlatQuery, limit int, cursor string) (api.FilesPage, error)
	Folder(ctx context.Context, id string) (api.RemoteFolder, error)
	FolderAncestors(ctx context.Context, id string) ([]api.RemoteFolder, error)
	CreateFolder(ctx context.Context, name, parentID string, autoRename bool) (api.RemoteFolder, error)
	RenameFile(ctx context.Context, id, name string) (api.RemoteFile, error)
	RenameFolder(ctx context.Context, id, name string) (api.RemoteFolder, error)
	DeleteFile(ctx context.Context, id string) error
	DeleteFolder(ctx context.Context, id string) error
	Search(ctx context.Context, q api.SearchQuery) ([]api.RemoteFile, error)
	FilesByDateRange(ctx context.Context, start, end time.Time, limit int) ([]api.RemoteFile, error)
	DashboardSummary(ctx context.Context) (api.DashboardSummary, error)
}

type Coordinator struct {
	remote Remote
	fs     *store.FileSystem
	pages  *store.Registry
	nav    *nav.Navigator

	Search    *SearchView
	Report    *ReportView
	Dashboard *DashboardView
}

func NewCoordinator(remote Remote, fs *store.FileSystem, pages *store.Registry, navigator *nav.Navigator) *Coordinator {
	return &Coordinator{
		remote:    remote,
		fs:        fs,
		pages:     pages,
		nav:       navigator,
		Search:    &SearchView{},
		Report:    &ReportView{},
		Dashboard: &DashboardView{},
	}
}

// PageStatus exposes one key's pagination state to the UI.
func (c *Coordinator) PageStatus(key string) store.PageState {
	return c.pages.Page(key)
}

// FetchFolderContents loads the next page of one folder's mixed listing.
// No-op when a fetch for the key is already running or the key is exhausted.
// Failures are recorded on the page state, never returned.
func (c *Coordinator) FetchFolderContents(ctx context.Context, folderID string) {
	key := store.BuildPaginationKey(folderID, "all")
	page, ok := c.pages.StartLoad(key)
	if !ok {
		return
	}

	res, err := c.remote.FolderContents(ctx, folderID, page.Limit, page.Cursor)
	if err != nil {
		logger.Errorf("folder contents %s: %v", folderID, err)
		c.pages.SetPageError(key, err.Error())
		return
	}

	folders, files := partition(res.Items)
	c.fs.UpsertFolders(key, folders...)
	c.fs.UpsertFiles(key, files...)
	c.pages.AdvanceCursor(key, res.NextCursor)
	c.pages.StopLoad(key, res.NextCursor != "")
}

// FetchFlatFiles loads the next page of a folder-agnostic flat listing
// (Images, Videos, Starred, Trash, ...). Same guard as FetchFolderContents.
// A query with no filter axis is refused: its key would collide with the
// root folder's browse view and corrupt that listing.
func (c *Coordinator) FetchFlatFiles(ctx context.Context, filter api.FlatQuery) {
	filterKey := store.FlatQueryKey(filter)
	if filterKey == "all" {
		logger.Errorf("flat files: query without a filter axis has no flat view")
		return
	}
	key := store.BuildPaginationKey(store.RootID, filterKey)
	page, ok := c.pages.StartLoad(key)
	if !ok {
		return
	}

	res, err := c.remote.FlatFiles(ctx, filter, page.Limit, page.Cursor)
	if err != nil {
		logger.Errorf("flat files %v: %v", filter.Category, err)
		c.pages.SetPageError(key, err.Error())
		return
	}

	c.fs.UpsertFiles(key, res.Items...)
	c.pages.AdvanceCursor(key, res.NextCursor)
	c.pages.StopLoad(key, res.NextCursor != "")
}

// partition splits a mixed listing by kind. Entries with an unknown kind are
// dropped here; they never reach the store.
func partition(items []api.DriveItem) ([]api.RemoteFolder, []api.RemoteFile) {
	var folders []api.RemoteFolder
	var files []api.RemoteFile
	for _, it := range items {
		switch {
		case it.Folder != nil:
			folders = append(folders, *it.Folder)
		case it.File != nil:
			files = append(files, *it.File)
		}
	}
	return folders, files
}
