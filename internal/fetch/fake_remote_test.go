package fetch

import (
	"context"
	"errors"
	"sync"
	"time"

	"nimbus/internal/api"
)

// fakeRemote implements Remote with pluggable handlers and call counting.
type fakeRemote struct {
	mu    sync.Mutex
	calls map[string]int

	folderContents  func(folderID string, limit int, cursor string) (api.ContentsPage, error)
	flatFiles       func(filter api.FlatQuery, limit int, cursor string) (api.FilesPage, error)
	folder          func(id string) (api.RemoteFolder, error)
	folderAncestors func(id string) ([]api.RemoteFolder, error)
	createFolder    func(name, parentID string, autoRename bool) (api.RemoteFolder, error)
	search          func(q api.SearchQuery) ([]api.RemoteFile, error)
	byDateRange     func(start, end time.Time, limit int) ([]api.RemoteFile, error)
	dashboard       func() (api.DashboardSummary, error)
	renameFile      func(id, name string) (api.RemoteFile, error)
	renameFolder    func(id, name string) (api.RemoteFolder, error)
	deleteFile      func(id string) error
	deleteFolder    func(id string) error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{calls: make(map[string]int)}
}

func (f *fakeRemote) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeRemote) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

var errNotWired = errors.New("not wired")

func (f *fakeRemote) FolderContents(_ context.Context, folderID string, limit int, cursor string) (api.ContentsPage, error) {
	f.count("FolderContents")
	if f.folderContents == nil {
		return api.ContentsPage{}, errNotWired
	}
	return f.folderContents(folderID, limit, cursor)
}

func (f *fakeRemote) FlatFiles(_ context.Context, filter api.FlatQuery, limit int, cursor string) (api.FilesPage, error) {
	f.count("FlatFiles")
	if f.flatFiles == nil {
		return api.FilesPage{}, errNotWired
	}
	return f.flatFiles(filter, limit, cursor)
}

func (f *fakeRemote) Folder(_ context.Context, id string) (api.RemoteFolder, error) {
	f.count("Folder")
	if f.folder == nil {
		return api.RemoteFolder{}, errNotWired
	}
	return f.folder(id)
}

func (f *fakeRemote) FolderAncestors(_ context.Context, id string) ([]api.RemoteFolder, error) {
	f.count("FolderAncestors")
	if f.folderAncestors == nil {
		return nil, errNotWired
	}
	return f.folderAncestors(id)
}

func (f *fakeRemote) CreateFolder(_ context.Context, name, parentID string, autoRename bool) (api.RemoteFolder, error) {
	f.count("CreateFolder")
	if f.createFolder == nil {
		return api.RemoteFolder{}, errNotWired
	}
	return f.createFolder(name, parentID, autoRename)
}

func (f *fakeRemote) Search(_ context.Context, q api.SearchQuery) ([]api.RemoteFile, error) {
	f.count("Search")
	if f.search == nil {
		return nil, errNotWired
	}
	return f.search(q)
}

func (f *fakeRemote) FilesByDateRange(_ context.Context, start, end time.Time, limit int) ([]api.RemoteFile, error) {
	f.count("FilesByDateRange")
	if f.byDateRange == nil {
		return nil, errNotWired
	}
	return f.byDateRange(start, end, limit)
}

func (f *fakeRemote) DashboardSummary(_ context.Context) (api.DashboardSummary, error) {
	f.count("DashboardSummary")
	if f.dashboard == nil {
		return api.DashboardSummary{}, errNotWired
	}
	return f.dashboard()
}

func (f *fakeRemote) RenameFile(_ context.Context, id, name string) (api.RemoteFile, error) {
	f.count("RenameFile")
	if f.renameFile == nil {
		return api.RemoteFile{}, errNotWired
	}
	return f.renameFile(id, name)
}

func (f *fakeRemote) RenameFolder(_ context.Context, id, name string) (api.RemoteFolder, error) {
	f.count("RenameFolder")
	if f.renameFolder == nil {
		return api.RemoteFolder{}, errNotWired
	}
	return f.renameFolder(id, name)
}

func (f *fakeRemote) DeleteFile(_ context.Context, id string) error {
	f.count("DeleteFile")
	if f.deleteFile == nil {
		return errNotWired
	}
	return f.deleteFile(id)
}

func (f *fakeRemote) DeleteFolder(_ context.Context, id string) error {
	f.count("DeleteFolder")
	if f.deleteFolder == nil {
		return errNotWired
	}
	return f.deleteFolder(id)
}
