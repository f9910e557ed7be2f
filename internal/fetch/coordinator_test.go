package fetch

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"nimbus/internal/api"
	"nimbus/internal/nav"
	"nimbus/internal/store"
)

func newTestCoordinator(remote Remote) (*Coordinator, *store.FileSystem, *store.Registry, *nav.Navigator) {
	fs := store.NewFileSystem()
	pages := store.NewRegistry(50)
	navigator := nav.NewNavigator()
	return NewCoordinator(remote, fs, pages, navigator), fs, pages, navigator
}

func TestFreshFolderLoad(t *testing.T) {
	remote := newFakeRemote()
	remote.folderContents = func(folderID string, limit int, cursor string) (api.ContentsPage, error) {
		if folderID != "root" || cursor != "" {
			t.Errorf("request folderID=%q cursor=%q", folderID, cursor)
		}
		return api.ContentsPage{Items: []api.DriveItem{
			{Kind: "folder", Folder: &api.RemoteFolder{ID: "f1", Name: "Docs", Kind: "folder"}},
			{Kind: "file", File: &api.RemoteFile{ID: "x1", Name: "a.txt", Size: 10, Kind: "file"}},
		}}, nil
	}
	c, fs, pages, _ := newTestCoordinator(remote)

	c.FetchFolderContents(context.Background(), "root")

	if f, ok := fs.FolderByID("f1"); !ok || f.Name != "Docs" {
		t.Errorf("folder f1 = %+v, ok=%v", f, ok)
	}
	if f, ok := fs.FileByID("x1"); !ok || f.Size != 10 {
		t.Errorf("file x1 = %+v, ok=%v", f, ok)
	}
	if ids := fs.FolderIDsIn("folder-root"); !reflect.DeepEqual(ids, []string{"f1"}) {
		t.Errorf("folder ids = %v", ids)
	}
	if ids := fs.FileIDsIn("folder-root"); !reflect.DeepEqual(ids, []string{"x1"}) {
		t.Errorf("file ids = %v", ids)
	}
	p := pages.Page("folder-root")
	if p.Loading || p.HasMore || p.Cursor != "" || p.Err != "" {
		t.Errorf("page = %+v, want idle exhausted", p)
	}
}

func TestPaginationContinuation(t *testing.T) {
	remote := newFakeRemote()
	var gotCursors []string
	remote.folderContents = func(folderID string, limit int, cursor string) (api.ContentsPage, error) {
		gotCursors = append(gotCursors, cursor)
		if cursor == "" {
			return api.ContentsPage{
				Items:      []api.DriveItem{{Kind: "file", File: &api.RemoteFile{ID: "x1", Kind: "file"}}},
				NextCursor: "c1",
			}, nil
		}
		return api.ContentsPage{
			Items: []api.DriveItem{{Kind: "file", File: &api.RemoteFile{ID: "x2", Kind: "file"}}},
		}, nil
	}
	c, fs, pages, _ := newTestCoordinator(remote)

	c.FetchFolderContents(context.Background(), "root")
	if p := pages.Page("folder-root"); !p.HasMore || p.Cursor != "c1" {
		t.Fatalf("after first page = %+v", p)
	}

	c.FetchFolderContents(context.Background(), "root")

	if !reflect.DeepEqual(gotCursors, []string{"", "c1"}) {
		t.Errorf("cursors sent = %v", gotCursors)
	}
	if ids := fs.FileIDsIn("folder-root"); !reflect.DeepEqual(ids, []string{"x1", "x2"}) {
		t.Errorf("merged ids = %v, want prior order preserved", ids)
	}
	if p := pages.Page("folder-root"); p.HasMore {
		t.Error("exhausted after second page without cursor")
	}
}

func TestNoDuplicateInFlightFetch(t *testing.T) {
	remote := newFakeRemote()
	enter := make(chan struct{})
	release := make(chan struct{})
	remote.folderContents = func(string, int, string) (api.ContentsPage, error) {
		close(enter)
		<-release
		return api.ContentsPage{NextCursor: "c1"}, nil
	}
	c, _, pages, _ := newTestCoordinator(remote)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.FetchFolderContents(context.Background(), "root")
	}()
	<-enter // first fetch holds the key

	before := pages.Page("folder-root")
	c.FetchFolderContents(context.Background(), "root") // must be a no-op
	after := pages.Page("folder-root")

	if remote.callCount("FolderContents") != 1 {
		t.Fatalf("network called %d times while in flight", remote.callCount("FolderContents"))
	}
	if before.Cursor != after.Cursor || before.HasMore != after.HasMore {
		t.Error("no-op fetch altered pagination state")
	}

	close(release)
	wg.Wait()
}

func TestExhaustedKeyIsNoOp(t *testing.T) {
	remote := newFakeRemote()
	remote.folderContents = func(string, int, string) (api.ContentsPage, error) {
		return api.ContentsPage{}, nil // no cursor -> exhausted
	}
	c, _, _, _ := newTestCoordinator(remote)

	c.FetchFolderContents(context.Background(), "root")
	c.FetchFolderContents(context.Background(), "root")
	c.FetchFolderContents(context.Background(), "root")

	if n := remote.callCount("FolderContents"); n != 1 {
		t.Errorf("network called %d times, want 1", n)
	}
}

func TestListingFailureIsRecoverable(t *testing.T) {
	remote := newFakeRemote()
	fail := true
	remote.folderContents = func(string, int, string) (api.ContentsPage, error) {
		if fail {
			return api.ContentsPage{}, errors.New("connection refused")
		}
		return api.ContentsPage{
			Items: []api.DriveItem{{Kind: "file", File: &api.RemoteFile{ID: "x1", Kind: "file"}}},
		}, nil
	}
	c, fs, pages, _ := newTestCoordinator(remote)

	c.FetchFolderContents(context.Background(), "root")
	p := pages.Page("folder-root")
	if p.Err != "connection refused" || p.Loading || !p.HasMore {
		t.Fatalf("errored page = %+v", p)
	}

	fail = false
	c.FetchFolderContents(context.Background(), "root")
	p = pages.Page("folder-root")
	if p.Err != "" {
		t.Error("error not cleared by successful retry")
	}
	if len(fs.FileIDsIn("folder-root")) != 1 {
		t.Error("retry did not populate the store")
	}
}

func TestStarredFlatFetchStaysOutOfRootView(t *testing.T) {
	remote := newFakeRemote()
	remote.flatFiles = func(filter api.FlatQuery, limit int, cursor string) (api.FilesPage, error) {
		if !filter.Starred {
			t.Errorf("filter = %+v, want starred", filter)
		}
		return api.FilesPage{Items: []api.RemoteFile{{ID: "st1", IsStarred: true, Kind: "file"}}}, nil
	}
	c, fs, pages, _ := newTestCoordinator(remote)

	c.FetchFlatFiles(context.Background(), api.FlatQuery{Starred: true})

	if ids := fs.FileIDsIn("flat-starred"); !reflect.DeepEqual(ids, []string{"st1"}) {
		t.Errorf("flat-starred ids = %v", ids)
	}
	// the root browse view and its pagination entry are untouched
	if ids := fs.FileIDsIn("folder-root"); len(ids) != 0 {
		t.Errorf("folder-root ids = %v, starred listing leaked into the browse view", ids)
	}
	if p := pages.Page("folder-root"); p.Loading || !p.HasMore || p.Cursor != "" {
		t.Errorf("folder-root page = %+v, want untouched defaults", p)
	}
}

func TestFlatFetchWithoutAxisIsRefused(t *testing.T) {
	remote := newFakeRemote()
	remote.flatFiles = func(api.FlatQuery, int, string) (api.FilesPage, error) {
		return api.FilesPage{Items: []api.RemoteFile{{ID: "x1", Kind: "file"}}}, nil
	}
	c, fs, pages, _ := newTestCoordinator(remote)

	c.FetchFlatFiles(context.Background(), api.FlatQuery{})
	c.FetchFlatFiles(context.Background(), api.FlatQuery{Category: api.CategoryAll})

	if n := remote.callCount("FlatFiles"); n != 0 {
		t.Errorf("network called %d times for axis-less queries, want 0", n)
	}
	if ids := fs.FileIDsIn("folder-root"); len(ids) != 0 {
		t.Errorf("folder-root ids = %v", ids)
	}
	if p := pages.Page("folder-root"); p.Loading {
		t.Error("axis-less flat fetch touched the root page entry")
	}
}

func TestFlatFetchSharesKeyAcrossScreens(t *testing.T) {
	remote := newFakeRemote()
	remote.flatFiles = func(filter api.FlatQuery, limit int, cursor string) (api.FilesPage, error) {
		return api.FilesPage{Items: []api.RemoteFile{{ID: "p1", Category: api.CategoryPicture, Kind: "file"}}}, nil
	}
	c, fs, _, _ := newTestCoordinator(remote)

	q := api.FlatQuery{Category: api.CategoryPicture}
	c.FetchFlatFiles(context.Background(), q)
	c.FetchFlatFiles(context.Background(), q) // second screen, same view

	if n := remote.callCount("FlatFiles"); n != 1 {
		t.Errorf("network called %d times, want shared exhausted key", n)
	}
	if ids := fs.FileIDsIn("flat-images"); !reflect.DeepEqual(ids, []string{"p1"}) {
		t.Errorf("flat-images ids = %v", ids)
	}
}
