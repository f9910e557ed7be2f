package fetch

import (
	"context"
	"sync"
	"time"

	"nimbus/internal/api"
	"nimbus/internal/logger"
	"nimbus/internal/store"
)

// Crumb is one breadcrumb segment.
type Crumb struct {
	ID   string
	Name string
}

// RootCrumb is synthesized at render time; the root sentinel never enters the
// cached ID paths.
var RootCrumb = Crumb{ID: store.RootID, Name: "My Drive"}

// unknownName thay cho tên thư mục chưa resolve được metadata.
const unknownName = "Unknown"

// FetchFolderMetadata returns one folder's metadata, cache first.
func (c *Coordinator) FetchFolderMetadata(ctx context.Context, folderID string) (api.RemoteFolder, error) {
	if f, ok := c.fs.FolderByID(folderID); ok {
		return f, nil
	}
	f, err := c.remote.Folder(ctx, folderID)
	if err != nil {
		return api.RemoteFolder{}, err
	}
	c.fs.UpsertFolder(f)
	return f, nil
}

// FetchAncestors resolves the ordered ancestor chain of folderID (the folder
// itself included last). The ID path is cached per folder; missing folder
// metadata is fetched in parallel and a fetch failure degrades that segment to
// a placeholder name instead of failing navigation.
func (c *Coordinator) FetchAncestors(ctx context.Context, folderID string) ([]Crumb, error) {
	pathIDs, ok := c.nav.BreadcrumbIDs(folderID)
	if !ok {
		ancestors, err := c.remote.FolderAncestors(ctx, folderID)
		if err != nil {
			return nil, err
		}
		pathIDs = make([]string, 0, len(ancestors)+1)
		for _, f := range ancestors {
			pathIDs = append(pathIDs, f.ID)
		}
		pathIDs = append(pathIDs, folderID)
		c.nav.UpsertBreadcrumbs(folderID, pathIDs)
	}

	// Bổ sung metadata còn thiếu, song song.
	var wg sync.WaitGroup
	for _, id := range pathIDs {
		if _, ok := c.fs.FolderByID(id); ok {
			continue
		}
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := c.FetchFolderMetadata(ctx, id); err != nil {
				logger.Errorf("ancestor metadata %s: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	crumbs := make([]Crumb, 0, len(pathIDs))
	for _, id := range pathIDs {
		name := unknownName
		if f, ok := c.fs.FolderByID(id); ok {
			name = f.Name
		}
		crumbs = append(crumbs, Crumb{ID: id, Name: name})
	}
	return crumbs, nil
}

// Breadcrumb is the read model joining the cached ID path against the entity
// store, root included at the front. Safe to call before resolution finishes;
// unresolved segments render as placeholders.
func (c *Coordinator) Breadcrumb(folderID string) []Crumb {
	ids, _ := c.nav.BreadcrumbIDs(folderID)
	if len(ids) > 0 && ids[0] == store.RootID {
		ids = ids[1:]
	}
	crumbs := make([]Crumb, 0, len(ids)+1)
	crumbs = append(crumbs, RootCrumb)
	for _, id := range ids {
		name := unknownName
		if f, ok := c.fs.FolderByID(id); ok {
			name = f.Name
		}
		crumbs = append(crumbs, Crumb{ID: id, Name: name})
	}
	return crumbs
}

// ChangeFolder updates the current folder synchronously and kicks off ancestor
// resolution in the background. Navigation never blocks on breadcrumbs, and a
// resolution failure is logged, not surfaced.
func (c *Coordinator) ChangeFolder(folderID string) {
	c.nav.NavigateToFolder(folderID)

	if folderID == store.RootID {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := c.FetchAncestors(ctx, folderID); err != nil {
			logger.Errorf("resolve ancestors %s: %v", folderID, err)
		}
	}()
}
