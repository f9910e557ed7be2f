package fetch

import (
	"context"

	"nimbus/internal/api"
	"nimbus/internal/store"
)

// CreateFolder creates a folder at the remote and, on success, upserts the
// returned canonical object into the *current* folder's pagination key, so the
// new folder shows up in whatever view the user is looking at. A name
// collision comes back as *api.ConflictError and nothing enters the store.
func (c *Coordinator) CreateFolder(ctx context.Context, name, parentID string, autoRename bool) (api.RemoteFolder, error) {
	remoteParent := parentID
	if remoteParent == store.RootID {
		remoteParent = ""
	}
	folder, err := c.remote.CreateFolder(ctx, name, remoteParent, autoRename)
	if err != nil {
		return api.RemoteFolder{}, err
	}

	key := store.BuildPaginationKey(c.nav.CurrentFolder(), "all")
	c.fs.UpsertFolders(key, folder)
	return folder, nil
}

// RenameFile renames a file in place. List membership is untouched.
func (c *Coordinator) RenameFile(ctx context.Context, id, name string) (api.RemoteFile, error) {
	f, err := c.remote.RenameFile(ctx, id, name)
	if err != nil {
		return api.RemoteFile{}, err
	}
	c.fs.UpsertFile(f)
	return f, nil
}

// RenameFolder renames a folder in place. A stale cached breadcrumb path is
// acceptable here: names join live against the entity store at render time.
func (c *Coordinator) RenameFolder(ctx context.Context, id, name string) (api.RemoteFolder, error) {
	f, err := c.remote.RenameFolder(ctx, id, name)
	if err != nil {
		return api.RemoteFolder{}, err
	}
	c.fs.UpsertFolder(f)
	return f, nil
}

// DeleteFile confirms the delete at the remote, then removes the entity from
// the cache under the view key it was fetched under. Soft delete at the
// backend is mirrored as plain cache removal.
func (c *Coordinator) DeleteFile(ctx context.Context, parentKey, id string) error {
	if err := c.remote.DeleteFile(ctx, id); err != nil {
		return err
	}
	c.fs.RemoveFile(parentKey, id)
	return nil
}

// DeleteFolder is DeleteFile for folders. The folder's own page entry is reset
// so a later navigation into a recreated folder starts fresh.
func (c *Coordinator) DeleteFolder(ctx context.Context, parentKey, id string) error {
	if err := c.remote.DeleteFolder(ctx, id); err != nil {
		return err
	}
	c.fs.RemoveFolder(parentKey, id)
	c.pages.ResetPage(store.BuildPaginationKey(id, "all"))
	return nil
}
