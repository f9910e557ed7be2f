package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// UnmarshalJSON decodes one mixed listing entry by its kind tag. Unknown kinds
// are kept with both pointers nil so a newer backend cannot break the client.
func (d *DriveItem) UnmarshalJSON(data []byte) error {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	d.Kind = probe.Kind
	switch probe.Kind {
	case "folder":
		var f RemoteFolder
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		d.Folder = &f
	case "file":
		var f RemoteFile
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		d.File = &f
	}
	return nil
}

// FolderContents lists one page of a folder's mixed file+folder contents.
func (c *Client) FolderContents(ctx context.Context, folderID string, limit int, cursor string) (ContentsPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	var out struct {
		Items      []DriveItem `json:"items"`
		NextCursor string      `json:"nextCursor"`
	}
	if err := c.getJSON(ctx, "/folders/"+url.PathEscape(folderID)+"/contents", q, &out); err != nil {
		return ContentsPage{}, err
	}
	return ContentsPage{Items: out.Items, NextCursor: out.NextCursor}, nil
}

// Folder fetches one folder's metadata.
func (c *Client) Folder(ctx context.Context, id string) (RemoteFolder, error) {
	var out RemoteFolder
	if err := c.getJSON(ctx, "/folders/"+url.PathEscape(id), nil, &out); err != nil {
		return RemoteFolder{}, err
	}
	return out, nil
}

// FolderAncestors returns the chain root→immediate parent, excluding id itself.
func (c *Client) FolderAncestors(ctx context.Context, id string) ([]RemoteFolder, error) {
	var out []RemoteFolder
	if err := c.getJSON(ctx, "/folders/"+url.PathEscape(id)+"/ancestors", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFolder creates a folder under parentID ("" = root). A name collision
// comes back as *ConflictError.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string, autoRename bool) (RemoteFolder, error) {
	body := map[string]any{
		"name":        name,
		"auto_rename": autoRename,
	}
	if parentID != "" {
		body["parent_id"] = parentID
	} else {
		body["parent_id"] = nil
	}
	var out RemoteFolder
	if err := c.sendJSON(ctx, http.MethodPost, "/folders", body, &out); err != nil {
		return RemoteFolder{}, err
	}
	return out, nil
}

// RenameFolder renames one folder and returns the canonical object.
func (c *Client) RenameFolder(ctx context.Context, id, name string) (RemoteFolder, error) {
	var out RemoteFolder
	err := c.sendJSON(ctx, http.MethodPatch, "/folders/"+url.PathEscape(id), map[string]string{"name": name}, &out)
	if err != nil {
		return RemoteFolder{}, fmt.Errorf("rename folder %s: %w", id, err)
	}
	return out, nil
}

// DeleteFolder soft-deletes one folder at the remote.
func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, "/folders/"+url.PathEscape(id), nil, nil)
}
