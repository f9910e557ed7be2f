package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// FlatFiles lists one page of the folder-agnostic flat file listing
// (category / starred / shared / trash filters).
func (c *Client) FlatFiles(ctx context.Context, filter FlatQuery, limit int, cursor string) (FilesPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if filter.Category != "" && filter.Category != CategoryAll {
		q.Set("category", string(filter.Category))
	}
	if filter.Starred {
		q.Set("starred", "true")
	}
	if filter.Shared {
		q.Set("shared", "true")
	}
	if filter.Deleted {
		q.Set("deleted", "true")
	}
	var out struct {
		Items      []RemoteFile `json:"items"`
		NextCursor string       `json:"nextCursor"`
	}
	if err := c.getJSON(ctx, "/files", q, &out); err != nil {
		return FilesPage{}, err
	}
	return FilesPage{Items: out.Items, NextCursor: out.NextCursor}, nil
}

// Search runs the one-shot file search. No cursor pagination; the backend
// caps the result at limit.
func (c *Client) Search(ctx context.Context, query SearchQuery) ([]RemoteFile, error) {
	q := url.Values{}
	q.Set("q", query.Query)
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}
	q.Set("limit", strconv.Itoa(limit))
	sort := query.Sort
	if sort == "" {
		sort = "updated"
	}
	q.Set("sort", sort)
	order := query.Order
	if order == "" {
		order = "desc"
	}
	q.Set("order", order)

	var out []RemoteFile
	if err := c.getJSON(ctx, "/search", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FilesByDateRange fetches files created inside [start, end] for the report
// screen. One-shot, generously capped instead of cursor-paginated.
func (c *Client) FilesByDateRange(ctx context.Context, start, end time.Time, limit int) ([]RemoteFile, error) {
	q := url.Values{}
	q.Set("start_date", start.Format(time.RFC3339))
	q.Set("end_date", end.Format(time.RFC3339))
	if limit <= 0 {
		limit = 1000
	}
	q.Set("limit", strconv.Itoa(limit))

	var out struct {
		Files []RemoteFile `json:"files"`
	}
	if err := c.getJSON(ctx, "/files/date-range", q, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

// DashboardSummary fetches the aggregate stats for the dashboard screen.
func (c *Client) DashboardSummary(ctx context.Context) (DashboardSummary, error) {
	var out DashboardSummary
	if err := c.getJSON(ctx, "/dashboard/summary", nil, &out); err != nil {
		return DashboardSummary{}, fmt.Errorf("dashboard summary: %w", err)
	}
	return out, nil
}

// RenameFile renames one file and returns the canonical object.
func (c *Client) RenameFile(ctx context.Context, id, name string) (RemoteFile, error) {
	var out RemoteFile
	err := c.sendJSON(ctx, http.MethodPatch, "/files/"+url.PathEscape(id), map[string]string{"name": name}, &out)
	if err != nil {
		return RemoteFile{}, fmt.Errorf("rename file %s: %w", id, err)
	}
	return out, nil
}

// DeleteFile soft-deletes one file at the remote.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, "/files/"+url.PathEscape(id), nil, nil)
}
