// Package nav holds navigation state: the current folder, the view mode and
// the per-folder breadcrumb ID cache. Resolution logic lives in internal/fetch;
// this package is state only.
package nav

import (
	"sync"

	"nimbus/internal/store"
)

type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

type Navigator struct {
	mu              sync.RWMutex
	currentFolderID string
	viewMode        ViewMode
	// breadcrumbIDs[folderID] -> ordered ancestor IDs, root sentinel excluded,
	// folder itself included last. Not invalidated on folder moves (known
	// limitation, see DESIGN.md).
	breadcrumbIDs map[string][]string
}

func NewNavigator() *Navigator {
	return &Navigator{
		currentFolderID: store.RootID,
		viewMode:        ViewGrid,
		breadcrumbIDs:   make(map[string][]string),
	}
}

func (n *Navigator) NavigateToFolder(folderID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.currentFolderID = folderID
}

func (n *Navigator) CurrentFolder() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.currentFolderID
}

func (n *Navigator) SetViewMode(mode ViewMode) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.viewMode = mode
}

func (n *Navigator) ViewMode() ViewMode {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.viewMode
}

// UpsertBreadcrumbs caches the resolved ancestor ID path of one folder.
func (n *Navigator) UpsertBreadcrumbs(folderID string, path []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.breadcrumbIDs[folderID] = append([]string(nil), path...)
}

// BreadcrumbIDs returns the cached ancestor ID path, if any.
func (n *Navigator) BreadcrumbIDs(folderID string) ([]string, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ids, ok := n.breadcrumbIDs[folderID]
	if !ok {
		return nil, false
	}
	return append([]string(nil), ids...), true
}

// Reset returns to the root view without dropping the breadcrumb cache.
func (n *Navigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.currentFolderID = store.RootID
	n.viewMode = ViewGrid
}

// Clear wipes everything, breadcrumb cache included. Called on logout.
func (n *Navigator) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.currentFolderID = store.RootID
	n.viewMode = ViewGrid
	n.breadcrumbIDs = make(map[string][]string)
}
