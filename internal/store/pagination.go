package store

import "sync"

// PageState is the pagination state of one view key.
type PageState struct {
	Loading bool
	HasMore bool
	Limit   int
	Cursor  string
	Err     string
}

// Registry tracks pagination state per view key. StartLoad is the single
// concurrency-control device: the check-then-set runs under one mutex hold, so
// at most one fetch is in flight per key even across goroutines.
type Registry struct {
	mu    sync.Mutex
	limit int
	pages map[string]PageState
}

// NewRegistry creates a registry whose fresh pages use the given page size.
func NewRegistry(limit int) *Registry {
	if limit <= 0 {
		limit = 50
	}
	return &Registry{limit: limit, pages: make(map[string]PageState)}
}

func (r *Registry) defaultPage() PageState {
	return PageState{HasMore: true, Limit: r.limit}
}

// Page returns a snapshot of key's state, defaulting if absent.
func (r *Registry) Page(key string) PageState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pages[key]; ok {
		return p
	}
	return r.defaultPage()
}

// StartLoad attempts the Loading transition. It returns false without touching
// anything when the key is already loading or exhausted; the caller must skip
// the fetch in that case. Err is left as is so a failed page may be retried.
func (r *Registry) StartLoad(key string) (PageState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[key]
	if !ok {
		p = r.defaultPage()
	}
	if p.Loading || !p.HasMore {
		return p, false
	}
	p.Loading = true
	r.pages[key] = p
	return p, true
}

// StopLoad ends a load. hasMore mirrors whether the server handed back a
// continuation cursor. A successful stop also clears any stale error.
func (r *Registry) StopLoad(key string, hasMore bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[key]
	if !ok {
		p = r.defaultPage()
	}
	p.Loading = false
	p.HasMore = hasMore
	p.Err = ""
	r.pages[key] = p
}

// AdvanceCursor stores the continuation cursor after a successful fetch.
func (r *Registry) AdvanceCursor(key, cursor string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[key]
	if !ok {
		p = r.defaultPage()
	}
	p.Cursor = cursor
	r.pages[key] = p
}

// SetPageError records a fetch failure. Loading is cleared so the key can be
// retried; HasMore is left untouched.
func (r *Registry) SetPageError(key, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[key]
	if !ok {
		p = r.defaultPage()
	}
	p.Loading = false
	p.Err = msg
	r.pages[key] = p
}

// ResetPage deletes key's entry, returning it to the fresh state.
func (r *Registry) ResetPage(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, key)
}

// Clear drops every page. Called on logout together with FileSystem.Clear.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = make(map[string]PageState)
}
