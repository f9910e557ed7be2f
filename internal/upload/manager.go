// Package upload runs the upload queue. Every queued file is an independent
// request with its own status and progress; one file failing or being
// cancelled never touches its siblings.
package upload

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"nimbus/internal/api"
	"nimbus/internal/logger"
	"nimbus/internal/store"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
	StatusCancelled Status = "cancelled"
)

// Item is one queued upload.
type Item struct {
	ID       string
	Path     string
	Name     string
	FolderID string
	Progress float64
	Status   Status
	Err      string
}

// Remote is the single API call the manager needs.
type Remote interface {
	UploadFile(ctx context.Context, path, parentID string, progress api.ProgressFunc) (api.RemoteFile, error)
}

type Manager struct {
	remote Remote
	fs     *store.FileSystem

	mu        sync.Mutex
	items     []*Item
	cancels   map[string]context.CancelFunc
	popupOpen bool
	total     int
	completed int
	wg        sync.WaitGroup
}

func NewManager(remote Remote, fs *store.FileSystem) *Manager {
	return &Manager{
		remote:  remote,
		fs:      fs,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Enqueue queues the given local files for upload into folderID and starts
// them immediately. Returns the queue item IDs in input order.
func (m *Manager) Enqueue(ctx context.Context, paths []string, folderID string) []string {
	ids := make([]string, 0, len(paths))
	for _, p := range paths {
		ids = append(ids, m.enqueueOne(ctx, p, folderID, nil))
	}
	return ids
}

// EnqueueWithDone queues one file and invokes done with the terminal error
// (nil on success) once the upload finishes. Used by the drop-folder drain
// loop to mark journal rows.
func (m *Manager) EnqueueWithDone(ctx context.Context, path, folderID string, done func(error)) string {
	return m.enqueueOne(ctx, path, folderID, done)
}

func (m *Manager) enqueueOne(ctx context.Context, path, folderID string, done func(error)) string {
	item := &Item{
		ID:       uuid.NewString(),
		Path:     path,
		Name:     filepath.Base(path),
		FolderID: folderID,
		Status:   StatusPending,
	}

	uctx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	m.items = append(m.items, item)
	m.cancels[item.ID] = cancel
	m.total++
	m.popupOpen = true
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		err := m.run(uctx, item.ID)
		if done != nil {
			done(err)
		}
	}()
	return item.ID
}

// run drives one upload to a terminal status.
func (m *Manager) run(ctx context.Context, id string) error {
	item, ok := m.transition(id, StatusPending, StatusUploading)
	if !ok {
		// cancelled before it started
		return context.Canceled
	}

	remoteParent := item.FolderID
	if remoteParent == store.RootID {
		remoteParent = ""
	}

	file, err := m.remote.UploadFile(ctx, item.Path, remoteParent, func(frac float64) {
		m.setProgress(id, frac)
	})
	if err != nil {
		m.fail(id, err)
		return err
	}

	m.complete(id)
	m.fs.UpsertFiles(store.BuildPaginationKey(item.FolderID, "all"), file)
	return nil
}

// transition flips status from want to next, refusing when the item has moved
// on (e.g. was cancelled meanwhile).
func (m *Manager) transition(id string, want, next Status) (Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := m.find(id)
	if it == nil || it.Status != want {
		return Item{}, false
	}
	it.Status = next
	return *it, true
}

func (m *Manager) setProgress(id string, frac float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := m.find(id)
	if it == nil || it.Status != StatusUploading {
		// cancelled items stop reporting progress
		return
	}
	if frac > it.Progress {
		it.Progress = frac
	}
}

func (m *Manager) fail(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := m.find(id)
	if it == nil || it.Status == StatusCancelled {
		return
	}
	if errors.Is(err, context.Canceled) {
		it.Status = StatusCancelled
		return
	}
	it.Status = StatusError
	it.Err = err.Error()
	logger.Errorf("upload %s: %v", it.Name, err)
}

func (m *Manager) complete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := m.find(id)
	if it == nil || it.Status == StatusCancelled {
		return
	}
	it.Status = StatusCompleted
	it.Progress = 1
	m.completed++
}

// caller must hold mu
func (m *Manager) find(id string) *Item {
	for _, it := range m.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// Cancel marks one upload cancelled and cancels its request context.
// Cooperative: the transport may still finish, but no further UI-visible
// state changes happen for the item.
func (m *Manager) Cancel(id string) {
	m.mu.Lock()
	it := m.find(id)
	if it != nil && (it.Status == StatusPending || it.Status == StatusUploading) {
		it.Status = StatusCancelled
	}
	cancel := m.cancels[id]
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Remove drops one item from the queue view.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.items[:0]
	for _, it := range m.items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	m.items = out
	delete(m.cancels, id)
}

// ClearCompleted drops finished items and rebases the counters.
func (m *Manager) ClearCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.items[:0]
	for _, it := range m.items {
		if it.Status != StatusCompleted {
			out = append(out, it)
		}
	}
	m.items = out
	m.completed = 0
	m.total = len(m.items)
}

// Reset wipes the queue. Called on logout.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cancel := range m.cancels {
		cancel()
	}
	m.items = nil
	m.cancels = make(map[string]context.CancelFunc)
	m.popupOpen = false
	m.total = 0
	m.completed = 0
}

// Wait blocks until every started upload reached a terminal status.
func (m *Manager) Wait() { m.wg.Wait() }

// Snapshot returns the queue in enqueue order plus popup/counter state.
func (m *Manager) Snapshot() (items []Item, popupOpen bool, total, completed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items = make([]Item, 0, len(m.items))
	for _, it := range m.items {
		items = append(items, *it)
	}
	return items, m.popupOpen, m.total, m.completed
}

// Item returns one queue item by ID.
func (m *Manager) Item(id string) (Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it := m.find(id); it != nil {
		return *it, true
	}
	return Item{}, false
}

func (m *Manager) OpenPopup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.popupOpen = true
}

func (m *Manager) ClosePopup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.popupOpen = false
}
