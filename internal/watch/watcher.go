// Package watch implements the drop-folder pipeline: fsnotify events are
// settled into the sqlite journal, and a drain loop feeds journaled files to
// the upload queue. The client-daemon analogue of drag-and-drop upload.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"nimbus/internal/journal"
	"nimbus/internal/logger"
	"nimbus/internal/upload"
)

// settleDelay chờ file ghi xong trước khi đưa vào journal.
const settleDelay = 2 * time.Second

type Watcher struct {
	dir      string
	folderID string
	journal  *journal.Journal
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]time.Time // path -> last event

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// New watches dir and records finished files as uploads into folderID.
func New(dir, folderID string, j *journal.Journal) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(abs); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		dir:      abs,
		folderID: folderID,
		journal:  j,
		watcher:  fw,
		pending:  make(map[string]time.Time),
		stop:     make(chan struct{}),
	}, nil
}

func (w *Watcher) Start() {
	w.wg.Add(2)
	go w.eventLoop()
	go w.flushLoop()
	logger.Infof("watching drop folder %s", w.dir)
}

func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.stop)
		w.watcher.Close()
	})
	w.wg.Wait()
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending[ev.Name] = time.Now()
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Errorf("watch %s: %v", w.dir, err)
		}
	}
}

// flushLoop journals paths whose last event has settled and that stat as
// regular files. Directories and vanished paths are dropped quietly.
func (w *Watcher) flushLoop() {
	defer w.wg.Done()
	ticker := time.NewTicker(settleDelay)
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.flushSettled()
		}
	}
}

func (w *Watcher) flushSettled() {
	cutoff := time.Now().Add(-settleDelay)

	w.mu.Lock()
	var ready []string
	for path, at := range w.pending {
		if at.Before(cutoff) {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if err := w.journal.Record(path, w.folderID); err != nil {
			logger.Errorf("journal %s: %v", path, err)
		}
	}
}

// StartDrainLoop periodically hands journaled files to the upload manager and
// marks rows as they finish. One row is in flight at most once.
func StartDrainLoop(ctx context.Context, j *journal.Journal, mgr *upload.Manager, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	var mu sync.Mutex
	inflight := make(map[string]struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rows, err := j.Pending(64)
				if err != nil {
					logger.Errorf("journal pending: %v", err)
					continue
				}
				for _, row := range rows {
					mu.Lock()
					if _, busy := inflight[row.Path]; busy {
						mu.Unlock()
						continue
					}
					inflight[row.Path] = struct{}{}
					mu.Unlock()

					path := row.Path
					mgr.EnqueueWithDone(ctx, path, row.FolderID, func(err error) {
						if err != nil {
							_ = j.MarkFailed(path, err.Error())
						} else {
							_ = j.MarkUploaded(path)
						}
						mu.Lock()
						delete(inflight, path)
						mu.Unlock()
					})
				}
			}
		}
	}()
}
