// Package store holds the session-scoped client cache: the normalized entity
// store and the pagination registry. All mutation goes through the narrow
// operations below; nothing else may touch the maps.
package store

import (
	"sync"

	"nimbus/internal/api"
)

// FileSystem is the normalized entity store.
//
//	filesByKey[parentKey]   -> ordered file IDs
//	foldersByKey[parentKey] -> ordered folder IDs
//	fileByID / folderByID   -> metadata lookup
//
// Invariant: every ID in a per-key list has an entry in the lookup map.
type FileSystem struct {
	mu           sync.RWMutex
	fileByID     map[string]api.RemoteFile
	folderByID   map[string]api.RemoteFolder
	filesByKey   map[string][]string
	foldersByKey map[string][]string
}

func NewFileSystem() *FileSystem {
	fs := &FileSystem{}
	fs.reset()
	return fs
}

func (s *FileSystem) reset() {
	s.fileByID = make(map[string]api.RemoteFile)
	s.folderByID = make(map[string]api.RemoteFolder)
	s.filesByKey = make(map[string][]string)
	s.foldersByKey = make(map[string][]string)
}

// mergeUnique giữ thứ tự cũ và bỏ trùng khi nối thêm ID mới.
func mergeUnique(prev, incoming []string) []string {
	seen := make(map[string]struct{}, len(prev)+len(incoming))
	out := make([]string, 0, len(prev)+len(incoming))
	for _, id := range prev {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range incoming {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// UpsertFiles stores the files by ID and appends any new IDs to parentKey's
// list. Idempotent: re-upserting an ID never duplicates it.
func (s *FileSystem) UpsertFiles(parentKey string, files ...api.RemoteFile) {
	if len(files) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(files))
	for _, f := range files {
		s.fileByID[f.ID] = f
		ids = append(ids, f.ID)
	}
	s.filesByKey[parentKey] = mergeUnique(s.filesByKey[parentKey], ids)
}

// UpsertFolders is UpsertFiles for folder entities.
func (s *FileSystem) UpsertFolders(parentKey string, folders ...api.RemoteFolder) {
	if len(folders) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(folders))
	for _, f := range folders {
		s.folderByID[f.ID] = f
		ids = append(ids, f.ID)
	}
	s.foldersByKey[parentKey] = mergeUnique(s.foldersByKey[parentKey], ids)
}

// UpsertFile stores one file's metadata without touching any parent list.
func (s *FileSystem) UpsertFile(f api.RemoteFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileByID[f.ID] = f
}

// UpsertFolder stores one folder's metadata without touching any parent list.
// Used by ancestor resolution, where list membership is irrelevant.
func (s *FileSystem) UpsertFolder(f api.RemoteFolder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folderByID[f.ID] = f
}

func removeID(list []string, id string) []string {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// RemoveFile drops the entity and strips its ID from parentKey's list only.
// An entity is fetched under exactly one key, so no other list is scanned.
func (s *FileSystem) RemoveFile(parentKey, fileID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fileByID, fileID)
	s.filesByKey[parentKey] = removeID(s.filesByKey[parentKey], fileID)
}

// RemoveFolder drops the entity and strips its ID from parentKey's list only.
func (s *FileSystem) RemoveFolder(parentKey, folderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.folderByID, folderID)
	s.foldersByKey[parentKey] = removeID(s.foldersByKey[parentKey], folderID)
}

// Clear resets the store to empty. Called on logout.
func (s *FileSystem) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// FileByID looks up one file.
func (s *FileSystem) FileByID(id string) (api.RemoteFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fileByID[id]
	return f, ok
}

// FolderByID looks up one folder.
func (s *FileSystem) FolderByID(id string) (api.RemoteFolder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.folderByID[id]
	return f, ok
}

// FilesIn joins parentKey's ID list against the lookup map, in list order.
// A dangling ID would be an invariant violation; it is skipped defensively
// rather than surfaced to the UI.
func (s *FileSystem) FilesIn(parentKey string) []api.RemoteFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.filesByKey[parentKey]
	out := make([]api.RemoteFile, 0, len(ids))
	for _, id := range ids {
		if f, ok := s.fileByID[id]; ok {
			out = append(out, f)
		}
	}
	return out
}

// FoldersIn is FilesIn for folders.
func (s *FileSystem) FoldersIn(parentKey string) []api.RemoteFolder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.foldersByKey[parentKey]
	out := make([]api.RemoteFolder, 0, len(ids))
	for _, id := range ids {
		if f, ok := s.folderByID[id]; ok {
			out = append(out, f)
		}
	}
	return out
}

// FileIDsIn returns the raw ordered file ID list of one key.
func (s *FileSystem) FileIDsIn(parentKey string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.filesByKey[parentKey]...)
}

// FolderIDsIn returns the raw ordered folder ID list of one key.
func (s *FileSystem) FolderIDsIn(parentKey string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.foldersByKey[parentKey]...)
}
