package store

import (
	"strings"

	"nimbus/internal/api"
)

// RootID is the sentinel folder ID of the drive root.
const RootID = "root"

// categoryKeys chuẩn hoá giá trị category từ API thành khóa ngắn cho flat-list.
var categoryKeys = map[api.Category]string{
	api.CategoryPicture:  "images",
	api.CategoryDocument: "documents",
	api.CategoryVideo:    "videos",
	api.CategoryAudio:    "music",
	api.CategoryOther:    "other",
	api.CategoryAll:      "all",
}

// CategoryKey maps a backend category onto its short filter key. Anything
// unknown degrades to "all".
func CategoryKey(category string) string {
	if key, ok := categoryKeys[api.Category(strings.ToLower(category))]; ok {
		return key
	}
	return "all"
}

// FlatQueryKey maps a flat query onto its filter key. The trash, starred and
// shared axes are views of their own and take precedence over category; a
// query with no axis degrades to "all", which BuildPaginationKey would fold
// into the root browse key, so callers must treat "all" as not-a-flat-view.
func FlatQueryKey(q api.FlatQuery) string {
	switch {
	case q.Deleted:
		return "trash"
	case q.Starred:
		return "starred"
	case q.Shared:
		return "shared"
	}
	return CategoryKey(string(q.Category))
}

// BuildPaginationKey derives the cache/pagination key of one logical view.
//
//	filter == "" or "all"  ->  folder-<folderID>   (hierarchical browse)
//	otherwise              ->  flat-<filter>       (folder-agnostic flat view)
//
// Deterministic on purpose: two screens asking for the same folder+filter share
// one cache entry and one in-flight guard. Sort order and search query are
// deliberately not part of the key (see DESIGN.md).
func BuildPaginationKey(folderID, filter string) string {
	if filter != "" && filter != "all" {
		return "flat-" + filter
	}
	return "folder-" + folderID
}
