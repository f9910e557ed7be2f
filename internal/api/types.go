package api

import "time"

// Category phân loại file do backend gán khi upload.
type Category string

const (
	CategoryPicture  Category = "picture"
	CategoryDocument Category = "document"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryOther    Category = "other"
	CategoryAll      Category = "all"
)

// RemoteFile is one file object stored at the backend (S3/MinIO).
type RemoteFile struct {
	ID             string     `json:"id"`
	ParentID       string     `json:"parent_id,omitempty"`
	ObjectKey      string     `json:"object_key"`
	Name           string     `json:"name"`
	Size           int64      `json:"size"`
	MimeType       string     `json:"mime_type"`
	Category       Category   `json:"category"`
	ThumbnailURL   string     `json:"thumbnail_url,omitempty"`
	ThumbnailExp   *time.Time `json:"thumbnail_url_exp,omitempty"`
	IsStarred      bool       `json:"is_starred"`
	IsSharedPublic bool       `json:"is_shared_public"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	Kind           string     `json:"kind"`
}

// RemoteFolder is one folder node in the drive hierarchy. Children are never
// embedded; membership is derived client-side from the per-parent ID lists.
type RemoteFolder struct {
	ID        string     `json:"id"`
	ParentID  string     `json:"parent_id,omitempty"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	Kind      string     `json:"kind"`
}

// DriveItem is one entry of a mixed folder listing, tagged by kind.
// Exactly one of File/Folder is set.
type DriveItem struct {
	Kind   string
	File   *RemoteFile
	Folder *RemoteFolder
}

// ContentsPage is the paginated mixed listing of one folder.
type ContentsPage struct {
	Items      []DriveItem
	NextCursor string
}

// FilesPage is the paginated flat file listing (category/starred/shared/trash).
type FilesPage struct {
	Items      []RemoteFile
	NextCursor string
}

// FlatQuery are the filter params of the flat /files listing.
type FlatQuery struct {
	Category Category
	Starred  bool
	Shared   bool
	Deleted  bool
}

// SearchQuery are the params of the one-shot /search endpoint.
type SearchQuery struct {
	Query string
	Limit int
	Sort  string // name | updated | size
	Order string // asc | desc
}

// Dashboard summary shapes, mirrored from the backend aggregate endpoint.

type CategoryTotals struct {
	TotalFolders   int `json:"totalFolders"`
	TotalImages    int `json:"totalImages"`
	TotalVideos    int `json:"totalVideos"`
	TotalDocuments int `json:"totalDocuments"`
	TotalMusic     int `json:"totalMusic"`
	TotalOthers    int `json:"totalOthers"`
}

type SummaryData struct {
	CategoryTotals
	StorageUsed         int64          `json:"storageUsed"`
	StorageTotal        int64          `json:"storageTotal"`
	NewUploadsThisMonth CategoryTotals `json:"newUploadsThisMonth"`
}

// TrendPoint is one bucket of the upload-trend chart (per day or per month).
type TrendPoint struct {
	Name      string `json:"name"`
	Images    int    `json:"images"`
	Videos    int    `json:"videos"`
	Documents int    `json:"documents"`
	Musics    int    `json:"musics"`
	Others    int    `json:"others"`
}

type TypeDistributionItem struct {
	Name       string  `json:"name"`
	Value      int     `json:"value"`
	Percentage float64 `json:"percentage"`
	Size       string  `json:"size"`
	Category   string  `json:"category"`
}

type RecentFile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      string    `json:"size"`
	MimeType  string    `json:"mimeType"`
	Category  string    `json:"category"`
	ObjectKey string    `json:"objectKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Parent    *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"parent"`
}

// DashboardSummary is everything the dashboard screen needs in one response.
type DashboardSummary struct {
	SummaryData          SummaryData            `json:"summaryData"`
	UploadTrendsDaily    []TrendPoint           `json:"uploadTrendsDaily"`
	UploadTrendsMonthly  []TrendPoint           `json:"uploadTrendsMonthly"`
	FileTypeDistribution []TypeDistributionItem `json:"fileTypeDistribution"`
	RecentFiles          []RecentFile           `json:"recentFiles"`
}
