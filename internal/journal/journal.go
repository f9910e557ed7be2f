// Package journal persists the drop-folder upload queue in a local sqlite
// file, so files noticed by the watcher survive a restart before they are
// uploaded. It never stores cached entities; the entity cache is in-memory
// only and session-scoped.
package journal

import (
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

const (
	StatusPending  = "pending"
	StatusUploaded = "uploaded"
	StatusFailed   = "failed"
)

// PendingUpload là một file cục bộ chờ đẩy lên backend.
type PendingUpload struct {
	ID         uint   `gorm:"primaryKey"`
	Path       string `gorm:"uniqueIndex"`
	FolderID   string `gorm:"size:64"`
	Status     string `gorm:"size:32"`
	LastError  string `gorm:"size:1024"`
	EnqueuedAt time.Time
	UploadedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Journal struct {
	db *gorm.DB
}

func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&PendingUpload{}); err != nil {
		return nil, err
	}
	return &Journal{db: db}, nil
}

// Record upserts one path as pending. Re-recording a path (file modified
// again) resets it to pending.
func (j *Journal) Record(path, folderID string) error {
	row := PendingUpload{
		Path:       path,
		FolderID:   folderID,
		Status:     StatusPending,
		EnqueuedAt: time.Now(),
	}
	return j.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"folder_id", "status", "last_error", "enqueued_at", "updated_at"}),
	}).Create(&row).Error
}

// Pending returns up to limit rows still waiting, oldest first.
func (j *Journal) Pending(limit int) ([]PendingUpload, error) {
	var rows []PendingUpload
	err := j.db.
		Where("status = ?", StatusPending).
		Order("enqueued_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// MarkUploaded flips one path to uploaded.
func (j *Journal) MarkUploaded(path string) error {
	now := time.Now()
	return j.db.Model(&PendingUpload{}).
		Where("path = ?", path).
		Updates(map[string]any{"status": StatusUploaded, "uploaded_at": &now, "last_error": ""}).Error
}

// MarkFailed records the failure; the row stays out of Pending until the
// watcher sees the file again.
func (j *Journal) MarkFailed(path, msg string) error {
	return j.db.Model(&PendingUpload{}).
		Where("path = ?", path).
		Updates(map[string]any{"status": StatusFailed, "last_error": msg}).Error
}

func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
