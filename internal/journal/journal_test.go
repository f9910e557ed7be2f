package journal

import (
	"path/filepath"
	"testing"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "queue", "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndPending(t *testing.T) {
	j := openTestJournal(t)

	if err := j.Record("/drop/a.txt", "root"); err != nil {
		t.Fatal(err)
	}
	if err := j.Record("/drop/b.txt", "f1"); err != nil {
		t.Fatal(err)
	}

	rows, err := j.Pending(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("pending = %d rows", len(rows))
	}
	if rows[0].Path != "/drop/a.txt" || rows[0].FolderID != "root" {
		t.Errorf("row 0 = %+v", rows[0])
	}
}

func TestRecordIsUpsertByPath(t *testing.T) {
	j := openTestJournal(t)

	if err := j.Record("/drop/a.txt", "root"); err != nil {
		t.Fatal(err)
	}
	if err := j.MarkFailed("/drop/a.txt", "network down"); err != nil {
		t.Fatal(err)
	}
	rows, _ := j.Pending(10)
	if len(rows) != 0 {
		t.Fatal("failed row must leave the pending set")
	}

	// watcher sees the file again: back to pending, error cleared on upload
	if err := j.Record("/drop/a.txt", "f2"); err != nil {
		t.Fatal(err)
	}
	rows, _ = j.Pending(10)
	if len(rows) != 1 || rows[0].FolderID != "f2" {
		t.Errorf("re-recorded row = %+v", rows)
	}
}

func TestMarkUploadedLeavesPending(t *testing.T) {
	j := openTestJournal(t)

	j.Record("/drop/a.txt", "root")
	if err := j.MarkUploaded("/drop/a.txt"); err != nil {
		t.Fatal(err)
	}
	rows, _ := j.Pending(10)
	if len(rows) != 0 {
		t.Errorf("pending after upload = %v", rows)
	}
}
