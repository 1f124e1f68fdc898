package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/snapcourier/snapcourier/pkg/model"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndList(t *testing.T) {
	j := openTestJournal(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "cap.jpg")
	if err := os.WriteFile(path, []byte("capture"), 0644); err != nil {
		t.Fatal(err)
	}

	task := model.UploadTask{Path: path, Size: 7}
	outcomes := map[string]bool{"telegram": true, "ntfy": false}
	if err := j.Record(task, outcomes); err != nil {
		t.Fatal(err)
	}

	entries, err := j.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Path != path || e.Size != 7 {
		t.Errorf("entry = %+v", e)
	}
	if !e.AnySuccess {
		t.Error("AnySuccess = false, want true")
	}
	if !e.Outcomes["telegram"] || e.Outcomes["ntfy"] {
		t.Errorf("outcomes = %v", e.Outcomes)
	}
	if e.Hash == "" {
		t.Error("hash missing for an existing file")
	}
	if e.RecordedAt == 0 {
		t.Error("RecordedAt not set")
	}
}

func TestRecordAllFailed(t *testing.T) {
	j := openTestJournal(t)

	task := model.UploadTask{Path: "/gone/cap.jpg", Size: 1}
	if err := j.Record(task, map[string]bool{"discord": false}); err != nil {
		t.Fatal(err)
	}

	entries, err := j.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].AnySuccess {
		t.Error("AnySuccess = true, want false")
	}
	// Missing file: no hash, but the entry is still recorded.
	if entries[0].Hash != "" {
		t.Errorf("hash = %q, want empty", entries[0].Hash)
	}
}

func TestListChronologicalOrder(t *testing.T) {
	j := openTestJournal(t)

	for i, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		task := model.UploadTask{Path: "/album/" + name, Size: int64(i)}
		if err := j.Record(task, map[string]bool{"ntfy": true}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := j.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	want := []string{"/album/a.jpg", "/album/b.jpg", "/album/c.jpg"}
	for i, w := range want {
		if entries[i].Path != w {
			t.Errorf("entry %d = %s, want %s", i, entries[i].Path, w)
		}
	}
}

func TestListEmpty(t *testing.T) {
	j := openTestJournal(t)
	entries, err := j.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested.db")
	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("journal file missing: %v", err)
	}
}
